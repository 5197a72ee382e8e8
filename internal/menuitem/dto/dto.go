package dto

type ItemFilters struct {
	Category string // composite key, empty means all
}
