package dto

type CategoryFilters struct {
	IsActive *bool // nil means all
}
