package model

import (
	"database/sql/driver"
	"sort"
)

// MainCategory is the top level menu grouping. Subcategories live inside
// the category row; there is no separate table for them.
type MainCategory struct {
	BaseModel
	Name          string        `db:"name" json:"name"`
	Description   string        `db:"description" json:"description"`
	Color         string        `db:"color" json:"color"`
	Order         int           `db:"sort_order" json:"order"`
	IsActive      bool          `db:"is_active" json:"isActive"`
	Subcategories Subcategories `db:"subcategories" json:"subcategories"`
}

type Subcategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
}

// Subcategories is stored as a single JSON document per category.
type Subcategories []Subcategory

func (s Subcategories) Value() (driver.Value, error) {
	if s == nil {
		return valueJSON([]Subcategory{})
	}
	return valueJSON([]Subcategory(s))
}

func (s *Subcategories) Scan(src any) error {
	var out []Subcategory
	if err := scanJSON(src, &out); err != nil {
		return err
	}
	if out == nil {
		out = []Subcategory{}
	}
	*s = out
	return nil
}

// Find returns the index of the subcategory with id, or -1.
func (s Subcategories) Find(id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

// Sorted returns a copy ordered by Order. Equal orders keep their stored
// position.
func (s Subcategories) Sorted() Subcategories {
	out := make(Subcategories, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// SortCategories orders categories by Order, then CreatedAt, then ID, in place.
func SortCategories(cats []MainCategory) {
	sort.SliceStable(cats, func(i, j int) bool {
		a, b := cats[i], cats[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
