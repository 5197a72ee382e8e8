package dto

type CreateCategoryInput struct {
	ID            string             `json:"id" validate:"omitempty,max=64"`
	Name          string             `json:"name" validate:"required,max=120"`
	Description   string             `json:"description"`
	Color         string             `json:"color" validate:"max=32"`
	Order         *int               `json:"order"`
	IsActive      *bool              `json:"isActive"`
	Subcategories []SubcategoryInput `json:"subcategories" validate:"dive"`
}

// UpdateCategoryInput carries only the fields to change. Subcategories, when
// present, replace the whole stored list.
type UpdateCategoryInput struct {
	ID            string              `json:"-"`
	Name          *string             `json:"name"`
	Description   *string             `json:"description"`
	Color         *string             `json:"color"`
	Order         *int                `json:"order"`
	IsActive      *bool               `json:"isActive"`
	Subcategories *[]SubcategoryInput `json:"subcategories"`
}

type SubcategoryInput struct {
	ID          string `json:"id" validate:"omitempty,max=64"`
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

type UpdateSubcategoryInput struct {
	CategoryID    string  `json:"-"`
	SubcategoryID string  `json:"-"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Order         *int    `json:"order"`
	IsActive      *bool   `json:"isActive"`
}
