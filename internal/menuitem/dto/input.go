package dto

import "github.com/fekuna/omnipos-menu-service/internal/model"

// ItemInput is a create or update payload as sent by the admin forms.
// Price, allergens and the flags arrive in loose shapes and are normalized
// by the usecase. A nil field is "not sent"; on update it keeps the stored
// value.
type ItemInput struct {
	ID             string  `json:"id"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Description2   *string `json:"description2"`
	Price          any     `json:"price"`
	Category       *string `json:"category"`
	MainCategoryID *string `json:"mainCategoryId"`
	SubCategoryID  *string `json:"subCategoryId"`
	Image          *string `json:"image"`
	Allergens      any     `json:"allergens"`
	IsVegetarian   any     `json:"isVegetarian"`
	Popular        any     `json:"popular"`
	AgeRestricted  any     `json:"ageRestricted"`
	PrepTime       *string `json:"prepTime"`
	Source         *string `json:"source"`
}

// MutationResponse is the {success, ...item} body returned by writes.
type MutationResponse struct {
	Success bool `json:"success"`
	*model.MenuItem
}
