package model

// Menu is the nested tree served to the public menu page.
type Menu struct {
	Restaurant     Restaurant     `json:"restaurant"`
	MainCategories []MenuCategory `json:"mainCategories"`
}

type Restaurant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type MenuCategory struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Color         string            `json:"color"`
	Order         int               `json:"order"`
	Subcategories []MenuSubcategory `json:"subcategories"`
}

type MenuSubcategory struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Items       []MenuItemEntry `json:"items"`
}

// MenuItemEntry is the display form of a MenuItem: price is pre-formatted
// and missing fields are already defaulted.
type MenuItemEntry struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Description2  string   `json:"description2"`
	Price         string   `json:"price"`
	Image         string   `json:"image"`
	Allergens     []string `json:"allergens"`
	Dietary       []string `json:"dietary"`
	IsVegetarian  bool     `json:"isVegetarian"`
	PrepTime      string   `json:"prepTime"`
	Popular       bool     `json:"popular"`
	AgeRestricted bool     `json:"ageRestricted"`
}
