package model

type MenuItem struct {
	BaseModel
	Name           string     `db:"name" json:"name"`
	Description    string     `db:"description" json:"description"`
	Description2   string     `db:"description2" json:"description2"`
	Price          float64    `db:"price" json:"price"`
	OriginalPrice  *float64   `db:"original_price" json:"originalPrice,omitempty"`
	Category       string     `db:"category" json:"category"`
	MainCategoryID string     `db:"main_category_id" json:"mainCategoryId"`
	SubCategoryID  string     `db:"sub_category_id" json:"subCategoryId"`
	Image          string     `db:"image" json:"image"`
	Allergens      StringList `db:"allergens" json:"allergens"`
	IsVegetarian   bool       `db:"is_vegetarian" json:"isVegetarian"`
	Popular        bool       `db:"popular" json:"popular"`
	AgeRestricted  bool       `db:"age_restricted" json:"ageRestricted"`
	PrepTime       string     `db:"prep_time" json:"prepTime"`
	Source         string     `db:"source" json:"source,omitempty"`
}
