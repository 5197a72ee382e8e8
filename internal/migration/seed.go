package migration

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// SeedCategory is the file form of a category tree entry.
type SeedCategory struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Color         string            `yaml:"color"`
	Order         int               `yaml:"order"`
	Subcategories []SeedSubcategory `yaml:"subcategories"`
}

type SeedSubcategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
}

// DefaultCategories is the starter tree for an empty restaurant.
func DefaultCategories() []SeedCategory {
	return []SeedCategory{
		{
			ID: "food", Name: "Food", Description: "Delicious main courses and appetizers", Color: "#EF4444", Order: 1,
			Subcategories: []SeedSubcategory{
				{ID: "pizza", Name: "Pizza", Description: "Wood-fired pizzas with fresh ingredients", Order: 1},
				{ID: "pasta", Name: "Pasta", Description: "Homemade pasta with authentic sauces", Order: 2},
				{ID: "appetizers", Name: "Appetizers", Description: "Perfect starters to begin your meal", Order: 3},
			},
		},
		{
			ID: "beverages", Name: "Beverages", Description: "Refreshing drinks and specialty beverages", Color: "#3B82F6", Order: 2,
			Subcategories: []SeedSubcategory{
				{ID: "hot-drinks", Name: "Hot Drinks", Description: "Coffee, tea, and warm beverages", Order: 1},
				{ID: "cold-drinks", Name: "Cold Drinks", Description: "Sodas, juices, and iced beverages", Order: 2},
				{ID: "specialty-drinks", Name: "Specialty Drinks", Description: "Signature cocktails and unique beverages", Order: 3},
			},
		},
		{
			ID: "desserts", Name: "Desserts", Description: "Sweet treats and decadent desserts", Color: "#F59E0B", Order: 3,
			Subcategories: []SeedSubcategory{
				{ID: "cakes", Name: "Cakes", Description: "Fresh baked cakes and pastries", Order: 1},
				{ID: "ice-cream", Name: "Ice Cream", Description: "Creamy ice cream and frozen treats", Order: 2},
			},
		},
	}
}

// LoadSeed reads a YAML list of SeedCategory.
func LoadSeed(r io.Reader) ([]SeedCategory, error) {
	var seed []SeedCategory
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i, c := range seed {
		if c.ID == "" || c.Name == "" {
			return nil, fmt.Errorf("seed entry %d: id and name are required", i)
		}
	}
	return seed, nil
}

// SeedCategories creates every category whose id is not taken yet. Existing
// categories are left untouched.
func (m *Migrator) SeedCategories(ctx context.Context, seed []SeedCategory) (Report, error) {
	return m.inBatches(ctx, "seed categories", len(seed), func(ctx context.Context, i int) (Change, error) {
		s := seed[i]
		change := Change{ID: s.ID, Name: s.Name}

		existing, err := m.categories.FindByID(ctx, s.ID)
		if err != nil {
			return change, err
		}
		if existing != nil {
			return change, errSkip
		}

		now := m.timestamp()
		cat := &model.MainCategory{
			BaseModel:     model.BaseModel{ID: s.ID, CreatedAt: now, UpdatedAt: now},
			Name:          s.Name,
			Description:   s.Description,
			Color:         s.Color,
			Order:         s.Order,
			IsActive:      true,
			Subcategories: make(model.Subcategories, 0, len(s.Subcategories)),
		}
		for _, sub := range s.Subcategories {
			cat.Subcategories = append(cat.Subcategories, model.Subcategory{
				ID:          sub.ID,
				Name:        sub.Name,
				Description: sub.Description,
				Order:       sub.Order,
				IsActive:    true,
			})
		}
		return change, m.categories.Create(ctx, cat)
	})
}
