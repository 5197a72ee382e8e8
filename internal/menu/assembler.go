package menu

import (
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

const (
	PlaceholderImage = "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=400&h=300&fit=crop"
	UnknownItemName  = "Unknown Item"
)

// Build joins categories and items into the public menu tree. Categories
// are sorted by order, subcategories by their order within the parent, and
// items keep the order they were given in.
//
// An item lands under the subcategory its typed pair names. Items without a
// pair are placed by their composite key; when two pairs share a key the
// first category in display order wins. Items matching no subcategory are
// dropped. Build does not filter on isActive.
func Build(categories []model.MainCategory, items []model.MenuItem, restaurant model.Restaurant) model.Menu {
	menu := model.Menu{
		Restaurant:     restaurant,
		MainCategories: []model.MenuCategory{},
	}
	if len(categories) == 0 {
		return menu
	}

	sorted := make([]model.MainCategory, len(categories))
	copy(sorted, categories)
	model.SortCategories(sorted)
	for i := range sorted {
		sorted[i].Subcategories = sorted[i].Subcategories.Sorted()
	}

	byKey := categorykey.Index(categorykey.ToOptions(sorted))
	grouped := map[categorykey.Pair][]model.MenuItemEntry{}
	for _, item := range items {
		pair := categorykey.Pair{MainCategoryID: item.MainCategoryID, SubCategoryID: item.SubCategoryID}
		if pair.MainCategoryID == "" || pair.SubCategoryID == "" {
			resolved, ok := byKey[item.Category]
			if !ok {
				continue
			}
			pair = resolved
		}
		grouped[pair] = append(grouped[pair], Entry(item))
	}

	for _, c := range sorted {
		mc := model.MenuCategory{
			ID:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			Color:         c.Color,
			Order:         c.Order,
			Subcategories: make([]model.MenuSubcategory, 0, len(c.Subcategories)),
		}
		for _, s := range c.Subcategories {
			entries := grouped[categorykey.Pair{MainCategoryID: c.ID, SubCategoryID: s.ID}]
			if entries == nil {
				entries = []model.MenuItemEntry{}
			}
			mc.Subcategories = append(mc.Subcategories, model.MenuSubcategory{
				ID:          s.ID,
				Name:        s.Name,
				Description: subcategoryDescription(s),
				Items:       entries,
			})
		}
		menu.MainCategories = append(menu.MainCategories, mc)
	}
	return menu
}

// Entry renders a stored item for display.
func Entry(item model.MenuItem) model.MenuItemEntry {
	name := item.Name
	if name == "" {
		name = UnknownItemName
	}
	image := item.Image
	if image == "" {
		image = PlaceholderImage
	}
	allergens := []string(item.Allergens)
	if allergens == nil {
		allergens = []string{}
	}

	return model.MenuItemEntry{
		ID:            item.ID,
		Name:          name,
		Description:   item.Description,
		Description2:  item.Description2,
		Price:         fmt.Sprintf("%.2f", item.Price),
		Image:         image,
		Allergens:     allergens,
		Dietary:       []string{},
		IsVegetarian:  item.IsVegetarian,
		PrepTime:      item.PrepTime,
		Popular:       item.Popular,
		AgeRestricted: item.AgeRestricted,
	}
}

func subcategoryDescription(s model.Subcategory) string {
	if s.Description != "" {
		return s.Description
	}
	return fmt.Sprintf("Delicious %s prepared with care", strings.ToLower(s.Name))
}

// ActiveOnly drops inactive categories and inactive subcategories. The input
// is not modified.
func ActiveOnly(categories []model.MainCategory) []model.MainCategory {
	out := make([]model.MainCategory, 0, len(categories))
	for _, c := range categories {
		if !c.IsActive {
			continue
		}
		subs := make(model.Subcategories, 0, len(c.Subcategories))
		for _, s := range c.Subcategories {
			if s.IsActive {
				subs = append(subs, s)
			}
		}
		c.Subcategories = subs
		out = append(out, c)
	}
	return out
}
