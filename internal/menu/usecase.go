package menu

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	itemdto "github.com/fekuna/omnipos-menu-service/internal/menuitem/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type UseCase interface {
	// GetMenu never fails. Store errors yield a tree with no categories.
	GetMenu(ctx context.Context, includeInactive bool) model.Menu
}

// CategorySource is satisfied by category.UseCase.
type CategorySource interface {
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) []model.MainCategory
}

// ItemSource is satisfied by menuitem.UseCase.
type ItemSource interface {
	ListItems(ctx context.Context, filters *itemdto.ItemFilters) ([]model.MenuItem, error)
}
