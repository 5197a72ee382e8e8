package menuitem

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/menuitem/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.MenuItem, error)
	Update(ctx context.Context, item *model.MenuItem) error
	Delete(ctx context.Context, id string) error

	// Rename moves item from oldID to item.ID in one transaction.
	Rename(ctx context.Context, oldID string, item *model.MenuItem) error
	// Search matches q against name, descriptions and category.
	Search(ctx context.Context, q string, limit int) ([]model.MenuItem, error)
}
