package menuitem

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, input *dto.ItemInput) (*model.MenuItem, error)
	GetItem(ctx context.Context, id string) (*model.MenuItem, error)
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.MenuItem, error)
	UpdateItem(ctx context.Context, id string, input *dto.ItemInput) (*model.MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
	SearchItems(ctx context.Context, q string) ([]model.MenuItem, error)

	// InvalidateCache drops the cached item list. Called by the event
	// listener when another instance wrote.
	InvalidateCache(ctx context.Context)
}

// CategoryOptions supplies the (main, sub) pairs items can reference.
// category.UseCase satisfies it.
type CategoryOptions interface {
	Options(ctx context.Context) []categorykey.Option
}
