package category

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.MainCategory) error
	FindByID(ctx context.Context, id string) (*model.MainCategory, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.MainCategory, error)
	Update(ctx context.Context, category *model.MainCategory) error
	Delete(ctx context.Context, id string) error
}
