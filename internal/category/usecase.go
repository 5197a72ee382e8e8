package category

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.MainCategory, error)
	GetCategory(ctx context.Context, id string) (*model.MainCategory, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) []model.MainCategory
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.MainCategory, error)
	DeleteCategory(ctx context.Context, id string) error

	// Subcategory ops rewrite the parent's whole subcategory list.
	AddSubcategory(ctx context.Context, categoryID string, input *dto.SubcategoryInput) (*model.MainCategory, error)
	UpdateSubcategory(ctx context.Context, input *dto.UpdateSubcategoryInput) (*model.MainCategory, error)
	RemoveSubcategory(ctx context.Context, categoryID, subcategoryID string) (*model.MainCategory, error)

	Options(ctx context.Context) []categorykey.Option
}
