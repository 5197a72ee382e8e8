package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
	"github.com/fekuna/omnipos-menu-service/internal/category"
	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/slug"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/validation"
)

type categoryUseCase struct {
	repo     category.Repository
	validate *validator.Validate
	now      func() time.Time
	logger   logger.ZapLogger
}

type Option func(*categoryUseCase)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *categoryUseCase) { uc.now = now }
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger, opts ...Option) category.UseCase {
	uc := &categoryUseCase{
		repo:     repo,
		validate: validation.New(),
		now:      time.Now,
		logger:   log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *categoryUseCase) timestamp() time.Time {
	return uc.now().UTC().Truncate(time.Microsecond)
}

// touch returns a timestamp strictly after prev so every write is visible as
// a newer updatedAt, even with a coarse clock.
func (uc *categoryUseCase) touch(prev time.Time) time.Time {
	now := uc.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.MainCategory, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperr.Validation("%s", validation.Message(err))
	}

	id, err := uc.categoryID(ctx, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	subs, err := buildSubcategories(input.Subcategories)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	order := 0
	if input.Order != nil {
		order = *input.Order
	}

	now := uc.timestamp()
	cat := &model.MainCategory{
		BaseModel: model.BaseModel{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Color:         input.Color,
		Order:         order,
		IsActive:      isActive,
		Subcategories: subs,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// categoryID uses the requested id when given; otherwise it derives one from
// the name and suffixes it until free.
func (uc *categoryUseCase) categoryID(ctx context.Context, requested, name string) (string, error) {
	if requested = strings.TrimSpace(requested); requested != "" {
		existing, err := uc.repo.FindByID(ctx, requested)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return "", apperr.Validation("category %q already exists", requested)
		}
		return requested, nil
	}

	base := slug.Make(name)
	if base == "" {
		return strings.ReplaceAll(uuid.New().String(), "-", ""), nil
	}
	candidate := base
	for n := 2; ; n++ {
		existing, err := uc.repo.FindByID(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.MainCategory, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.NotFound("category %q not found", id)
	}
	return cat, nil
}

// ListCategories never fails: a store error is logged and reported as an
// empty list, which callers treat as "no categories yet".
func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) []model.MainCategory {
	cats, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list categories, serving empty list", zap.Error(err))
		return []model.MainCategory{}
	}
	model.SortCategories(cats)
	return cats
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.MainCategory, error) {
	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		cat.Name = name
	}
	if input.Description != nil {
		cat.Description = *input.Description
	}
	if input.Color != nil {
		cat.Color = *input.Color
	}
	if input.Order != nil {
		cat.Order = *input.Order
	}
	if input.IsActive != nil {
		cat.IsActive = *input.IsActive
	}
	if input.Subcategories != nil {
		for i := range *input.Subcategories {
			if err := uc.validate.Struct(&(*input.Subcategories)[i]); err != nil {
				return nil, apperr.Validation("subcategories[%d]: %s", i, validation.Message(err))
			}
		}
		subs, err := buildSubcategories(*input.Subcategories)
		if err != nil {
			return nil, err
		}
		cat.Subcategories = subs
	}

	return uc.save(ctx, cat)
}

func (uc *categoryUseCase) save(ctx context.Context, cat *model.MainCategory) (*model.MainCategory, error) {
	cat.UpdatedAt = uc.touch(cat.UpdatedAt)
	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory hard deletes the category; its subcategories go with it.
// Hiding a category without deleting it is an update of isActive.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *categoryUseCase) AddSubcategory(ctx context.Context, categoryID string, input *dto.SubcategoryInput) (*model.MainCategory, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperr.Validation("%s", validation.Message(err))
	}

	cat, err := uc.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id != "" && cat.Subcategories.Find(id) >= 0 {
		return nil, apperr.Validation("subcategory %q already exists in %q", id, categoryID)
	}
	if id == "" {
		id = subcategoryID(cat.Subcategories, input.Name)
	}

	sub := model.Subcategory{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Order:       len(cat.Subcategories) + 1,
		IsActive:    true,
	}
	if input.Order != nil {
		sub.Order = *input.Order
	}
	if input.IsActive != nil {
		sub.IsActive = *input.IsActive
	}

	subs := make(model.Subcategories, 0, len(cat.Subcategories)+1)
	subs = append(subs, cat.Subcategories...)
	cat.Subcategories = append(subs, sub)

	return uc.save(ctx, cat)
}

func (uc *categoryUseCase) UpdateSubcategory(ctx context.Context, input *dto.UpdateSubcategoryInput) (*model.MainCategory, error) {
	cat, err := uc.GetCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	idx := cat.Subcategories.Find(input.SubcategoryID)
	if idx < 0 {
		return nil, apperr.NotFound("subcategory %q not found in %q", input.SubcategoryID, input.CategoryID)
	}

	sub := cat.Subcategories[idx]
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		sub.Name = name
	}
	if input.Description != nil {
		sub.Description = *input.Description
	}
	if input.Order != nil {
		sub.Order = *input.Order
	}
	if input.IsActive != nil {
		sub.IsActive = *input.IsActive
	}

	subs := make(model.Subcategories, len(cat.Subcategories))
	copy(subs, cat.Subcategories)
	subs[idx] = sub
	cat.Subcategories = subs

	return uc.save(ctx, cat)
}

func (uc *categoryUseCase) RemoveSubcategory(ctx context.Context, categoryID, subcategoryID string) (*model.MainCategory, error) {
	cat, err := uc.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	idx := cat.Subcategories.Find(subcategoryID)
	if idx < 0 {
		return nil, apperr.NotFound("subcategory %q not found in %q", subcategoryID, categoryID)
	}

	subs := make(model.Subcategories, 0, len(cat.Subcategories)-1)
	subs = append(subs, cat.Subcategories[:idx]...)
	subs = append(subs, cat.Subcategories[idx+1:]...)
	cat.Subcategories = subs

	return uc.save(ctx, cat)
}

func (uc *categoryUseCase) Options(ctx context.Context) []categorykey.Option {
	return categorykey.ToOptions(uc.ListCategories(ctx, nil))
}

// buildSubcategories turns inputs into a stored list, filling ids and
// defaults. Ids must be unique within the list.
func buildSubcategories(inputs []dto.SubcategoryInput) (model.Subcategories, error) {
	subs := make(model.Subcategories, 0, len(inputs))
	for i, in := range inputs {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = subcategoryID(subs, in.Name)
		} else if subs.Find(id) >= 0 {
			return nil, apperr.Validation("duplicate subcategory id %q", id)
		}

		sub := model.Subcategory{
			ID:          id,
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Order:       i + 1,
			IsActive:    true,
		}
		if in.Order != nil {
			sub.Order = *in.Order
		}
		if in.IsActive != nil {
			sub.IsActive = *in.IsActive
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// subcategoryID derives an id from name that is free within existing.
func subcategoryID(existing model.Subcategories, name string) string {
	base := slug.Make(name)
	if base == "" {
		base = strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	}
	candidate := base
	for n := 2; existing.Find(candidate) >= 0; n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return candidate
}
