package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-menu-service/internal/menu"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

type menuUseCase struct {
	categories menu.CategorySource
	items      menu.ItemSource
	restaurant model.Restaurant
	logger     logger.ZapLogger
}

func NewMenuUseCase(categories menu.CategorySource, items menu.ItemSource, restaurant model.Restaurant, log logger.ZapLogger) menu.UseCase {
	return &menuUseCase{
		categories: categories,
		items:      items,
		restaurant: restaurant,
		logger:     log,
	}
}

func (uc *menuUseCase) GetMenu(ctx context.Context, includeInactive bool) (out model.Menu) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("menu assembly panicked, serving empty menu", zap.String("panic", fmt.Sprint(r)))
			out = uc.empty()
		}
	}()

	categories := uc.categories.ListCategories(ctx, nil)
	if len(categories) == 0 {
		return uc.empty()
	}

	items, err := uc.items.ListItems(ctx, nil)
	if err != nil {
		uc.logger.Error("failed to list menu items, serving empty menu", zap.Error(err))
		return uc.empty()
	}

	if !includeInactive {
		categories = menu.ActiveOnly(categories)
	}
	return menu.Build(categories, items, uc.restaurant)
}

func (uc *menuUseCase) empty() model.Menu {
	return model.Menu{Restaurant: uc.restaurant, MainCategories: []model.MenuCategory{}}
}
