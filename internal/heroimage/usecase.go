package heroimage

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/heroimage/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type UseCase interface {
	GetHeroImage(ctx context.Context) (*model.HeroImage, error)
	SetHeroImage(ctx context.Context, input *dto.SetHeroImageInput) (*model.HeroImage, error)
	ClearHeroImage(ctx context.Context) (*model.HeroImage, error)
}
