package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
	"github.com/fekuna/omnipos-menu-service/internal/heroimage"
	"github.com/fekuna/omnipos-menu-service/internal/heroimage/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/validation"
)

type heroImageUseCase struct {
	repo     heroimage.Repository
	validate *validator.Validate
	now      func() time.Time
	logger   logger.ZapLogger
}

func NewHeroImageUseCase(repo heroimage.Repository, log logger.ZapLogger, now func() time.Time) heroimage.UseCase {
	if now == nil {
		now = time.Now
	}
	return &heroImageUseCase{
		repo:     repo,
		validate: validation.New(),
		now:      now,
		logger:   log,
	}
}

// GetHeroImage returns nil, nil when no image was ever set.
func (uc *heroImageUseCase) GetHeroImage(ctx context.Context) (*model.HeroImage, error) {
	return uc.repo.Get(ctx)
}

func (uc *heroImageUseCase) SetHeroImage(ctx context.Context, input *dto.SetHeroImageInput) (*model.HeroImage, error) {
	input.Image = strings.TrimSpace(input.Image)
	if input.Image == "" {
		return nil, apperr.Validation("no image data provided")
	}
	if err := uc.validate.Struct(input); err != nil {
		return nil, apperr.Validation("invalid image format, must be a base64 %s... data URL", dto.DataURLPrefix)
	}

	now := uc.now().UTC().Truncate(time.Microsecond)
	image := input.Image
	hero := &model.HeroImage{
		Image:      &image,
		UploadedAt: &now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Upsert(ctx, hero); err != nil {
		return nil, err
	}
	return hero, nil
}

// ClearHeroImage nulls the image but keeps the record. Clearing twice is
// fine.
func (uc *heroImageUseCase) ClearHeroImage(ctx context.Context) (*model.HeroImage, error) {
	hero := &model.HeroImage{
		UpdatedAt: uc.now().UTC().Truncate(time.Microsecond),
	}
	if err := uc.repo.Upsert(ctx, hero); err != nil {
		return nil, err
	}
	return hero, nil
}
