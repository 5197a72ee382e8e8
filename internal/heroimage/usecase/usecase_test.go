package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
	"github.com/fekuna/omnipos-menu-service/internal/heroimage/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

type memRepo struct {
	hero *model.HeroImage
}

func (m *memRepo) Get(context.Context) (*model.HeroImage, error) {
	if m.hero == nil {
		return nil, nil
	}
	h := *m.hero
	return &h, nil
}

func (m *memRepo) Upsert(_ context.Context, hero *model.HeroImage) error {
	h := *hero
	h.ID = model.HeroImageID
	m.hero = &h
	return nil
}

const png = "data:image/png;base64,iVBORw0KGgo="

func TestSetHeroImage(t *testing.T) {
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	repo := &memRepo{}
	uc := NewHeroImageUseCase(repo, logger.NewNop(), func() time.Time { return now })
	ctx := context.Background()

	got, err := uc.GetHeroImage(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	hero, err := uc.SetHeroImage(ctx, &dto.SetHeroImageInput{Image: png})
	require.NoError(t, err)
	require.NotNil(t, hero.Image)
	assert.Equal(t, png, *hero.Image)
	require.NotNil(t, hero.UploadedAt)
	assert.Equal(t, now, *hero.UploadedAt)

	stored, err := uc.GetHeroImage(ctx)
	require.NoError(t, err)
	assert.Equal(t, png, *stored.Image)
}

func TestSetHeroImageRejectsBadPayload(t *testing.T) {
	uc := NewHeroImageUseCase(&memRepo{}, logger.NewNop(), nil)

	for _, image := range []string{"", "   ", "https://example.com/a.png", "iVBORw0KGgo="} {
		_, err := uc.SetHeroImage(context.Background(), &dto.SetHeroImageInput{Image: image})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), image)
	}
}

func TestClearHeroImageTwice(t *testing.T) {
	repo := &memRepo{}
	uc := NewHeroImageUseCase(repo, logger.NewNop(), nil)
	ctx := context.Background()

	_, err := uc.SetHeroImage(ctx, &dto.SetHeroImageInput{Image: png})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := uc.ClearHeroImage(ctx)
		require.NoError(t, err)

		hero, err := uc.GetHeroImage(ctx)
		require.NoError(t, err)
		require.NotNil(t, hero, "record stays present")
		assert.Nil(t, hero.Image)
		assert.Nil(t, hero.UploadedAt)
		assert.False(t, hero.UpdatedAt.IsZero())
	}
}
