package heroimage

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type Repository interface {
	// Get returns nil, nil when the record has never been written.
	Get(ctx context.Context) (*model.HeroImage, error)
	Upsert(ctx context.Context, hero *model.HeroImage) error
}
