package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/database"
)

// SQLRepository keeps the hero image in a single row keyed by
// model.HeroImageID.
type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Get(ctx context.Context) (*model.HeroImage, error) {
	var hero model.HeroImage
	query := r.DB.Rebind(`SELECT id, image, uploaded_at, updated_at FROM hero_images WHERE id = ?`)
	err := r.DB.GetContext(ctx, &hero, query, model.HeroImageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Wrap("select hero image", err)
	}
	return &hero, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, hero *model.HeroImage) error {
	hero.ID = model.HeroImageID
	query := `
        INSERT INTO hero_images (id, image, uploaded_at, updated_at)
        VALUES (:id, :image, :uploaded_at, :updated_at)
        ON CONFLICT (id) DO UPDATE
        SET image = excluded.image,
            uploaded_at = excluded.uploaded_at,
            updated_at = excluded.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, hero)
	return database.Wrap("upsert hero image", err)
}
