package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/database"
)

// SQLRepository stores one row per main category with its subcategories in
// a JSON column. Works on Postgres (pgx) and SQLite.
type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *model.MainCategory) error {
	query := `
        INSERT INTO categories (id, name, description, color, sort_order, is_active, subcategories, created_at, updated_at)
        VALUES (:id, :name, :description, :color, :sort_order, :is_active, :subcategories, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return database.Wrap("insert category", err)
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.MainCategory, error) {
	var category model.MainCategory
	query := r.DB.Rebind(`SELECT * FROM categories WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Wrap("select category", err)
	}
	return &category, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.MainCategory, error) {
	categories := []model.MainCategory{}

	query := `SELECT * FROM categories`
	args := []any{}
	if f != nil && f.IsActive != nil {
		query += ` WHERE is_active = ?`
		args = append(args, *f.IsActive)
	}
	query += ` ORDER BY sort_order ASC, created_at ASC, id ASC`

	if err := r.DB.SelectContext(ctx, &categories, r.DB.Rebind(query), args...); err != nil {
		return nil, database.Wrap("select categories", err)
	}
	return categories, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *model.MainCategory) error {
	query := `
        UPDATE categories
        SET name = :name,
            description = :description,
            color = :color,
            sort_order = :sort_order,
            is_active = :is_active,
            subcategories = :subcategories,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return database.Wrap("update category", err)
}

// Delete removes the row and with it every embedded subcategory. Deleting a
// missing id is a no-op.
func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	return database.Wrap("delete category", err)
}
