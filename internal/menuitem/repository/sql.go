package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-menu-service/internal/menuitem/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/database"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

const insertItem = `
    INSERT INTO menu_items (
        id, name, description, description2, price, original_price, category,
        main_category_id, sub_category_id, image, allergens, is_vegetarian,
        popular, age_restricted, prep_time, source, created_at, updated_at
    )
    VALUES (
        :id, :name, :description, :description2, :price, :original_price, :category,
        :main_category_id, :sub_category_id, :image, :allergens, :is_vegetarian,
        :popular, :age_restricted, :prep_time, :source, :created_at, :updated_at
    )
`

func (r *SQLRepository) Create(ctx context.Context, item *model.MenuItem) error {
	_, err := r.DB.NamedExecContext(ctx, insertItem, item)
	return database.Wrap("insert menu item", err)
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	query := r.DB.Rebind(`SELECT * FROM menu_items WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Wrap("select menu item", err)
	}
	return &item, nil
}

// FindAll returns items newest first.
func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.MenuItem, error) {
	items := []model.MenuItem{}

	query := `SELECT * FROM menu_items`
	args := []any{}
	if f != nil && f.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY created_at DESC, id ASC`

	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return nil, database.Wrap("select menu items", err)
	}
	return items, nil
}

func (r *SQLRepository) Update(ctx context.Context, item *model.MenuItem) error {
	query := `
        UPDATE menu_items
        SET name = :name,
            description = :description,
            description2 = :description2,
            price = :price,
            original_price = :original_price,
            category = :category,
            main_category_id = :main_category_id,
            sub_category_id = :sub_category_id,
            image = :image,
            allergens = :allergens,
            is_vegetarian = :is_vegetarian,
            popular = :popular,
            age_restricted = :age_restricted,
            prep_time = :prep_time,
            source = :source,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return database.Wrap("update menu item", err)
}

// Delete is a no-op for a missing id.
func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM menu_items WHERE id = ?`), id)
	return database.Wrap("delete menu item", err)
}

func (r *SQLRepository) Rename(ctx context.Context, oldID string, item *model.MenuItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return database.Wrap("begin rename", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertItem, item); err != nil {
		return database.Wrap("insert renamed menu item", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM menu_items WHERE id = ?`), oldID); err != nil {
		return database.Wrap("delete old menu item", err)
	}
	return database.Wrap("commit rename", tx.Commit())
}

// Search is the SQL fallback for full text search: a case-insensitive
// substring match.
func (r *SQLRepository) Search(ctx context.Context, q string, limit int) ([]model.MenuItem, error) {
	items := []model.MenuItem{}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

	query := `
        SELECT * FROM menu_items
        WHERE LOWER(name) LIKE ? ESCAPE '\'
           OR LOWER(description) LIKE ? ESCAPE '\'
           OR LOWER(description2) LIKE ? ESCAPE '\'
           OR LOWER(category) LIKE ? ESCAPE '\'
        ORDER BY name ASC
    `
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, database.Wrap("search menu items", err)
	}
	return items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
