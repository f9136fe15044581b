package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/katalog/internal/model"
)

const categoryColumns = `id, name, description, slug, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*model.Category, error) {
	c := &model.Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns a page of categories ordered by name. A limit of 0
// returns all categories.
func ListCategories(ctx context.Context, db *sql.DB, limit, offset int) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name COLLATE NOCASE, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// CountCategories returns the number of categories.
func CountCategories(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting categories: %w", err)
	}
	return n, nil
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c, err := scanCategory(db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// CreateCategory creates a category with a slug derived from its name.
func CreateCategory(ctx context.Context, db *sql.DB, name string, description *string) (*model.Category, error) {
	slug, err := uniqueSlug(ctx, db, name, 0)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, description, slug) VALUES (?, ?, ?)`,
		name, description, slug,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// UpdateCategory applies the non-nil fields to a category. Renaming
// regenerates the slug.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, name, description *string) error {
	if name != nil {
		slug, err := uniqueSlug(ctx, db, *name, id)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`UPDATE categories SET name = ?, slug = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			*name, slug, id,
		); err != nil {
			return fmt.Errorf("updating category name: %w", err)
		}
	}
	if description != nil {
		if _, err := db.ExecContext(ctx,
			`UPDATE categories SET description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			*description, id,
		); err != nil {
			return fmt.Errorf("updating category description: %w", err)
		}
	}
	return nil
}

// DeleteCategory deletes a category together with its attributes and
// options. It returns false if the category did not exist.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting category: %w", err)
	}
	return n > 0, nil
}
