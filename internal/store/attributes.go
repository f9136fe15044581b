package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
)

const attributeColumns = `id, category_id, name, type, is_required, display_order, description,
	is_filterable, is_searchable, unit, grp, min_value, max_value, created_at, updated_at`

func scanAttribute(row interface{ Scan(...any) error }) (*model.Attribute, error) {
	a := &model.Attribute{}
	err := row.Scan(&a.ID, &a.CategoryID, &a.Name, &a.Type, &a.IsRequired, &a.DisplayOrder, &a.Description,
		&a.IsFilterable, &a.IsSearchable, &a.Unit, &a.Group, &a.MinValue, &a.MaxValue, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttributes returns a category's attributes ordered by display order,
// each with its options.
func ListAttributes(ctx context.Context, db *sql.DB, categoryID int64) ([]model.Attribute, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+attributeColumns+` FROM attributes WHERE category_id = ? ORDER BY display_order, id`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing attributes: %w", err)
	}
	defer rows.Close()

	var attrs []model.Attribute
	for rows.Next() {
		a, err := scanAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attribute: %w", err)
		}
		attrs = append(attrs, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	options, err := listCategoryOptions(ctx, db, categoryID)
	if err != nil {
		return nil, err
	}
	for i := range attrs {
		if opts, ok := options[attrs[i].ID]; ok {
			attrs[i].Options = opts
		} else if attrs[i].HasOptions() {
			attrs[i].Options = []model.Option{}
		}
	}
	return attrs, nil
}

// GetAttribute returns an attribute by ID, without its options.
func GetAttribute(ctx context.Context, db *sql.DB, id int64) (*model.Attribute, error) {
	a, err := scanAttribute(db.QueryRowContext(ctx,
		`SELECT `+attributeColumns+` FROM attributes WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting attribute: %w", err)
	}
	return a, nil
}

// CreateAttribute creates an attribute under a category.
func CreateAttribute(ctx context.Context, db *sql.DB, categoryID int64, in payload.AttributeCreate) (*model.Attribute, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO attributes (category_id, name, type, is_required, display_order, description,
		     is_filterable, is_searchable, unit, grp, min_value, max_value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		categoryID, in.Name, in.Type, deref(in.IsRequired), intOrZero(in.DisplayOrder), in.Description,
		deref(in.IsFilterable), deref(in.IsSearchable), in.Unit, in.Group, in.MinValue, in.MaxValue,
	)
	if err != nil {
		return nil, fmt.Errorf("creating attribute: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting attribute id: %w", err)
	}

	return GetAttribute(ctx, db, id)
}

// UpdateAttribute applies the non-nil fields of a patch. Changing the type
// away from NUMBER clears the bounds.
func UpdateAttribute(ctx context.Context, db *sql.DB, id int64, patch payload.AttributeUpdate) error {
	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Type != nil {
		set("type", *patch.Type)
		if *patch.Type != model.TypeNumber {
			set("min_value", nil)
			set("max_value", nil)
		}
	}
	if patch.IsRequired != nil {
		set("is_required", *patch.IsRequired)
	}
	if patch.DisplayOrder != nil {
		set("display_order", intOrZero(patch.DisplayOrder))
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.IsFilterable != nil {
		set("is_filterable", *patch.IsFilterable)
	}
	if patch.IsSearchable != nil {
		set("is_searchable", *patch.IsSearchable)
	}
	if patch.Unit != nil {
		set("unit", *patch.Unit)
	}
	if patch.Group != nil {
		set("grp", *patch.Group)
	}
	if patch.MinValue != nil {
		set("min_value", *patch.MinValue)
	}
	if patch.MaxValue != nil {
		set("max_value", *patch.MaxValue)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	_, err := db.ExecContext(ctx,
		`UPDATE attributes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating attribute: %w", err)
	}
	return nil
}

// DeleteAttribute deletes an attribute and its options. It returns false if
// the attribute did not exist.
func DeleteAttribute(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM attributes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting attribute: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting attribute: %w", err)
	}
	return n > 0, nil
}

func deref(b *bool) bool {
	return b != nil && *b
}

func intOrZero(f *float64) int {
	if f == nil {
		return 0
	}
	return int(*f)
}
