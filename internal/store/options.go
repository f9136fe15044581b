package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/payload"
)

const optionColumns = `id, attribute_id, label, value, display_order, created_at, updated_at`

func scanOption(row interface{ Scan(...any) error }) (*model.Option, error) {
	o := &model.Option{}
	err := row.Scan(&o.ID, &o.CategoryAttributeID, &o.Label, &o.Value, &o.DisplayOrder, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// listCategoryOptions returns the options of all attributes of a category,
// grouped by attribute ID.
func listCategoryOptions(ctx context.Context, db *sql.DB, categoryID int64) (map[int64][]model.Option, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+optionColumns+` FROM attribute_options
		 WHERE attribute_id IN (SELECT id FROM attributes WHERE category_id = ?)
		 ORDER BY display_order, id`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing options: %w", err)
	}
	defer rows.Close()

	byAttr := make(map[int64][]model.Option)
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning option: %w", err)
		}
		byAttr[o.CategoryAttributeID] = append(byAttr[o.CategoryAttributeID], *o)
	}
	return byAttr, rows.Err()
}

// GetOption returns an option of an attribute.
func GetOption(ctx context.Context, db *sql.DB, attributeID, optionID int64) (*model.Option, error) {
	o, err := scanOption(db.QueryRowContext(ctx,
		`SELECT `+optionColumns+` FROM attribute_options WHERE id = ? AND attribute_id = ?`,
		optionID, attributeID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting option: %w", err)
	}
	return o, nil
}

// CreateOption adds an option to an attribute.
func CreateOption(ctx context.Context, db *sql.DB, attributeID int64, in payload.OptionCreate) (*model.Option, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO attribute_options (attribute_id, label, value, display_order) VALUES (?, ?, ?, ?)`,
		attributeID, in.Label, in.Value, intOrZero(in.DisplayOrder),
	)
	if err != nil {
		return nil, fmt.Errorf("creating option: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting option id: %w", err)
	}

	return GetOption(ctx, db, attributeID, id)
}

// UpdateOption applies the non-nil fields of a patch to an option.
func UpdateOption(ctx context.Context, db *sql.DB, attributeID, optionID int64, patch payload.OptionUpdate) error {
	o, err := GetOption(ctx, db, attributeID, optionID)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("updating option: option %d not found on attribute %d", optionID, attributeID)
	}

	if patch.Label != nil {
		o.Label = *patch.Label
	}
	if patch.Value != nil {
		o.Value = *patch.Value
	}
	if patch.DisplayOrder != nil {
		o.DisplayOrder = float64(intOrZero(patch.DisplayOrder))
	}

	_, err = db.ExecContext(ctx,
		`UPDATE attribute_options SET label = ?, value = ?, display_order = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND attribute_id = ?`,
		o.Label, o.Value, o.DisplayOrder, optionID, attributeID,
	)
	if err != nil {
		return fmt.Errorf("updating option: %w", err)
	}
	return nil
}

// DeleteOption deletes an option of an attribute. It returns false if the
// option did not exist there.
func DeleteOption(ctx context.Context, db *sql.DB, attributeID, optionID int64) (bool, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM attribute_options WHERE id = ? AND attribute_id = ?`, optionID, attributeID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting option: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting option: %w", err)
	}
	return n > 0, nil
}
