package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// GetJWTSecret returns the mock backend's token signing secret, generating
// and storing one on first use.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	return getOrCreateSetting(ctx, db, "jwt_secret")
}

func getOrCreateSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating %s: %w", key, err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		key, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}

	// A concurrent first start may have won the insert.
	var value string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", key, err)
	}

	return value, nil
}
