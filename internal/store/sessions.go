package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GetSessionToken returns the access token stored for a session. It returns
// an empty string when the session does not exist or has expired.
func GetSessionToken(ctx context.Context, db *sql.DB, id string, now time.Time) (string, error) {
	var token string
	err := db.QueryRowContext(ctx,
		`SELECT token FROM sessions WHERE id = ? AND expires_at > ?`,
		id, now.Unix(),
	).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting session token: %w", err)
	}
	return token, nil
}

// SetSessionToken stores the access token of a session, creating the session
// if needed.
func SetSessionToken(ctx context.Context, db *sql.DB, id, token string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     token = excluded.token,
		     expires_at = excluded.expires_at,
		     updated_at = CURRENT_TIMESTAMP`,
		id, token, expiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing session token: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its token.
func DeleteSession(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes sessions that expired before now and returns
// how many were removed.
func PurgeExpiredSessions(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged sessions: %w", err)
	}
	return n, nil
}
