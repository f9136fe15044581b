package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugify lowercases s, strips diacritics and joins the remaining
// alphanumeric runs with dashes.
func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "category"
	}
	return slug
}

// uniqueSlug derives a slug from name that no other category uses, appending
// -2, -3, ... as needed. selfID is excluded from the check on rename.
func uniqueSlug(ctx context.Context, db *sql.DB, name string, selfID int64) (string, error) {
	base := slugify(name)
	slug := base
	for n := 2; ; n++ {
		var count int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categories WHERE slug = ? AND id != ?`, slug, selfID,
		).Scan(&count)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
