package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Digest is a rendered weekly digest.
type Digest struct {
	CohortKey   string
	Markdown    string
	ItemCount   int
	GeneratedAt time.Time
}

// ErrNoDigest is returned when no digest exists for the requested cohort.
var ErrNoDigest = errors.New("no digest for cohort")

// SaveDigest stores or replaces the digest for a cohort.
func (db *DB) SaveDigest(cohortKey, markdown string, itemCount int) error {
	_, err := db.conn.Exec(`
INSERT INTO digests (cohort_key, markdown, item_count, generated_at)
VALUES (?, ?, ?, datetime('now'))
ON CONFLICT (cohort_key) DO UPDATE SET
    markdown = excluded.markdown,
    item_count = excluded.item_count,
    generated_at = datetime('now')`,
		cohortKey, markdown, itemCount,
	)
	if err != nil {
		return fmt.Errorf("saving digest %s: %w", cohortKey, err)
	}
	return nil
}

// GetDigest returns the digest for a cohort, or ErrNoDigest.
func (db *DB) GetDigest(cohortKey string) (*Digest, error) {
	query, args, err := sq.Select("cohort_key", "markdown", "item_count", "generated_at").
		From("digests").
		Where(sq.Eq{"cohort_key": cohortKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return db.queryDigest(query, args...)
}

// GetLatestDigest returns the most recently generated digest, or ErrNoDigest.
func (db *DB) GetLatestDigest() (*Digest, error) {
	query, args, err := sq.Select("cohort_key", "markdown", "item_count", "generated_at").
		From("digests").
		OrderBy("cohort_key DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return db.queryDigest(query, args...)
}

func (db *DB) queryDigest(query string, args ...interface{}) (*Digest, error) {
	var d Digest
	var generatedAt string
	err := db.conn.QueryRow(query, args...).Scan(&d.CohortKey, &d.Markdown, &d.ItemCount, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDigest
	}
	if err != nil {
		return nil, fmt.Errorf("querying digest: %w", err)
	}
	if t, perr := time.Parse("2006-01-02 15:04:05", generatedAt); perr == nil {
		d.GeneratedAt = t
	}
	return &d, nil
}
