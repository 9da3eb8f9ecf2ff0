package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

// UpsertItem inserts an item keyed by (source_type, external_id, cohort_key),
// updating the mutable fields when the key already exists. Re-running a
// pipeline over the same cohort refreshes rows instead of duplicating them.
func (db *DB) UpsertItem(it model.Item, cohortKey string) error {
	authors, err := json.Marshal(it.Authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}
	keyPoints, err := json.Marshal(it.KeyPoints)
	if err != nil {
		return fmt.Errorf("encoding key points: %w", err)
	}

	_, err = db.conn.Exec(`
INSERT INTO items (
    source_type, external_id, cohort_key, source_name, title, summary,
    authors, category, published_at, url, media_url, importance, key_points, score, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
ON CONFLICT (source_type, external_id, cohort_key) DO UPDATE SET
    source_name = excluded.source_name,
    title = excluded.title,
    summary = excluded.summary,
    authors = excluded.authors,
    category = excluded.category,
    published_at = excluded.published_at,
    url = excluded.url,
    media_url = excluded.media_url,
    importance = excluded.importance,
    key_points = excluded.key_points,
    score = excluded.score,
    updated_at = datetime('now')`,
		string(it.SourceType), it.ExternalID, cohortKey, it.SourceName, it.Title, it.SummaryText,
		string(authors), string(it.Category), it.PublishedAt.UTC().Format(time.RFC3339), it.URL,
		it.MediaURL, it.Importance, string(keyPoints), it.Score,
	)
	if err != nil {
		return fmt.Errorf("upserting item %s: %w", it.Key(), err)
	}
	return nil
}

// GetItemsByCohort returns a cohort's items ordered by score descending.
func (db *DB) GetItemsByCohort(cohortKey string) ([]model.Item, error) {
	query, args, err := sq.Select(
		"source_type", "external_id", "source_name", "title", "summary",
		"authors", "category", "published_at", "url", "media_url",
		"importance", "key_points", "score",
	).
		From("items").
		Where(sq.Eq{"cohort_key": cohortKey}).
		OrderBy("score DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CountByCohort returns the number of stored items per cohort key.
func (db *DB) CountByCohort() (map[string]int, error) {
	rows, err := db.conn.Query("SELECT cohort_key, COUNT(*) FROM items GROUP BY cohort_key ORDER BY cohort_key DESC")
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func scanItem(rows *sql.Rows) (model.Item, error) {
	var it model.Item
	var sourceType, publishedAt string
	var authors, keyPoints, mediaURL sql.NullString
	var importance sql.NullFloat64

	err := rows.Scan(
		&sourceType, &it.ExternalID, &it.SourceName, &it.Title, &it.SummaryText,
		&authors, &it.Category, &publishedAt, &it.URL, &mediaURL,
		&importance, &keyPoints, &it.Score,
	)
	if err != nil {
		return model.Item{}, fmt.Errorf("scanning item: %w", err)
	}

	it.SourceType = model.SourceType(sourceType)
	it.MediaURL = mediaURL.String
	if importance.Valid {
		v := importance.Float64
		it.Importance = &v
	}
	if t, perr := time.Parse(time.RFC3339, publishedAt); perr == nil {
		it.PublishedAt = t
	}
	if authors.Valid && authors.String != "" {
		json.Unmarshal([]byte(authors.String), &it.Authors)
	}
	if keyPoints.Valid && keyPoints.String != "" {
		json.Unmarshal([]byte(keyPoints.String), &it.KeyPoints)
	}
	return it, nil
}
