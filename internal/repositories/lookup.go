package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songmatch/internal/shared"
)

// Lookup kinds.
const (
	KindAlbum  = "album"
	KindArtist = "artist"
)

// Lookup is one cached catalog record.
type Lookup struct {
	ID        string
	Catalog   string
	Kind      string
	LookupID  string
	Payload   []byte
	CreatedAt time.Time
}

// LookupCount is the number of cached records for one catalog and kind.
type LookupCount struct {
	Catalog string `json:"catalog"`
	Kind    string `json:"kind"`
	Count   int    `json:"count"`
}

// LookupRepository stores raw catalog records in the lookups table.
type LookupRepository struct {
	db *sql.DB
}

// NewLookupRepository creates a new LookupRepository with the given database connection
func NewLookupRepository(db *sql.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// Get retrieves a cached record. A missing record is [shared.ErrResourceNotFound].
func (r *LookupRepository) Get(ctx context.Context, catalog, kind, lookupID string) (*Lookup, error) {
	query := `
		SELECT id, catalog, kind, lookup_id, payload, created_at
		FROM lookups
		WHERE catalog = ? AND kind = ? AND lookup_id = ?
	`

	var (
		l       Lookup
		payload string
	)
	err := r.db.QueryRowContext(ctx, query, catalog, kind, lookupID).
		Scan(&l.ID, &l.Catalog, &l.Kind, &l.LookupID, &payload, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s %s", shared.ErrResourceNotFound, catalog, kind, lookupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lookup: %w", err)
	}

	l.Payload = []byte(payload)
	return &l, nil
}

// Put inserts a record, replacing the payload of an existing one with the same key.
func (r *LookupRepository) Put(ctx context.Context, catalog, kind, lookupID string, payload []byte) error {
	if catalog == "" || kind == "" || lookupID == "" {
		return fmt.Errorf("%w: catalog, kind and lookup id are required", shared.ErrInvalidArgument)
	}

	query := `
		INSERT INTO lookups (id, catalog, kind, lookup_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (catalog, kind, lookup_id)
		DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
	`

	_, err := r.db.ExecContext(ctx, query, shared.GenerateID(), catalog, kind, lookupID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}
	return nil
}

// Count returns the number of cached records per catalog and kind, ordered by catalog then kind.
func (r *LookupRepository) Count(ctx context.Context) ([]LookupCount, error) {
	query := `
		SELECT catalog, kind, COUNT(*)
		FROM lookups
		GROUP BY catalog, kind
		ORDER BY catalog ASC, kind ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	var counts []LookupCount
	for rows.Next() {
		var c LookupCount
		if err := rows.Scan(&c.Catalog, &c.Kind, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan lookup count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return counts, nil
}

// Clear deletes cached records for catalog, or every record when catalog is empty, and returns how many
// were removed.
func (r *LookupRepository) Clear(ctx context.Context, catalog string) (int64, error) {
	query := "DELETE FROM lookups"
	args := []any{}
	if catalog != "" {
		query += " WHERE catalog = ?"
		args = append(args, catalog)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete lookups: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}
