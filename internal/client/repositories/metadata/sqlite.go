package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/staffdesk/internal/dbx"
)

const upsertQuery = `
	INSERT INTO metadata (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

type SQLiteStore struct {
	q dbx.DBTX
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore runs against a *sql.DB or, to group writes, a *sql.Tx.
func NewSQLiteStore(q dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{q: q}
}

func (s *SQLiteStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	var raw []byte
	err := s.q.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("lookup %q: %w", key, err)
	}
	return string(raw), true, nil
}

// Put upserts every pair, in key order. Use a transaction for all or
// nothing.
func (s *SQLiteStore) Put(ctx context.Context, pairs map[string]string) error {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if _, err := s.q.ExecContext(ctx, upsertQuery, k, pairs[k]); err != nil {
			return fmt.Errorf("put %q: %w", k, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	return nil
}
