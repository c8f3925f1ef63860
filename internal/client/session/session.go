// Package session holds the signed-in admin's identity and token and keeps
// them in the local metadata store across restarts.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/staffdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/staffdesk/internal/common"
	"github.com/dmitrijs2005/staffdesk/internal/dbx"
)

// Session is safe for concurrent use. A token being present is all it
// takes to count as signed in; expiry is not checked.
type Session struct {
	db *sql.DB

	mu      sync.RWMutex
	adminID string
	token   string
}

func New(db *sql.DB) *Session {
	return &Session{db: db}
}

// Load restores a previously saved session, if any.
func (s *Session) Load(ctx context.Context) error {
	store := metadata.NewSQLiteStore(s.db)

	id, _, err := store.Lookup(ctx, common.SessionAdminIDKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	token, _, err := store.Lookup(ctx, common.SessionAdminTokenKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminID, s.token = id, token
	return nil
}

// Save persists both values in one transaction before exposing them.
func (s *Session) Save(ctx context.Context, adminID, token string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteStore(tx).Put(ctx, map[string]string{
			common.SessionAdminIDKey:    adminID,
			common.SessionAdminTokenKey: token,
		})
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminID, s.token = adminID, token
	return nil
}

// Clear signs out. The in-memory state is dropped even if wiping the store
// fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.adminID = ""
	s.token = ""
	s.mu.Unlock()

	if err := metadata.NewSQLiteStore(s.db).Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) AdminID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminID
}
