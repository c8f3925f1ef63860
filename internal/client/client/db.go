package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/staffdesk/internal/client/migrations"
	"github.com/dmitrijs2005/staffdesk/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// RunMigrations applies pending migrations and returns how many ran.
func RunMigrations(ctx context.Context, db *sql.DB) (int, error) {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}

	applied, err := p.Up(ctx)
	if err != nil {
		return len(applied), fmt.Errorf("migrate session db: %w", err)
	}
	return len(applied), nil
}

// InitDatabase opens the session database at path, creating the file and
// its directory when missing, and migrates it.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	if _, err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
