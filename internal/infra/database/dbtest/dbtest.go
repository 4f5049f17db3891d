// Package dbtest provides the in-memory database used by tests. Only test
// files import it, which keeps the SQLite driver out of the server binary.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hemafield/lead-capture/internal/infra/database"
)

// NewTestDB opens an in-memory SQLite database with the migrations applied.
func NewTestDB() (*sql.DB, func(), error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open test database: %w", err)
	}

	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)

	if err := database.Migrate(context.Background(), db, "sqlite3"); err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		db.Close()
	}

	return db, cleanup, nil
}
