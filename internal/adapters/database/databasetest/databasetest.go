// Package databasetest opens throwaway in-memory databases for tests.
package databasetest

import (
	"fmt"
	"testing"

	"devhub/internal/adapters/database"

	"github.com/glebarez/sqlite"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated, isolated SQLite database that is closed with the test.
// The pool is held to one connection, so a transaction must not reach for the outer handle.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.Must(uuid.NewV4()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Store is Open wrapped in the production unit of work.
func Store(t testing.TB) (*database.Store, *gorm.DB) {
	t.Helper()
	db := Open(t)
	return database.NewStore(db), db
}
