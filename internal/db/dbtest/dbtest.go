// Package dbtest provides in-memory stores for tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db"
)

// NewStore creates a migrated in-memory SQLite store. The pool is limited to
// one connection, every new connection would see an empty database.
func NewStore(t *testing.T) *db.Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := config.Default()
	cfg.DB.GormEngine = config.EngineSQLite
	cfg.DB.Name = ":memory:"
	cfg.DB.QueryTimeout = 5

	store, err := db.New(gdb, &cfg)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(), "failed to migrate test database")

	return store
}
