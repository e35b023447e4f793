// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"airdrop-tracker-be/internal/model"
	"airdrop-tracker-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database that is closed
// when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewInMemorySQLite(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
