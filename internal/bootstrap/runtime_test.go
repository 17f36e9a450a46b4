package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"studyoverflow/internal/config"
	"studyoverflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "runtime.db"),
	}
}

func TestInitRuntime_SQLiteWithCatalog(t *testing.T) {
	cfg := sqliteConfig(t)

	db, rdb, err := InitRuntime(context.Background(), cfg, Options{SeedCatalog: true})
	require.NoError(t, err)
	assert.Nil(t, rdb, "no REDIS_URL disables the cache")

	var universities, courses int64
	require.NoError(t, db.Model(&models.University{}).Count(&universities).Error)
	require.NoError(t, db.Model(&models.Course{}).Count(&courses).Error)
	assert.Equal(t, int64(4), universities)
	assert.Equal(t, int64(20), courses)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestInitRuntime_WithoutSeed(t *testing.T) {
	cfg := sqliteConfig(t)

	db, _, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var count int64
	require.NoError(t, db.Model(&models.University{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.True(t, db.Migrator().HasTable(&models.PostVote{}))
}

func TestInitRuntime_RejectsSQLMigrationsOnSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DBSchemaMode = "sql"

	_, _, err := InitRuntime(context.Background(), cfg, Options{})
	assert.Error(t, err)
}
