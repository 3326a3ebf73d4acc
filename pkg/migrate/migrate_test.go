package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/angelmondragon/biowe-backend/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateEmbedded())
}

func TestRunUpCreatesTablesOnSQLite(t *testing.T) {
	conn, err := db.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"))
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, Run(ctx, sqlDB, "sqlite3", "up"))

	for _, table := range []string{"products", "blog_posts", "orders"} {
		assert.True(t, conn.Migrator().HasTable(table), "expected table %s", table)
	}

	version, err := Version(ctx, sqlDB, "sqlite3")
	require.NoError(t, err)
	assert.Equal(t, int64(20250301090200), version)

	require.NoError(t, MigrateToVersion(ctx, sqlDB, "sqlite3", "20250301090000"))
	assert.True(t, conn.Migrator().HasTable("products"))
	assert.False(t, conn.Migrator().HasTable("orders"))
}

func TestValidateFSRejectsBadNames(t *testing.T) {
	fsys := fstest.MapFS{
		"m/1_bad.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	err := ValidateFS(fsys, "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")

	missingDown := fstest.MapFS{
		"m/20250101000000_x.sql": {Data: []byte("-- +goose Up\n")},
	}
	require.Error(t, ValidateFS(missingDown, "m"))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Product Tags!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filepath.Base(path), "_add_product_tags.sql"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}
