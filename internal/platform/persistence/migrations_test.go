package persistence

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMigrations_InputValidation(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("EmptyMigrationsPath", func(t *testing.T) {
		err := RunMigrations(logger, "postgres://test", "")
		assert.EqualError(t, err, "migrations path cannot be empty")
	})

	t.Run("EmptyDatabaseURL", func(t *testing.T) {
		err := RunMigrations(logger, "", "./migrations/postgres")
		assert.EqualError(t, err, "database URL cannot be empty")
	})

	// Applying migrations needs a live database
}

func TestMigrationSource(t *testing.T) {
	assert.Equal(t, "file://./migrations/postgres", migrationSource("./migrations/postgres"))
	assert.Equal(t, "file:///srv/migrations", migrationSource("file:///srv/migrations"))
}
