package test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/todoai/todoai/internal/profile"
	"github.com/todoai/todoai/store"
	"github.com/todoai/todoai/store/db"
)

// NewTestingStore returns a migrated store backed by a fresh database.
// DRIVER selects the backend: sqlite (default), mysql or postgres. The last two
// start a throwaway container.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	profile := getTestingProfile(ctx, t)
	dbDriver, err := db.NewDBDriver(profile)
	require.NoError(t, err, "failed to create db driver")

	ts := store.New(dbDriver, profile)
	require.NoError(t, ts.Migrate(ctx), "failed to migrate db")
	t.Cleanup(func() {
		_ = ts.Close()
	})
	return ts
}

func getTestingProfile(ctx context.Context, t *testing.T) *profile.Profile {
	t.Helper()
	dir := t.TempDir()
	mode := "prod"
	driver := getDriverFromEnv()

	var dsn string
	switch driver {
	case "mysql":
		dsn = startMySQL(ctx, t)
	case "postgres":
		dsn = startPostgres(ctx, t)
	default:
		dsn = filepath.Join(dir, fmt.Sprintf("todoai_%s.db", mode))
	}

	return &profile.Profile{
		Mode:                 mode,
		Port:                 getUnusedPort(t),
		Data:                 dir,
		DSN:                  dsn,
		Driver:               driver,
		Version:              "test",
		JWTSecret:            "test-secret",
		JWTAlgorithm:         "HS256",
		JWTExpirationMinutes: 60,
		FrontendURL:          "http://localhost:3000",
	}
}

func getDriverFromEnv() string {
	driver := os.Getenv("DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

func startMySQL(ctx context.Context, t *testing.T) string {
	container, err := mysql.Run(ctx, "mysql:8",
		mysql.WithDatabase("todoai"),
		mysql.WithUsername("root"),
		mysql.WithPassword("password"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "failed to start mysql container")

	dsn, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return dsn
}

func startPostgres(ctx context.Context, t *testing.T) string {
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("todoai"),
		postgres.WithUsername("todoai"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}
