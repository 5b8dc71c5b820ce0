package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/brewlog/brewlog/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// schemaMigrations lists every migration pair in apply order. Reset runs
// the down scripts in reverse order first, then the up scripts.
var schemaMigrations = []string{
	"000001_users",
	"000002_beans",
	"000003_recipes",
}

// ResetSchema drops and recreates all tables for tests. The recipes and
// beans tables reference users, so order matters on both passes.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for i := len(schemaMigrations) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, root, schemaMigrations[i]+".down.sql"); err != nil {
			return err
		}
	}
	for _, name := range schemaMigrations {
		if err := applyMigration(ctx, pool, root, name+".up.sql"); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, root, file string) error {
	sql, err := os.ReadFile(filepath.Join(root, "migrations", file))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", file, err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, name string) *model.User {
	t.Helper()
	return &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()),
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$dGVzdHNhbHQ$dGVzdGhhc2g",
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestBean creates a test bean owned by the given user.
func NewTestBean(t testing.TB, ownerID, name string) *model.Bean {
	t.Helper()
	now := time.Now().UTC()
	return &model.Bean{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Name:      name,
		Origin:    "Ethiopia",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestRecipe creates a test recipe against the given bean.
func NewTestRecipe(t testing.TB, beanID string, brewDate time.Time) *model.Recipe {
	t.Helper()
	now := time.Now().UTC()
	return &model.Recipe{
		ID:             ulid.Make().String(),
		BeanID:         beanID,
		BrewDate:       brewDate,
		Weather:        "Clear",
		Temperature:    22.0,
		Humidity:       50,
		Dose:           15.0,
		Grind:          5.0,
		ExtractionTime: 120.0,
		DaysSinceRoast: model.DefaultDaysSinceRoast,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
