package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/handler"
	"meal-planner/internal/repository"
	"meal-planner/internal/router"
	"meal-planner/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// testPoolConfig sizes pools opened against the test container.
var testPoolConfig = config.DatabaseConfig{
	MaxConnections:  5,
	MinConnections:  1,
	MaxConnLifetime: 300,
}

// SetupTestDB creates a PostgreSQL test container with the remote schema
// applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, testPoolConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// NewStore builds a fallback store over a dedicated pool to the test database
// and an in-memory local store. The returned pool belongs to the store; close
// it to simulate a remote outage.
func NewStore(t *testing.T, testDB *TestDB) (*repository.FallbackStore, *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	pool, err := database.NewPoolFromURL(ctx, testDB.ConnStr, testPoolConfig, logger)
	if err != nil {
		t.Fatalf("failed to create store pool: %v", err)
	}

	db, err := repository.OpenLocalDB(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}

	store := repository.NewFallbackStore(
		repository.NewRemoteStore(pool, logger),
		repository.NewLocalStore(db, logger),
		logger,
	)
	t.Cleanup(func() { _ = store.Close() })

	return store, pool
}

// NewServer wires the HTTP stack over store.
func NewServer(store repository.Store) http.Handler {
	logger := zerolog.Nop()

	return router.New(router.Handlers{
		Recipe:   handler.NewRecipeHandler(service.NewRecipeService(store, logger), logger),
		MealPlan: handler.NewMealPlanHandler(service.NewMealPlanService(store, store, logger), logger),
		Shopping: handler.NewShoppingHandler(service.NewShoppingService(store, logger), logger),
		Data:     handler.NewDataHandler(service.NewDataService(store, nil, logger), logger),
		Health:   handler.NewHealthHandler(store, logger),
	}, config.RateLimitConfig{}, logger)
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	for _, table := range []string{"meal_plans", "recipes"} {
		if _, err := pool.Exec(context.Background(), "DELETE FROM "+table); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
