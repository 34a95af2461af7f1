package test_utils

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/burnup/internal/config"
	"github.com/klokku/burnup/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	testDbName   = "burnup"
	testDbUser   = "test_burnup"
	testDbPass   = "test_burnup"
	testDbSchema = "burnup"
)

// preparePostgresContainer starts the container. testcontainers panics when
// no Docker host can be found; that is reported as an error.
func preparePostgresContainer(ctx context.Context) (pgContainer *postgres.PostgresContainer, err error) {
	defer func() {
		if r := recover(); r != nil {
			pgContainer = nil
			err = fmt.Errorf("container provider unavailable: %v", r)
		}
	}()

	pgContainer, err = postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithDatabase(testDbName),
		postgres.WithUsername(testDbUser),
		postgres.WithPassword(testDbPass),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return nil, err
	}
	return pgContainer, nil
}

// TestWithDB starts a Postgres container, applies all migrations and snapshots
// the result so tests can Restore a clean database. The returned func opens a
// new pool against it.
func TestWithDB() (*postgres.PostgresContainer, func() *pgxpool.Pool, error) {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		return nil, nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return container, nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container, nil, err
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:     host,
		Port:     port.Int(),
		User:     testDbUser,
		Pass:     testDbPass,
		Name:     testDbName,
		Schema:   testDbSchema,
		MaxConns: 4,
		MinConns: 1,
	}

	if err := database.Migrate(ctx, cfg); err != nil {
		return container, nil, err
	}

	if err := container.Snapshot(ctx, postgres.WithSnapshotName("postgres-test-snapshot")); err != nil {
		return container, nil, err
	}

	return container, func() *pgxpool.Pool {
		db, err := database.Open(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to open database connection: %v", err)
		}
		return db
	}, nil
}
