package repository_test

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/generic-cart/internal/repository"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := repository.NewMigrator(pool)
	if err != nil {
		return fmt.Errorf("repository.NewMigrator: %w", err)
	}

	if err := migrator.Up(ctx, 0); err != nil {
		return fmt.Errorf("migrator.Up: %w", err)
	}

	return nil
}
