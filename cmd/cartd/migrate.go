package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nikolayk812/generic-cart/internal/config"
	"github.com/nikolayk812/generic-cart/internal/repository"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.Storage.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate requires storage.driver=%s", config.DriverPostgres)
	}

	ctx := cmd.Context()

	pool, err := pgxpool.New(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	migrator, err := repository.NewMigrator(pool)
	if err != nil {
		return fmt.Errorf("repository.NewMigrator: %w", err)
	}

	switch args[0] {
	case "up":
		if err := migrator.Up(ctx, migrateSteps); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		if err := migrator.Down(ctx, migrateSteps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}

	ver, count, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	logger.WithFields(log.Fields{"version": ver, "applied": count}).Infof("migrate %s ok", args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "migration status: version=%d applied=%d\n", ver, count)
	return nil
}
