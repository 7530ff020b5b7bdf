package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nikolayk812/generic-cart/internal/config"
	"github.com/nikolayk812/generic-cart/internal/logging"
)

var version = "dev"

var (
	// configFile is set by the --config flag.
	configFile string

	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "cartd",
	Short:         "cartd serves shopping carts over HTTP",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, err = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file (env CART_* overrides)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
