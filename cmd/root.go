package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epa-ghana/airview-cli/internal/config"
	"github.com/epa-ghana/airview-cli/internal/source"
)

var (
	cfg      *config.Config
	registry *source.Registry
)

var rootCmd = &cobra.Command{
	Use:   "airview",
	Short: "Air-quality data analysis pipeline",
	Long:  "Cleans heterogeneous air-quality sensor exports and produces time-aggregated statistics: pollutant averages, exceedance counts, AQI categorization and cross-site comparisons.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		registry = source.NewRegistry()
		if cfg.Sources.File != "" {
			if err := registry.LoadFile(cfg.Sources.File); err != nil {
				return fmt.Errorf("load source overrides: %w", err)
			}
			zap.L().Info("loaded source registry overrides",
				zap.String("file", cfg.Sources.File),
			)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
