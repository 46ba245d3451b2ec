package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epa-ghana/airview-cli/internal/airstats"
	"github.com/epa-ghana/airview-cli/internal/clean"
	"github.com/epa-ghana/airview-cli/internal/export"
	"github.com/epa-ghana/airview-cli/internal/ingest"
	"github.com/epa-ghana/airview-cli/internal/model"
)

var (
	metalsOutput    string
	metalsResamples int
	metalsSeed      int64
)

var metalsCmd = &cobra.Command{
	Use:   "metals FILE...",
	Short: "Compare heavy-metal concentrations across sites",
	Long: `Reads heavy-metal lab exports and writes the cross-site comparison
tables: per-site Pearson correlation matrices, Kruskal-Wallis tests with
bootstrap confidence intervals for each site median, and monthly and
day-of-week variation summaries. Multiple exports pool into one comparison.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var records []model.MetalRecord
		for _, path := range args {
			table, err := ingest.ReadFile(path)
			if err != nil {
				return err
			}
			table = ingest.NormalizeColumns(table)

			fileRecords, err := clean.MetalRecords(table)
			if err != nil {
				return eris.Wrapf(err, "metals: %s", path)
			}
			records = append(records, fileRecords...)
		}
		if len(records) == 0 {
			return eris.New("metals: no records survive cleaning")
		}

		opts := airstats.Options{
			Resamples:   cfg.Bootstrap.Resamples,
			Confidence:  cfg.Bootstrap.Confidence,
			Concurrency: cfg.Bootstrap.Concurrency,
			Seed:        cfg.Bootstrap.Seed,
		}
		if metalsResamples > 0 {
			opts.Resamples = metalsResamples
		}
		if metalsSeed != 0 {
			opts.Seed = metalsSeed
		}

		kruskal, err := airstats.KruskalWallis(ctx, records, opts)
		if err != nil {
			return err
		}

		label := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		report := &export.MetalsReport{
			Label:        label,
			Records:      len(records),
			Correlations: airstats.Correlations(records),
			Kruskal:      kruskal,
			ByMonth:      airstats.TimeVariationByMonth(records),
			ByDayOfWeek:  airstats.TimeVariationByDayOfWeek(records),
		}

		outDir := metalsOutput
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		runID := uuid.NewString()
		runDir := filepath.Join(outDir, runID)

		manifest := export.Manifest{
			RunID:     runID,
			Source:    "metals",
			CreatedAt: time.Now(),
			Inputs:    args,
		}
		if err := export.WriteRun(runDir, manifest, report.Tables()); err != nil {
			return err
		}

		zap.L().Info("metals: run complete",
			zap.String("run_id", runID),
			zap.Int("records", len(records)),
		)
		fmt.Printf("reports written to %s\n", runDir)
		return nil
	},
}

func init() {
	metalsCmd.Flags().StringVar(&metalsOutput, "output", "", "report output directory (default from config)")
	metalsCmd.Flags().IntVar(&metalsResamples, "resamples", 0, "bootstrap resamples (default from config)")
	metalsCmd.Flags().Int64Var(&metalsSeed, "seed", 0, "bootstrap RNG seed (0 = time-based)")
	rootCmd.AddCommand(metalsCmd)
}
