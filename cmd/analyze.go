package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/epa-ghana/airview-cli/internal/aggregate"
	"github.com/epa-ghana/airview-cli/internal/aqi"
	"github.com/epa-ghana/airview-cli/internal/clean"
	"github.com/epa-ghana/airview-cli/internal/export"
	"github.com/epa-ghana/airview-cli/internal/ingest"
	"github.com/epa-ghana/airview-cli/internal/source"
)

var (
	analyzeSource      string
	analyzeOutput      string
	analyzeConcurrency int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze --source VARIANT FILE...",
	Short: "Clean sensor exports and write aggregate, exceedance, AQI and min/max reports",
	Long: `Runs the full pipeline for one source variant over one or more CSV/XLSX
exports. Each file is normalized, cleaned and aggregated independently; a
file that fails validation is logged and skipped without aborting the batch.

Examples:
  airview analyze --source reference jan.csv feb.csv
  airview analyze --source quantaq lcs_export.xlsx --output /tmp/reports`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		srcCfg, ok := registry.Get(analyzeSource)
		if !ok {
			return eris.Errorf("analyze: unknown source %q (known: %s)",
				analyzeSource, strings.Join(registry.Names(), ", "))
		}

		outDir := analyzeOutput
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		concurrency := analyzeConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Analyze.Concurrency
		}

		runID := uuid.NewString()
		runDir := filepath.Join(outDir, runID)

		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		var mu sync.Mutex
		var tables []export.Table
		var processed, skipped atomic.Int64

		labels := batchLabels(args)
		for i, path := range args {
			label := labels[i]
			g.Go(func() error {
				report, err := analyzeFile(path, label, srcCfg, registry.Breakpoints)
				if err != nil {
					skipped.Add(1)
					zap.L().Warn("analyze: file skipped",
						zap.String("file", path),
						zap.Error(err),
					)
					return nil // keep processing the rest of the batch
				}
				processed.Add(1)
				mu.Lock()
				tables = append(tables, report.Tables()...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if processed.Load() == 0 {
			return eris.New("analyze: no file in the batch could be processed")
		}

		manifest := export.Manifest{
			RunID:     runID,
			Source:    srcCfg.Name,
			CreatedAt: time.Now(),
			Inputs:    args,
		}
		if err := export.WriteRun(runDir, manifest, tables); err != nil {
			return err
		}

		zap.L().Info("analyze: run complete",
			zap.String("run_id", runID),
			zap.String("dir", runDir),
			zap.Int64("files_processed", processed.Load()),
			zap.Int64("files_skipped", skipped.Load()),
		)
		fmt.Printf("reports written to %s\n", runDir)
		return nil
	},
}

// batchLabels derives one report label per input from its base name.
// Inputs in different directories can share a base name, and the label
// prefixes every table name in the run, so duplicates get a counter
// suffix rather than silently overwriting each other's reports.
func batchLabels(paths []string) []string {
	seen := make(map[string]int, len(paths))
	labels := make([]string, len(paths))
	for i, path := range paths {
		label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		seen[label]++
		if n := seen[label]; n > 1 {
			label = fmt.Sprintf("%s_%d", label, n)
		}
		labels[i] = label
	}
	return labels
}

// analyzeFile runs the full pipeline for one export file.
func analyzeFile(path, label string, srcCfg source.Config, breakpoints []aqi.Breakpoint) (*export.Report, error) {
	table, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return analyzeTable(table, label, srcCfg, breakpoints)
}

// analyzeTable is the single parameterized pipeline shared by the analyze
// command and the upload server: timestamp detection, normalization,
// cleaning, then every report table.
func analyzeTable(table *ingest.Table, label string, srcCfg source.Config, breakpoints []aqi.Breakpoint) (*export.Report, error) {
	table = ingest.NormalizeColumns(table)
	table = ingest.ParseTimestamps(table, srcCfg.TimestampColumn, srcCfg.Layouts)

	records, err := clean.Records(table, srcCfg)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.New("analyze: no records survive cleaning")
	}

	dailies := aggregate.Dailies(records, srcCfg.PM25Input)
	engine := aqi.NewEngine(breakpoints)
	aqiRows := engine.Annotate(dailies)

	return &export.Report{
		Label:        label,
		Source:       srcCfg.Name,
		Records:      len(records),
		Aggregates:   aggregate.Means(records, srcCfg.Pollutants),
		Exceedances:  aggregate.Exceedances(dailies, srcCfg.Thresholds),
		AQI:          aqiRows,
		Distribution: aqi.Distribution(aqiRows),
		MinMax:       aggregate.MinMax(dailies),
	}, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "source variant (see 'airview sources')")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "report output directory (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 0, "files processed in parallel (default from config)")
	_ = analyzeCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(analyzeCmd)
}
