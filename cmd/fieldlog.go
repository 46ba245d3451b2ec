package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epa-ghana/airview-cli/internal/fieldlog"
)

var fieldlogEntry fieldlog.Entry

var fieldlogCmd = &cobra.Command{
	Use:   "fieldlog",
	Short: "Record and merge monitoring field observations",
	Long: `Manages the field observation log kept in a Google Sheets workbook:
officers record a Start entry when a sampler is deployed and a Stop entry
when it is retrieved, and merge pairs them up for elapsed-time checks.`,
}

var fieldlogAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append one observation entry",
	Long: `Appends one Start or Stop observation to the log. The entry can be
given field by field via flags, or as a JSON object on stdin with --stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		entry := fieldlogEntry
		if useStdin, _ := cmd.Flags().GetBool("stdin"); useStdin {
			if err := json.NewDecoder(os.Stdin).Decode(&entry); err != nil {
				return eris.Wrap(err, "fieldlog: decode entry from stdin")
			}
		}

		client, err := newSheetsClient(cmd)
		if err != nil {
			return err
		}
		if err := client.Append(ctx, entry); err != nil {
			return err
		}
		fmt.Printf("recorded %s entry for sampler %s at %s\n", entry.EntryType, entry.ID, entry.Site)
		return nil
	},
}

var (
	fieldlogListSite string
	fieldlogListDate string
)

var fieldlogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded observations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newSheetsClient(cmd)
		if err != nil {
			return err
		}
		entries, err := client.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tID\tSITE\tDATE\tTIME\tOFFICER")
		for _, e := range entries {
			if fieldlogListSite != "" && e.Site != fieldlogListSite {
				continue
			}
			if fieldlogListDate != "" && e.Date != fieldlogListDate {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.EntryType, e.ID, e.Site, e.Date, e.Time, e.Officer)
		}
		return w.Flush()
	},
}

var fieldlogMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Pair Start/Stop entries and save the merged worksheet",
	Long: `Pairs Start and Stop entries that share a sampler ID and site, computes
the elapsed-time difference for each pair, and rewrites the merged
worksheet with the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newSheetsClient(cmd)
		if err != nil {
			return err
		}
		n, err := client.MergeAndSave(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("fieldlog: merge complete", zap.Int("pairs", n))
		fmt.Printf("merged %d record pairs\n", n)
		return nil
	},
}

func newSheetsClient(cmd *cobra.Command) (*fieldlog.Client, error) {
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, eris.New("fieldlog: sheets.spreadsheet_id is not configured")
	}
	return fieldlog.NewClient(cmd.Context(),
		cfg.Sheets.CredentialsFile,
		cfg.Sheets.SpreadsheetID,
		cfg.Sheets.ObservationsSheet,
		cfg.Sheets.MergedSheet,
	)
}

func init() {
	f := fieldlogAddCmd.Flags()
	f.Bool("stdin", false, "read the entry as JSON from stdin")
	f.StringVar(&fieldlogEntry.EntryType, "type", fieldlog.EntryStart, "entry type (Start or Stop)")
	f.StringVar(&fieldlogEntry.ID, "id", "", "sampler ID")
	f.StringVar(&fieldlogEntry.Site, "site", "", "monitoring site")
	f.StringVar(&fieldlogEntry.Officer, "officer", "", "monitoring officer")
	f.StringVar(&fieldlogEntry.Driver, "driver", "", "driver")
	f.StringVar(&fieldlogEntry.Date, "date", "", "observation date (YYYY-MM-DD)")
	f.StringVar(&fieldlogEntry.Time, "time", "", "observation time (HH:MM:SS)")
	f.Float64Var(&fieldlogEntry.Temperature, "temperature", 0, "temperature (°C)")
	f.Float64Var(&fieldlogEntry.RH, "rh", 0, "relative humidity (%)")
	f.Float64Var(&fieldlogEntry.Pressure, "pressure", 0, "pressure (hPa)")
	f.StringVar(&fieldlogEntry.Weather, "weather", "", "weather conditions")
	f.StringVar(&fieldlogEntry.Wind, "wind", "", "wind conditions")
	f.Float64Var(&fieldlogEntry.ElapsedMin, "elapsed", 0, "sampler elapsed time (min)")
	f.Float64Var(&fieldlogEntry.FlowRate, "flow", 0, "sampler flow rate (L/min)")
	f.StringVar(&fieldlogEntry.Observation, "observation", "", "free-text observation")

	fieldlogListCmd.Flags().StringVar(&fieldlogListSite, "site", "", "only entries for this site")
	fieldlogListCmd.Flags().StringVar(&fieldlogListDate, "date", "", "only entries on this date (YYYY-MM-DD)")

	fieldlogCmd.AddCommand(fieldlogAddCmd)
	fieldlogCmd.AddCommand(fieldlogListCmd)
	fieldlogCmd.AddCommand(fieldlogMergeCmd)
	rootCmd.AddCommand(fieldlogCmd)
}
