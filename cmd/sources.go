package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured source variants",
	Long: `Prints every known source variant as YAML: timestamp layouts, required
columns, positivity filters, correction coefficients and coverage rules.
The output doubles as a starting point for a sources override file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := yaml.Marshal(registry.All())
		if err != nil {
			return eris.Wrap(err, "sources: marshal registry")
		}
		fmt.Print(string(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
