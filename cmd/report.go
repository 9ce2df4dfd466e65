package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/amellor/streamstats/internal/analytics"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generates the full listening report",
	Long:  `Normalizes the streaming history and writes the complete derived report as YAML.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runReport()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport() error {
	events, err := loadCanonicalEvents(viper.GetString("history"))
	if err != nil {
		return err
	}

	report := analytics.Compute(events)

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	err = encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return nil
}
