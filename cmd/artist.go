package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/amellor/streamstats/internal/analytics"
)

var artistCmd = &cobra.Command{
	Use:   "artist <name>",
	Short: "Generates a report scoped to one artist",
	Long:  `Recomputes the core rollups restricted to plays whose artist exactly matches the given name.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runArtist(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating artist report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(artistCmd)
}

func runArtist(name string) error {
	events, err := loadCanonicalEvents(viper.GetString("history"))
	if err != nil {
		return err
	}

	report := analytics.ComputeArtist(events, name)

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding artist report: %w", err)
	}
	return nil
}
