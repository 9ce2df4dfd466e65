package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amellor/streamstats/internal/analytics"
	"github.com/amellor/streamstats/internal/render"
)

var summaryLimit int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Prints a textual summary of listening habits",
	Long:  `Renders the headline rollups - totals, top tracks and albums, platforms, streaks, milestones - as terminal tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := printSummary(os.Stdout, viper.GetString("history"), summaryLimit)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().IntVar(&summaryLimit, "top", 10, "Number of entries to show in ranked sections")
}

func printSummary(out io.Writer, historyPath string, limit int) error {
	events, err := loadCanonicalEvents(historyPath)
	if err != nil {
		return err
	}

	report := analytics.Compute(events)
	return render.WriteText(out, render.Sections(report, limit))
}
