package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amellor/streamstats/internal/recapstore"
)

type sendRecapsConfig struct {
	DbPath      string
	HistoryPath string
	From        string
	APIKey      string
	DryRun      bool
}

var sendRecapsCmd = &cobra.Command{
	Use:   "send-recaps",
	Short: "Sends every recap email that is due",
	Long:  ``,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := sendRecapsConfig{
			DbPath:      viper.GetString("database"),
			HistoryPath: viper.GetString("history"),
			From:        viper.GetString("from"),
			APIKey:      viper.GetString("sendgrid_api_key"),
			DryRun:      viper.GetBool("dry_run"),
		}
		err := sendDueRecaps(config, time.Now())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendRecapsCmd)

	var dryRun bool
	sendRecapsCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dry_run", sendRecapsCmd.Flags().Lookup("dry_run"))
}

func sendDueRecaps(config sendRecapsConfig, now time.Time) error {
	store, err := recapstore.New(config.DbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	due, err := store.Due(now)
	if err != nil {
		return err
	}

	errOccurred := false
	for _, sch := range due {
		fmt.Printf("Sending recap %q to %s\n", sch.Name, sch.Email)
		err := sendRecap(sendEmailConfig{
			HistoryPath: config.HistoryPath,
			From:        config.From,
			To:          sch.Email,
			Name:        sch.Name,
			Sections:    sch.Sections,
			Limit:       10,
			DryRun:      config.DryRun,
			APIKey:      config.APIKey,
		})
		if err != nil {
			errOccurred = true
			fmt.Printf("sendRecap: %v\n", err)
			continue
		}
		if config.DryRun {
			continue
		}
		if err := store.MarkSent(sch.Name, now); err != nil {
			return err
		}
	}

	if errOccurred {
		return fmt.Errorf("error occurred while sending recaps")
	}
	return nil
}
