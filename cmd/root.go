package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string
var historyPath string
var databasePath string
var fromAddress string
var sendgridApiKey string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamstats",
	Short: "Analyzes a Spotify extended streaming history export",
	Long: `Normalizes the raw playback events in a Spotify extended streaming
history export and derives listening statistics: totals, rankings, streaks,
milestones, and per-album/per-artist breakdowns.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.streamstats.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&historyPath, "history", "H", "", "Path to the streaming history export (a JSON file or a directory of them)")
	viper.BindPFlag("history", rootCmd.PersistentFlags().Lookup("history"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./streamstats.db", "Path to the SQLite database holding recap schedules")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(&fromAddress, "from", "", "From email address for recaps")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))

	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key for sending recaps")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".streamstats" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".streamstats")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}
