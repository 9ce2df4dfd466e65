package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amellor/streamstats/internal/recapstore"
)

// addRecapCmd represents the addRecap command
var addRecapCmd = &cobra.Command{
	Use:   "add-recap [section...]",
	Short: "Adds a recap email schedule, to be sent periodically with `send-recaps`",
	Long: `Optional section arguments restrict the recap to those report sections.
  With no sections, the recap includes everything.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := addRecap(viper.GetString("database"), viper.GetString("name"), viper.GetString("dest"), viper.GetInt("run_day"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addRecapCmd)

	var email string
	addRecapCmd.Flags().StringVar(&email, "dest", "", "Destination email address")
	addRecapCmd.MarkFlagRequired("dest")
	viper.BindPFlag("dest", addRecapCmd.Flags().Lookup("dest"))

	var recapName string
	addRecapCmd.Flags().StringVar(&recapName, "name", "", "Recap name - included in the email title, and used for periodically sending")
	addRecapCmd.MarkFlagRequired("name")
	viper.BindPFlag("name", addRecapCmd.Flags().Lookup("name"))

	var runDay int
	addRecapCmd.Flags().IntVar(&runDay, "run_day", 0, "Which day of the month to send this recap on")
	addRecapCmd.MarkFlagRequired("run_day")
	viper.BindPFlag("run_day", addRecapCmd.Flags().Lookup("run_day"))
}

func addRecap(dbPath string, name string, to string, runDay int, sections []string) error {
	store, err := recapstore.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Add(recapstore.Schedule{
		Name:     name,
		Email:    to,
		RunDay:   runDay,
		Sections: sections,
	})
}
