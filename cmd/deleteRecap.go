package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amellor/streamstats/internal/recapstore"
)

// deleteRecapCmd represents the deleteRecap command
var deleteRecapCmd = &cobra.Command{
	Use:   "delete-recap",
	Short: "Deletes a recap schedule",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		err := deleteRecap(viper.GetString("database"), viper.GetString("name"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteRecapCmd)

	var recapName string
	deleteRecapCmd.Flags().StringVar(&recapName, "name", "", "Name of the recap schedule to delete")
	deleteRecapCmd.MarkFlagRequired("name")
	viper.BindPFlag("name", deleteRecapCmd.Flags().Lookup("name"))
}

func deleteRecap(dbPath string, name string) error {
	store, err := recapstore.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(name); err != nil {
		return err
	}

	fmt.Printf("Deleted recap schedule %q\n", name)
	return nil
}
