package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amellor/streamstats/internal/recapstore"
)

// listRecapsCmd represents the listRecaps command
var listRecapsCmd = &cobra.Command{
	Use:   "list-recaps",
	Short: "Lists all configured recap schedules",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		err := listRecaps(os.Stdout, viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listRecapsCmd)
}

func listRecaps(out io.Writer, dbPath string) error {
	store, err := recapstore.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	schedules, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tRUN DAY\tSECTIONS\tLAST SENT")

	for _, sch := range schedules {
		sent := "never"
		if !sch.Sent.IsZero() {
			sent = sch.Sent.Format("2006-01-02")
		}
		sections := strings.Join(sch.Sections, ",")
		if sections == "" {
			sections = "all"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", sch.Name, sch.Email, sch.RunDay, sections, sent)
	}

	return w.Flush()
}
