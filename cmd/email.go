package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amellor/streamstats/internal/analytics"
	"github.com/amellor/streamstats/internal/render"
)

type sendEmailConfig struct {
	HistoryPath string
	From        string
	To          string
	Name        string
	Sections    []string
	Limit       int
	DryRun      bool
	APIKey      string
}

var emailCmd = &cobra.Command{
	Use:   "email <address> [section...]",
	Short: "Emails a listening recap",
	Long: `Builds the listening report and emails it to the given address.
  Optional section arguments restrict the email to those sections (e.g.
  'overview', 'top tracks', 'top albums'). With no sections, everything goes.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := sendEmailConfig{
			HistoryPath: viper.GetString("history"),
			From:        viper.GetString("from"),
			To:          args[0],
			Sections:    args[1:],
			Limit:       emailLimit,
			DryRun:      viper.GetBool("dryRun"),
			APIKey:      viper.GetString("sendgrid_api_key"),
		}
		err := sendRecap(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var emailLimit int

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	emailCmd.Flags().IntVar(&emailLimit, "top", 10, "Number of entries to show in ranked sections")
}

func sendRecap(config sendEmailConfig) error {
	events, err := loadCanonicalEvents(config.HistoryPath)
	if err != nil {
		return err
	}

	report := analytics.Compute(events)
	sections := filterSections(render.Sections(report, config.Limit), config.Sections)
	if len(sections) == 0 {
		return fmt.Errorf("no matching report sections for %v", config.Sections)
	}

	subject, body := recapContent(config.Name, sections, time.Now())

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if config.APIKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("streamstats", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(config.APIKey)

	err = retry.Do(
		func() error {
			response, err := client.Send(message)
			if err != nil {
				return err
			}
			if response.StatusCode >= 500 {
				return fmt.Errorf("sendgrid errored (%d): %s", response.StatusCode, response.Body)
			}
			if response.StatusCode >= 400 {
				return retry.Unrecoverable(fmt.Errorf("sendgrid rejected message (%d): %s", response.StatusCode, response.Body))
			}
			return nil
		},
		retry.Attempts(5),
	)
	if err != nil {
		return fmt.Errorf("sendRecap: %w", err)
	}
	return nil
}

// recapContent builds the subject line and HTML body for a recap email.
func recapContent(name string, sections []render.Section, now time.Time) (subject string, body string) {
	subjectSuffix := ""
	if len(name) > 0 {
		subjectSuffix = ": " + name
	}
	subject = fmt.Sprintf("Listening recap through %s%s", now.Format("2006-01-02"), subjectSuffix)
	body = render.HTML(subject, sections)
	return subject, body
}

// filterSections keeps the sections whose titles match names,
// case-insensitively. An empty name list keeps everything.
func filterSections(sections []render.Section, names []string) []render.Section {
	if len(names) == 0 {
		return sections
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = true
	}

	var kept []render.Section
	for _, section := range sections {
		if wanted[strings.ToLower(section.Title)] {
			kept = append(kept, section)
		}
	}
	return kept
}
