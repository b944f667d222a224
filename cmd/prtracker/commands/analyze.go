package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"prtracker/internal/keys"
	"prtracker/internal/report"
)

var (
	csvPath      string
	readStdin    bool
	reviewStatus string
)

type analyzeOutput struct {
	Summary  report.BatchSummary    `json:"summary"`
	Reports  []*report.TicketReport `json:"reports"`
	Failures []report.TicketFailure `json:"failures,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ISSUE-KEY...]",
	Short: "Fetch and analyze one or more Jira tickets",
	Long: `Fetches each ticket's changelog, worklogs, and text from Jira, then emits a
JSON report with transitions, bounce-back events, time-in-state periods,
logged hours, and Testim references. Issue keys come from the arguments, a
Jira CSV export (--csv), or free text on stdin (--stdin).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ticketKeys, err := collectKeys(args)
		if err != nil {
			return err
		}
		if len(ticketKeys) == 0 {
			return fmt.Errorf("no issue keys given; pass keys as arguments, --csv, or --stdin")
		}

		if cfg.Jira.BaseURL == "" || cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
			return fmt.Errorf("missing Jira credentials; set JIRA_URL, JIRA_EMAIL, and JIRA_API_TOKEN")
		}

		log.Info().Int("tickets", len(ticketKeys)).Msg("Starting batch analysis")

		analyzer := report.NewAnalyzer(jiraClient, workflow, cfg.Concurrency)
		result := analyzer.AnalyzeBatch(ticketKeys)

		for _, failure := range result.Failures {
			log.Warn().Str("key", failure.Key).Str("reason", failure.Reason).Msg("Skipped ticket")
		}

		output := analyzeOutput{
			Summary:  report.Summarize(result.Reports, reviewStatus),
			Reports:  result.Reports,
			Failures: result.Failures,
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	},
}

// collectKeys merges keys from arguments, a CSV export, and stdin text,
// deduplicated in first-seen order.
func collectKeys(args []string) ([]string, error) {
	ticketKeys := append([]string{}, args...)

	if csvPath != "" {
		content, err := os.ReadFile(csvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", csvPath, err)
		}
		csvKeys, err := keys.FromCSV(content)
		if err != nil {
			return nil, err
		}
		log.Info().Int("count", len(csvKeys)).Str("path", csvPath).Msg("Parsed issue keys from CSV")
		ticketKeys = append(ticketKeys, csvKeys...)
	}

	if readStdin {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		ticketKeys = append(ticketKeys, keys.FromText(string(content))...)
	}

	return keys.Dedupe(ticketKeys), nil
}

func init() {
	analyzeCmd.Flags().StringVar(&csvPath, "csv", "", "path to a Jira CSV export with issue keys")
	analyzeCmd.Flags().BoolVar(&readStdin, "stdin", false, "read issue keys from stdin text")
	analyzeCmd.Flags().StringVar(&reviewStatus, "review-status", "in review", "status whose average residency is reported in the summary")
	rootCmd.AddCommand(analyzeCmd)
}
