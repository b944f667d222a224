package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"prtracker/internal/config"
	"prtracker/internal/flow"
	"prtracker/internal/jira"
	"prtracker/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	jiraClient jira.Client
	workflow   *flow.Workflow
)

var rootCmd = &cobra.Command{
	Use:   "prtracker",
	Short: "prtracker analyzes review bounce-backs and time-in-state for Jira tickets",
	Long: `A workflow transition analyzer for Jira tickets: it reconstructs the full
time-in-state history from the changelog, flags backward movements and blocked
periods, sums logged hours, and extracts Testim test references from ticket text.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		jiraClient = jira.NewClient(cfg.Jira)

		workflow = flow.DefaultWorkflow()
		if cfg.WorkflowFile != "" {
			workflow, err = flow.LoadWorkflow(cfg.WorkflowFile)
			if err != nil {
				log.Fatal().Err(err).Str("path", cfg.WorkflowFile).Msg("Failed to load workflow definition")
			}
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("prtracker starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
