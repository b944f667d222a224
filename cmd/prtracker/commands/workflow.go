package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Print the effective workflow model",
	Long: `Prints the forward stage order and blocked statuses the analyzer will use,
either the built-in default or the definition from WORKFLOW_FILE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := struct {
			Stages  []string `json:"stages"`
			Blocked []string `json:"blocked"`
		}{
			Stages:  workflow.Stages(),
			Blocked: workflow.BlockedStages(),
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(workflowCmd)
}
