package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "qualitrack",
	Short: "Score call-center quality evaluations and track development plans",
	Long: `qualitrack imports monitoring spreadsheets exported from the evaluation form,
scores each contact against the weighted quality rubric and opens corrective
action items (PDI) for the consultants who need them.

Evaluations from the current month open Pending items; older rows are treated
as retroactive history and their items are recorded as already Done.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.qualitrack/config.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}
