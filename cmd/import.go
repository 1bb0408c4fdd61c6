package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/importer"
	"github.com/RVSV1104/qualitrack/pkg/ingest"
	"github.com/RVSV1104/qualitrack/pkg/source"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var importDryRun bool

//nolint:gochecknoglobals // Cobra boilerplate
var importJSON bool

//nolint:gochecknoglobals // Cobra boilerplate
var importCmd = &cobra.Command{
	Use:   "import <csv-file-or-url>",
	Short: "Import a monitoring spreadsheet",
	Long: `Imports evaluations from a CSV/TSV export of the monitoring form.

The input can be:
- A file path (e.g., avaliacoes.csv)
- A URL to a published spreadsheet export

Each row is scored and checked against the action-item rules, using the stored
history of the same consultant. Items from the current month stay Pending;
items from older rows are recorded as Done.

Examples:
  qualitrack import avaliacoes.csv
  qualitrack import "https://docs.google.com/spreadsheets/d/<id>/export?format=csv"
  qualitrack import avaliacoes.csv --dry-run --json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(importCmd)
	requireEnvironment(importCmd)
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and score without saving to history")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Print the full import result as JSON")
}

func runImport(cmd *cobra.Command, args []string) (err error) {
	env := getEnvironment()

	if getVerbose() {
		fmt.Printf("Loading spreadsheet from: %s\n", args[0])
	}

	var raw []byte
	raw, err = source.Fetch(args[0])
	if err != nil {
		return err
	}

	var result importer.Result
	build := func(history []evaluation.Evaluation) (evs []evaluation.Evaluation, items []evaluation.ActionItem, importErr error) {
		result, importErr = env.importer.Import(raw, history)
		return result.Evaluations, result.ActionItems, importErr
	}

	if importDryRun {
		_, _, err = build(env.store.Snapshot().Evaluations)
	} else {
		err = env.store.Ingest(build)
	}
	if err != nil {
		err = fmt.Errorf("failed to import %s: %w", args[0], err)
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", describeWarning(w, env.table))
	}

	if !importDryRun {
		err = env.store.Flush()
		if err != nil {
			err = fmt.Errorf("failed to save history: %w", err)
			return err
		}
	}

	if importJSON {
		var data []byte
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			err = fmt.Errorf("failed to marshal result: %w", err)
			return err
		}
		fmt.Println(string(data))
		return err
	}

	printImportSummary(result)
	if importDryRun {
		fmt.Println("Dry run: history not modified")
	}

	return err
}

func printImportSummary(result importer.Result) {
	fmt.Printf("Imported %d evaluation(s)", len(result.Evaluations))
	if len(result.Skipped) > 0 {
		fmt.Printf(", skipped %d row(s)", len(result.Skipped))
	}
	fmt.Println()

	fmt.Printf("Action items: %d active, %d retroactive\n", result.Active, result.Retroactive)

	if !getVerbose() {
		return
	}

	for _, ev := range result.Evaluations {
		fmt.Printf("  %-30s %s  %6.2f  %s\n", ev.ConsultantName, ev.Date.Format("02/01/2006"), ev.FinalScore, ev.Criticality)
	}
}

// describeWarning names the spreadsheet column instead of the internal field key.
func describeWarning(w ingest.Warning, table ingest.HeaderTable) (text string) {
	if label, found := table.Label(ingest.Field(w.Field)); found {
		w.Field = label
	}
	text = w.String()
	return text
}
