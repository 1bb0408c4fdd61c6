package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/importer"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var submitCmd = &cobra.Command{
	Use:   "submit <evaluation.json>",
	Short: "Record a single evaluation filled in outside a spreadsheet",
	Long: `Scores one evaluation form (JSON) and opens its action items as Pending.

Example file:
  {
    "consultant_name": "Ana Souza",
    "date": "15/03/2024",
    "sale_effective": false,
    "no_sale_reason": "Desinteresse genérico (resposta vaga)",
    "answers": {"intro": "Sim", "momento": "Não", "espera": "N/A"}
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(submitCmd)
	requireEnvironment(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) (err error) {
	env := getEnvironment()

	var data []byte
	data, err = os.ReadFile(args[0])
	if err != nil {
		err = fmt.Errorf("failed to read %s: %w", args[0], err)
		return err
	}

	var sub importer.Submission
	err = json.Unmarshal(data, &sub)
	if err != nil {
		err = fmt.Errorf("failed to parse %s: %w", args[0], err)
		return err
	}

	var ev evaluation.Evaluation
	var items []evaluation.ActionItem
	err = env.store.Ingest(func(history []evaluation.Evaluation) (evs []evaluation.Evaluation, generated []evaluation.ActionItem, submitErr error) {
		ev, items, submitErr = env.importer.Submit(sub, history)
		if submitErr != nil {
			return evs, generated, submitErr
		}
		return []evaluation.Evaluation{ev}, items, submitErr
	})
	if err != nil {
		return err
	}

	err = env.store.Flush()
	if err != nil {
		err = fmt.Errorf("failed to save history: %w", err)
		return err
	}

	fmt.Printf("Evaluation %s: %.2f (%s)\n", ev.ID, ev.FinalScore, ev.Criticality)
	for _, item := range items {
		fmt.Printf("  [%s] %s (prazo %s)\n", item.Priority, item.Title, item.Deadline.Format("02/01/2006"))
	}

	return err
}
