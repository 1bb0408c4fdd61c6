package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/feedback"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var feedbackCmd = &cobra.Command{
	Use:   "feedback <evaluation-id>",
	Short: "Generate coaching feedback for an evaluation",
	Long: `Asks Claude for a short coaching note based on the evaluation's description,
failed questions and critical failure, and stores it on the evaluation.

Requires anthropic_api_key in the config or ANTHROPIC_API_KEY in the environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedback,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(feedbackCmd)
	requireEnvironment(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) (err error) {
	env := getEnvironment()

	err = env.cfg.RequireAPIKey()
	if err != nil {
		return err
	}

	var ev evaluation.Evaluation
	ev, err = env.store.Evaluation(args[0])
	if err != nil {
		return err
	}

	client := feedback.NewClient(env.cfg.AnthropicAPIKey, env.cfg.GetFeedbackModel())
	if getVerbose() {
		fmt.Printf("Requesting feedback from %s...\n", client.Model())
	}

	text, genErr := feedback.Analyze(context.Background(), client, feedback.RequestFor(ev, env.importer.Scorer()))
	if genErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", genErr)
	}

	_, err = env.store.SetAIFeedback(ev.ID, text)
	if err != nil {
		return err
	}
	err = env.store.Flush()
	if err != nil {
		err = fmt.Errorf("failed to save history: %w", err)
		return err
	}

	fmt.Println(text)
	return err
}
