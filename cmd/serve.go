package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/RVSV1104/qualitrack/pkg/api"
	"github.com/RVSV1104/qualitrack/pkg/feedback"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves the evaluation workflow over HTTP: spreadsheet imports, single
submissions, acknowledgements, action items, consultant summaries, CSV export
and AI feedback (when an Anthropic API key is configured).`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	requireEnvironment(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	env := getEnvironment()

	opts := api.Options{
		Importer:  env.importer,
		Store:     env.store,
		Table:     env.table,
		Rubric:    env.rubric,
		AccessLog: getVerbose(),
	}

	if env.cfg.RequireAPIKey() == nil {
		opts.Feedback = feedback.NewClient(env.cfg.AnthropicAPIKey, env.cfg.GetFeedbackModel())
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no Anthropic API key configured, feedback generation disabled")
	}

	server := api.New(opts)

	addr := serveAddr
	if addr == "" {
		addr = env.cfg.Server.Addr
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		if shutdownErr := server.Shutdown(); shutdownErr != nil {
			log.Printf("Server shutdown error: %v", shutdownErr)
		}
	}()

	log.Printf("qualitrack listening on %s", addr)
	err = server.Listen(addr)
	if err != nil {
		err = fmt.Errorf("server stopped: %w", err)
		return err
	}

	err = env.store.Flush()
	return err
}
