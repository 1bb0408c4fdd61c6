package cmd

import (
	"fmt"

	"github.com/RVSV1104/qualitrack/pkg/config"
	"github.com/RVSV1104/qualitrack/pkg/history"
	"github.com/RVSV1104/qualitrack/pkg/importer"
	"github.com/RVSV1104/qualitrack/pkg/ingest"
	"github.com/RVSV1104/qualitrack/pkg/rubric"
	"github.com/spf13/cobra"
)

// needsEnvironment marks commands that work on the configured history.
const needsEnvironment = "qualitrack/environment"

//nolint:gochecknoglobals // Cobra boilerplate
var loaded environment

// environment bundles everything a command needs after configuration is loaded.
type environment struct {
	cfg      config.Config
	rubric   rubric.Rubric
	table    ingest.HeaderTable
	store    *history.Store
	importer *importer.Importer
}

func setupEnvironment() (env environment, err error) {
	env.cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = fmt.Errorf("failed to load config: %w", err)
		return env, err
	}

	env.rubric = rubric.Default()
	if env.cfg.RubricPath != "" {
		if getVerbose() {
			fmt.Printf("Loading rubric from: %s\n", env.cfg.RubricPath)
		}
		env.rubric, err = rubric.Load(env.cfg.RubricPath)
		if err != nil {
			err = fmt.Errorf("failed to load rubric: %w", err)
			return env, err
		}
	}

	env.table = ingest.DefaultHeaderTable()
	if env.cfg.HeaderTablePath != "" {
		if getVerbose() {
			fmt.Printf("Loading header table from: %s\n", env.cfg.HeaderTablePath)
		}
		env.table, err = ingest.LoadHeaderTable(env.cfg.HeaderTablePath)
		if err != nil {
			err = fmt.Errorf("failed to load header table: %w", err)
			return env, err
		}
	}

	if getVerbose() {
		fmt.Printf("Opening history: %s\n", env.cfg.HistoryPath)
	}
	env.store, err = history.Open(env.cfg.HistoryPath)
	if err != nil {
		err = fmt.Errorf("failed to open history: %w", err)
		return env, err
	}

	env.importer = importer.New(env.rubric, env.table, importer.Options{})

	return env, err
}

// requireEnvironment makes the root pre-run load the environment before cmds run.
func requireEnvironment(cmds ...*cobra.Command) {
	for _, c := range cmds {
		if c.Annotations == nil {
			c.Annotations = make(map[string]string)
		}
		c.Annotations[needsEnvironment] = "true"
	}
}

// loadEnvironment is the root PersistentPreRunE. Commands that never touch
// the history (init, help, completion) skip it, so a broken config cannot block them.
func loadEnvironment(cmd *cobra.Command, args []string) (err error) {
	if cmd.Annotations[needsEnvironment] != "true" {
		return err
	}

	loaded, err = setupEnvironment()
	return err
}

// getEnvironment returns what the pre-run loaded.
func getEnvironment() (env environment) {
	env = loaded
	return env
}
