package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RVSV1104/qualitrack/pkg/export"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var exportOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var exportConsultant string

//nolint:gochecknoglobals // Cobra boilerplate
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored evaluations as a spreadsheet",
	Long: `Writes the stored evaluations as a semicolon-separated, UTF-8 (with BOM) CSV
that opens directly in Excel and can be imported again.

Examples:
  qualitrack export
  qualitrack export --consultant "Ana Souza" --output ana.csv
  qualitrack export --output -`,
	RunE: runExport,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(exportCmd)
	requireEnvironment(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, or - for stdout (default <output_dir>/avaliacoes.csv)")
	exportCmd.Flags().StringVar(&exportConsultant, "consultant", "", "Only export this consultant")
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	env := getEnvironment()

	evs := env.store.Evaluations(exportConsultant)

	if exportOutput == "-" {
		err = export.Write(os.Stdout, evs, env.table, env.rubric)
		return err
	}

	path := exportOutput
	if path == "" {
		path = filepath.Join(env.cfg.Defaults.OutputDir, "avaliacoes.csv")
	}

	var f *os.File
	f, err = os.Create(path)
	if err != nil {
		err = fmt.Errorf("failed to create %s: %w", path, err)
		return err
	}
	defer f.Close()

	err = export.Write(f, evs, env.table, env.rubric)
	if err != nil {
		err = fmt.Errorf("failed to write %s: %w", path, err)
		return err
	}

	fmt.Printf("Exported %d evaluation(s) to %s\n", len(evs), path)
	return err
}
