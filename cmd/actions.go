package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var actionsConsultant string

//nolint:gochecknoglobals // Cobra boilerplate
var actionsPendingOnly bool

//nolint:gochecknoglobals // Cobra boilerplate
var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List action items (PDI)",
	Long: `Lists stored action items ordered by deadline.

Examples:
  qualitrack actions --consultant "Ana Souza"
  qualitrack actions --pending
  qualitrack actions set-status auto-score-3 "Em Andamento"`,
	RunE: runActions,
}

//nolint:gochecknoglobals // Cobra boilerplate
var actionsStatusCmd = &cobra.Command{
	Use:   "set-status <action-item-id> <status>",
	Short: "Move an action item to Pendente, Em Andamento or Concluído",
	Args:  cobra.ExactArgs(2),
	RunE:  runActionsSetStatus,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(actionsCmd)
	requireEnvironment(actionsCmd, actionsStatusCmd)
	actionsCmd.AddCommand(actionsStatusCmd)
	actionsCmd.Flags().StringVar(&actionsConsultant, "consultant", "", "Only list this consultant's items")
	actionsCmd.Flags().BoolVar(&actionsPendingOnly, "pending", false, "Hide completed items")
}

func runActions(cmd *cobra.Command, args []string) (err error) {
	env := getEnvironment()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONSULTOR\tPRAZO\tPRIORIDADE\tSTATUS\tTÍTULO")

	for _, item := range env.store.ActionItems(actionsConsultant) {
		if actionsPendingOnly && item.Status == evaluation.ActionDone {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.ConsultantName, item.Deadline.Format("02/01/2006"), item.Priority, item.Status, item.Title)
	}

	err = w.Flush()
	return err
}

func runActionsSetStatus(cmd *cobra.Command, args []string) (err error) {
	env := getEnvironment()

	var item evaluation.ActionItem
	item, err = env.store.UpdateActionStatus(args[0], args[1])
	if err != nil {
		return err
	}

	err = env.store.Flush()
	if err != nil {
		err = fmt.Errorf("failed to save history: %w", err)
		return err
	}

	fmt.Printf("%s: %s\n", item.ID, item.Status)
	return err
}
