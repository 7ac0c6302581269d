// ABOUTME: Catalog command lists the tracked habits
// ABOUTME: Shows the IDs accepted by check, uncheck and toggle
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/models"
)

// NewCatalogCmd creates the catalog command
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"habits"},
		Short:   "List the tracked habits",
		Long: `List the habits tracked every day, in display order.

Use the ID column with check, uncheck and toggle.`,
		Args: cobra.NoArgs,
		RunE: runCatalog,
	}

	return cmd
}

func runCatalog(cmd *cobra.Command, args []string) error {
	catalog := models.DefaultCatalog()

	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), catalog.Habits())
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tID\tLABEL\n")
	for i, h := range catalog.Habits() {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, h.ID, h.Label)
	}
	return w.Flush()
}
