// ABOUTME: Export command writes the whole journal to a file or stdout
// ABOUTME: Supports YAML, JSON and Markdown output
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/export"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal",
		Long: `Export the whole journal with statistics.

Formats:
  yaml      Structured data, habits keyed by ID (default)
  json      Same structure as yaml
  markdown  Human-readable checklist per day with diary quotes

Examples:
  habits export
  habits export -f markdown -o journal.md
  habits export --format json -o backup.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatYAML, "Export format: yaml, json, markdown")

	return cmd
}

func runExport(cmd *cobra.Command, output, format string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	catalog := a.engine.Catalog()
	data := export.Build(a.engine.Journal(), catalog, a.engine.Stats(), a.engine.Clock().Now())

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := export.Write(w, data, format, catalog); err != nil {
		return err
	}

	if output != "" && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d day(s) to %s\n", len(data.Days), output)
	}
	return nil
}
