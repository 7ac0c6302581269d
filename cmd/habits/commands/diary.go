// ABOUTME: Diary command sets today's diary text
// ABOUTME: Reads text from an argument, a file or stdin
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/journal"
)

type diaryOptions struct {
	file   string
	append bool
	save   bool
}

// NewDiaryCmd creates the diary command
func NewDiaryCmd() *cobra.Command {
	var opts diaryOptions

	cmd := &cobra.Command{
		Use:   "diary [text]",
		Short: "Write today's diary entry",
		Long: `Write today's diary entry from text, a file or stdin.

The text replaces today's diary unless --append is given.
Changes are kept as a draft until you run 'habits save' (or pass --save).

Examples:
  habits diary "Long run, felt great"
  habits diary --file notes.txt
  echo "Skipped dessert" | habits diary --append`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiary(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Read diary text from file")
	cmd.Flags().BoolVar(&opts.append, "append", false, "Append to today's diary instead of replacing it")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Record the day immediately")

	return cmd
}

func runDiary(cmd *cobra.Command, args []string, opts diaryOptions) error {
	var text string
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	} else if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}
	text = strings.TrimRight(text, "\r\n")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := applyToday(a.engine, opts.save, func(s *journal.Session) error {
		if opts.append && s.Diary() != "" && text != "" {
			text = s.Diary() + "\n" + text
		}
		s.SetDiary(text)
		return nil
	})
	if err != nil {
		return err
	}

	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), newTodayView(session, a.engine.Catalog()))
	}
	if !quiet {
		if text == "" {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared diary for", session.DayKey)
		} else {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Diary updated for %s: %s\n", session.DayKey, truncate(firstLine(text), 60))
		}
	}
	return nil
}
