// ABOUTME: Check, uncheck and toggle commands for today's habits
// ABOUTME: Updates the draft and optionally records the day right away
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/journal"
)

type markMode int

const (
	markCheck markMode = iota
	markUncheck
	markToggle
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	return newMarkCmd(markCheck, "check <habit>...", "Mark habits as done for today", `Mark one or more habits as done for today.

Habits are named by ID; run 'habits catalog' to list them.
Changes are kept as a draft until you run 'habits save' (or pass --save).

Examples:
  habits check water sleep
  habits check reading --save`)
}

// NewUncheckCmd creates the uncheck command
func NewUncheckCmd() *cobra.Command {
	return newMarkCmd(markUncheck, "uncheck <habit>...", "Mark habits as not done for today", `Mark one or more habits as not done for today.

Examples:
  habits uncheck fasting`)
}

// NewToggleCmd creates the toggle command
func NewToggleCmd() *cobra.Command {
	return newMarkCmd(markToggle, "toggle <habit>...", "Flip habits for today", `Flip the state of one or more habits for today.

Examples:
  habits toggle prayer`)
}

func newMarkCmd(mode markMode, use, short, long string) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMark(cmd, args, mode, save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Record the day immediately")

	return cmd
}

func runMark(cmd *cobra.Command, args []string, mode markMode, save bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := applyToday(a.engine, save, func(s *journal.Session) error {
		for _, id := range args {
			var err error
			switch mode {
			case markCheck:
				err = s.Set(id, true)
			case markUncheck:
				err = s.Set(id, false)
			case markToggle:
				_, err = s.Toggle(id)
			}
			if err != nil {
				return fmt.Errorf("%w (run 'habits catalog' for valid IDs)", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	view := newTodayView(session, a.engine.Catalog())
	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), view)
	}
	if !quiet {
		printSession(cmd.OutOrStdout(), view)
	}
	return nil
}

// applyToday edits today's session under the engine lock, then records the
// day when save is set or keeps the result as a draft.
func applyToday(engine *journal.Engine, save bool, edit func(*journal.Session) error) (*journal.Session, error) {
	var (
		session *journal.Session
		err     error
		op      = "saving draft"
	)
	if save {
		op = "saving day"
		session, _, err = engine.RecordToday(edit)
	} else {
		session, err = engine.UpdateToday(edit)
	}
	if err == nil {
		return session, nil
	}

	var storageErr *journal.StorageError
	if errors.As(err, &storageErr) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nil, err
}
