package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/format"
	"github.com/claude/workoutlog/internal/logbook"
	"github.com/claude/workoutlog/internal/parser"
	"github.com/spf13/cobra"
)

func (a *app) newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format [FILE...]",
		Short: "Print JSONL records in readable form",
		Long: `Print one readable line per record. Reads the given JSONL files in
order, or standard input when none are given. Malformed lines are skipped.

  cat ~/repos/fitness/db/2026/02/16.jsonl | workoutlog format`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := format.Stream(a.stdin, a.stdout, a.log)
				return err
			}
			for _, path := range args {
				if err := a.formatFile(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) formatFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := format.Stream(f, a.stdout, a.log); err != nil {
		return fmt.Errorf("formatting %s: %w", path, err)
	}
	return nil
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [DATE]",
		Short: "Show the entries logged on a day",
		Long: `Show the entries logged on a day. DATE is "today" (the default),
"yesterday" or YYYY-MM-DD, in Pacific time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			date, err := parser.ResolveDate(token, time.Now())
			if err != nil {
				return err
			}

			records, err := logbook.ReadDay(a.cfg.Logbook.Root, date, a.log)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(a.stdout, "No entries for %s\n", date)
				return nil
			}
			for i := range records {
				fmt.Fprintln(a.stdout, format.Record(&records[i]))
			}
			return nil
		},
	}
}

func (a *app) newExercisesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exercises",
		Short: "List recognized exercises and their aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var current exercises.Category
			for _, e := range exercises.Catalog() {
				if e.Category != current {
					if current != "" {
						fmt.Fprintln(a.stdout)
					}
					current = e.Category
					fmt.Fprintf(a.stdout, "%s:\n", format.Name(string(current)))
				}
				fmt.Fprintf(a.stdout, "  %-22s %s\n", e.ID, strings.Join(e.Aliases, ", "))
			}
			return nil
		},
	}
}
