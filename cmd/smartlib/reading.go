package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"smartlib/internal/bootstrap"
	dashdto "smartlib/internal/modules/dashboard/dto"
	libdto "smartlib/internal/modules/library/dto"
	readingdto "smartlib/internal/modules/reading/dto"
)

func newSessionCmd(flags *globalFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Reading session history"}

	var from, to string
	var fromJournal bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded reading sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			if fromJournal {
				notes, err := app.ReadingCLI.JournalNotes(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				printJournal(cmd.OutOrStdout(), notes)
				return nil
			}
			records, err := app.ReadingCLI.Sessions(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%dmin\t+%dp\t%s\n", r.ID, r.SessionDate, bookLabel(r), r.MinutesRead, r.PagesRead, r.Note)
			}
			return nil
		},
	}
	list.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (needs --to)")
	list.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (needs --from)")
	list.Flags().BoolVar(&fromJournal, "journal", false, "read the local journal instead of the server")

	var bookID int64
	var date, note string
	var minutes, pages int
	logCmd := &cobra.Command{
		Use:   "log --book-id <id> --minutes <n>",
		Short: "Record a session read away from the timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			r, err := app.ReadingCLI.Log(cmd.Context(), bookID, date, minutes, pages, note)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session recorded: %d %s %dmin +%dp\n", r.ID, r.SessionDate, r.MinutesRead, r.PagesRead)
			return nil
		},
	}
	logCmd.Flags().Int64Var(&bookID, "book-id", 0, "catalog book id")
	logCmd.Flags().StringVar(&date, "date", "", "session day, YYYY-MM-DD (today when empty)")
	logCmd.Flags().IntVar(&minutes, "minutes", 0, "minutes read")
	logCmd.Flags().IntVar(&pages, "pages", 0, "pages read")
	logCmd.Flags().StringVar(&note, "note", "", "free-form note")

	session.AddCommand(list, logCmd)
	return session
}

func newReadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "read <entryId>",
		Short: "Time a reading session for a library entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0], "entryId")
			if err != nil {
				return err
			}
			app, cleanup, err := loadApp(flags, true)
			if err != nil {
				return err
			}
			defer cleanup()
			result, err := bootstrap.RunReader(app, readingdto.StartInput{EntryID: entryID})
			if err != nil {
				return err
			}
			if result == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session discarded")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session saved: %s %dmin pages %d -> %d (+%d)\n",
				result.Record.SessionDate, result.Record.MinutesRead, result.PreviousPage, result.CurrentPage, result.Record.PagesRead)
			if result.JournalPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "journal: %s\n", result.JournalPath)
			}
			return nil
		},
	}
}

func newFinishCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "finish <entryId>",
		Short: "Mark an entry finished",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0], "entryId")
			if err != nil {
				return err
			}
			return readingChange(cmd, flags, func(app *bootstrap.App) ([]libdto.EntryOutput, error) {
				return app.ReadingCLI.Finish(cmd.Context(), entryID)
			})
		},
	}
}

func newDropCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <entryId>",
		Short: "Mark an entry dropped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0], "entryId")
			if err != nil {
				return err
			}
			return readingChange(cmd, flags, func(app *bootstrap.App) ([]libdto.EntryOutput, error) {
				return app.ReadingCLI.Drop(cmd.Context(), entryID)
			})
		},
	}
}

func readingChange(cmd *cobra.Command, flags *globalFlags, change func(*bootstrap.App) ([]libdto.EntryOutput, error)) error {
	app, cleanup, err := loadApp(flags, false)
	if err != nil {
		return err
	}
	defer cleanup()
	entries, err := change(app)
	if err != nil {
		return err
	}
	printEntries(cmd.OutOrStdout(), entries)
	return nil
}

func newDashboardCmd(flags *globalFlags) *cobra.Command {
	var remote, asJSON bool
	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Show reading statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			p, err := app.DashboardCLI.Projection(cmd.Context(), remote)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			printProjection(cmd.OutOrStdout(), p)
			return nil
		},
	}
	dashboard.Flags().BoolVar(&remote, "remote", false, "use the server-side dashboard instead of computing it locally")
	dashboard.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return dashboard
}

func newGoalsCmd(flags *globalFlags) *cobra.Command {
	goals := &cobra.Command{Use: "goals", Short: "Reading goals"}
	goals.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			g, err := app.DashboardCLI.Goals(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "books per month: %d\nminutes per day: %d\n", g.BooksPerMonth, g.MinutesPerDay)
			return nil
		},
	})
	goals.AddCommand(&cobra.Command{
		Use:   "set <books-per-month> <minutes-per-day>",
		Short: "Replace the goals",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("books-per-month must be a number: %q", args[0])
			}
			minutes, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("minutes-per-day must be a number: %q", args[1])
			}
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			g, err := app.DashboardCLI.SetGoals(cmd.Context(), books, minutes)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goals set: %d books/month, %d min/day\n", g.BooksPerMonth, g.MinutesPerDay)
			return nil
		},
	})
	return goals
}

func printProjection(w io.Writer, p dashdto.ProjectionOutput) {
	_, _ = fmt.Fprintf(w, "books: %d total, %d to read, %d reading, %d finished, %d dropped\n",
		p.TotalBooks, p.ToReadBooks, p.ReadingBooks, p.FinishedBooks, p.DroppedBooks)
	_, _ = fmt.Fprintf(w, "today: %d/%d min\n", p.MinutesReadToday, p.MinutesPerDayGoal)
	_, _ = fmt.Fprintf(w, "this month: %d min, goal %d books\n", p.MinutesReadThisMonth, p.BooksPerMonthGoal)
	if len(p.MonthlyFinished) > 0 {
		_, _ = fmt.Fprintln(w, "\nfinished per month")
		for _, m := range p.MonthlyFinished {
			_, _ = fmt.Fprintf(w, "  %s  %-12s %d\n", m.Month, strings.Repeat("#", min(m.Count, 12)), m.Count)
		}
	}
	if len(p.RecentSessions) > 0 {
		_, _ = fmt.Fprintln(w, "\nrecent sessions")
		for _, s := range p.RecentSessions {
			title := s.BookTitle
			if title == "" {
				title = "book " + strconv.FormatInt(s.BookID, 10)
			}
			_, _ = fmt.Fprintf(w, "  %s  %s  %dmin  +%dp\n", s.SessionDate, title, s.MinutesRead, s.PagesRead)
		}
	}
}

func printJournal(w io.Writer, notes []readingdto.JournalOutput) {
	if len(notes) == 0 {
		_, _ = fmt.Fprintln(w, "no journal notes")
		return
	}
	for _, n := range notes {
		title := n.BookTitle
		if title == "" {
			title = "book " + strconv.FormatInt(n.BookID, 10)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%dmin\tp%d -> p%d\t%s\n", n.SessionDate, title, n.MinutesRead, n.PreviousPage, n.CurrentPage, n.Path)
	}
}

func bookLabel(r readingdto.RecordOutput) string {
	if r.BookTitle != "" {
		return r.BookTitle
	}
	return "book " + strconv.FormatInt(r.BookID, 10)
}
