package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	catalogdto "smartlib/internal/modules/catalog/dto"
	libdto "smartlib/internal/modules/library/dto"
)

func newBooksCmd(flags *globalFlags) *cobra.Command {
	books := &cobra.Command{Use: "books", Short: "Browse the library catalog"}

	var query string
	var available bool
	var page, size int
	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			out, err := app.CatalogCLI.ListBooks(cmd.Context(), query, available, page, size)
			if err != nil {
				return err
			}
			if len(out.Books) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no books")
				return nil
			}
			for _, b := range out.Books {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d/%d available\n", b.ID, b.Title, b.Author, b.AvailableCopies, b.TotalCopies)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d books)\n", out.Page+1, max(out.TotalPages, 1), out.TotalElements)
			return nil
		},
	}
	list.Flags().StringVar(&query, "query", "", "title or author keyword")
	list.Flags().BoolVar(&available, "available", false, "only books with a free copy")
	list.Flags().IntVar(&page, "page", 0, "zero-based page")
	list.Flags().IntVar(&size, "size", 20, "page size")

	show := &cobra.Command{
		Use:   "show <bookId>",
		Short: "Show one catalog book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0], "bookId")
			if err != nil {
				return err
			}
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			b, err := app.CatalogCLI.GetBook(cmd.Context(), bookID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %d\ntitle: %s\nauthor: %s\nisbn: %s\ncopies: %d/%d available\n", b.ID, b.Title, b.Author, b.ISBN, b.AvailableCopies, b.TotalCopies)
			if strings.TrimSpace(b.Description) != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\n"+b.Description)
			}
			return nil
		},
	}

	books.AddCommand(list, show)
	return books
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var topK int
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			hits, err := app.CatalogCLI.Search(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			printHits(cmd.OutOrStdout(), hits)
			return nil
		},
	}
	search.Flags().IntVar(&topK, "top", 0, "number of results (server default when 0)")
	return search
}

func newRecommendCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Suggest books similar to the ones you liked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			entries, err := app.LibraryCLI.List(cmd.Context(), "")
			if err != nil {
				return err
			}
			candidates := make([]catalogdto.Candidate, 0, len(entries))
			for _, e := range entries {
				candidates = append(candidates, catalogdto.Candidate{Title: e.Title, Author: e.Author, Status: e.Status, Rating: e.Rating})
			}
			out := app.CatalogCLI.Recommend(cmd.Context(), candidates)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "because of: %s\n", out.Seed)
			printHits(cmd.OutOrStdout(), out.Hits)
			return nil
		},
	}
}

func newLibraryCmd(flags *globalFlags) *cobra.Command {
	library := &cobra.Command{Use: "library", Short: "Your personal library"}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List library entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			entries, err := app.LibraryCLI.List(cmd.Context(), status)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "TO_READ|READING|FINISHED|DROPPED")

	var addStatus string
	add := &cobra.Command{
		Use:   "add <bookId>",
		Short: "Add a catalog book to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0], "bookId")
			if err != nil {
				return err
			}
			return libraryWrite(cmd, flags, func(app libraryCLI) ([]libdto.EntryOutput, error) {
				return app.Add(cmd.Context(), bookID, addStatus)
			})
		},
	}
	add.Flags().StringVar(&addStatus, "status", "", "initial status (TO_READ when empty)")

	setStatus := &cobra.Command{
		Use:   "status <entryId> <status>",
		Short: "Change the reading status of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0], "entryId")
			if err != nil {
				return err
			}
			return libraryWrite(cmd, flags, func(app libraryCLI) ([]libdto.EntryOutput, error) {
				return app.SetStatus(cmd.Context(), entryID, strings.ToUpper(args[1]))
			})
		},
	}

	rate := &cobra.Command{
		Use:   "rate <entryId> <1-5>",
		Short: "Rate an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0], "entryId")
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number: %q", args[1])
			}
			return libraryWrite(cmd, flags, func(app libraryCLI) ([]libdto.EntryOutput, error) {
				return app.Rate(cmd.Context(), entryID, rating)
			})
		},
	}

	progress := &cobra.Command{
		Use:   "progress <entryId> <0-100>",
		Short: "Set the progress percentage of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0], "entryId")
			if err != nil {
				return err
			}
			percent, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("progress must be a number: %q", args[1])
			}
			return libraryWrite(cmd, flags, func(app libraryCLI) ([]libdto.EntryOutput, error) {
				return app.SetProgress(cmd.Context(), entryID, percent)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <entryId>",
		Short: "Remove an entry from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0], "entryId")
			if err != nil {
				return err
			}
			return libraryWrite(cmd, flags, func(app libraryCLI) ([]libdto.EntryOutput, error) {
				return app.Remove(cmd.Context(), entryID)
			})
		},
	}

	find := &cobra.Command{
		Use:   "find <text>",
		Short: "Search the local library index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			entries, err := app.LibraryCLI.Find(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	library.AddCommand(list, add, setStatus, rate, progress, remove, find)
	return library
}

// libraryCLI is the part of the library handler the write commands use.
type libraryCLI interface {
	Add(ctx context.Context, bookID int64, status string) ([]libdto.EntryOutput, error)
	SetStatus(ctx context.Context, entryID int64, status string) ([]libdto.EntryOutput, error)
	Rate(ctx context.Context, entryID int64, rating int) ([]libdto.EntryOutput, error)
	SetProgress(ctx context.Context, entryID int64, percent int) ([]libdto.EntryOutput, error)
	Remove(ctx context.Context, entryID int64) ([]libdto.EntryOutput, error)
}

// libraryWrite runs a write and prints the library as the server now reports it.
func libraryWrite(cmd *cobra.Command, flags *globalFlags, write func(libraryCLI) ([]libdto.EntryOutput, error)) error {
	app, cleanup, err := loadApp(flags, false)
	if err != nil {
		return err
	}
	defer cleanup()
	entries, err := write(app.LibraryCLI)
	if err != nil {
		return err
	}
	printEntries(cmd.OutOrStdout(), entries)
	return nil
}

func printEntries(w io.Writer, entries []libdto.EntryOutput) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "no entries")
		return
	}
	for _, e := range entries {
		rating := "-"
		if e.Rating > 0 {
			rating = strconv.Itoa(e.Rating) + "/5"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d%%\t%s\t%s\n", e.ID, e.Status, e.Title, e.ProgressPercent, rating, e.Author)
	}
}

func printHits(w io.Writer, hits []catalogdto.SearchHitOutput) {
	if len(hits) == 0 {
		_, _ = fmt.Fprintln(w, "no matches")
		return
	}
	for _, h := range hits {
		_, _ = fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\n", h.ID, h.Score, h.Title, h.Author)
	}
}

func parseID(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return v, nil
}
