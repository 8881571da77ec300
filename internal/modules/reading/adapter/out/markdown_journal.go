package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"smartlib/internal/modules/reading/domain"
	readingout "smartlib/internal/modules/reading/port/out"
	"smartlib/internal/platform/id"
	"smartlib/internal/platform/markdown"
	"smartlib/internal/platform/slug"
)

// MarkdownJournal writes one note per reconciled session under dir/YYYY/MM/DD.
type MarkdownJournal struct {
	dir   string
	idGen id.Generator
}

func NewMarkdownJournal(dir string, idGen id.Generator) readingout.Journal {
	return &MarkdownJournal{dir: dir, idGen: idGen}
}

func (j *MarkdownJournal) Write(_ context.Context, rec domain.Reconciliation) (string, error) {
	at := rec.EndedAt
	if at.IsZero() {
		at = time.Now()
	}
	dir := filepath.Join(j.dir, at.Format("2006"), at.Format("01"), at.Format("02"))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	title := rec.Record.BookTitle
	if title == "" {
		title = fmt.Sprintf("book-%d", rec.Record.BookID)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", at.Format("150405"), slug.Make(title)))

	note := markdown.Note{
		Meta: map[string]any{
			"schema_version": domain.SchemaVersion,
			"id":             j.idGen.New(),
			"record_id":      rec.Record.ID,
			"book_id":        rec.Record.BookID,
			"book_title":     title,
			"session_date":   rec.Record.SessionDate,
			"minutes_read":   rec.Record.MinutesRead,
			"pages_read":     rec.Record.PagesRead,
			"previous_page":  rec.PreviousPage,
			"current_page":   rec.CurrentPage,
			"note":           rec.Record.Note,
		},
		Body: fmt.Sprintf("# %s\n\n- Date: %s\n- Minutes: %d\n- Pages: %d -> %d (+%d)\n",
			title, rec.Record.SessionDate, rec.Record.MinutesRead, rec.PreviousPage, rec.CurrentPage, rec.Record.PagesRead),
	}
	if !rec.StartedAt.IsZero() {
		note.Meta["started_at"] = rec.StartedAt.Format(time.RFC3339)
		note.Meta["ended_at"] = at.Format(time.RFC3339)
	}
	rendered, err := note.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

// List walks the journal tree. Files without a session date in their frontmatter are not notes
// and are skipped.
func (j *MarkdownJournal) List(_ context.Context, from, to string) ([]domain.JournalNote, error) {
	notes := []domain.JournalNote{}
	if _, err := os.Stat(j.dir); errors.Is(err, fs.ErrNotExist) {
		return notes, nil
	}
	err := filepath.WalkDir(j.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read journal note: %w", err)
		}
		note, err := markdown.Parse(string(raw))
		if err != nil {
			return nil
		}
		date := note.String("session_date")
		if date == "" || (from != "" && date < from) || (to != "" && date > to) {
			return nil
		}
		notes = append(notes, domain.JournalNote{
			Path:         path,
			RecordID:     int64(note.Int("record_id")),
			BookID:       int64(note.Int("book_id")),
			BookTitle:    note.String("book_title"),
			SessionDate:  date,
			MinutesRead:  note.Int("minutes_read"),
			PagesRead:    note.Int("pages_read"),
			PreviousPage: note.Int("previous_page"),
			CurrentPage:  note.Int("current_page"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk journal: %w", err)
	}
	sort.SliceStable(notes, func(a, b int) bool {
		if notes[a].SessionDate != notes[b].SessionDate {
			return notes[a].SessionDate < notes[b].SessionDate
		}
		return notes[a].Path < notes[b].Path
	})
	return notes, nil
}
