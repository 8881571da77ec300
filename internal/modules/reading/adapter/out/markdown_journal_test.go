package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	readingout "smartlib/internal/modules/reading/adapter/out"
	"smartlib/internal/modules/reading/domain"
	"smartlib/internal/platform/markdown"
)

type fixedID string

func (f fixedID) New() string { return string(f) }

func TestJournalWritesDatedNote(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ended := time.Date(2026, 3, 14, 21, 32, 5, 0, time.UTC)
	journal := readingout.NewMarkdownJournal(dir, fixedID("note-1"))

	path, err := journal.Write(context.Background(), domain.Reconciliation{
		Record:       domain.Record{ID: 77, BookID: 42, BookTitle: "Dune Messiah", SessionDate: "2026-03-14", MinutesRead: 2, PagesRead: 3, Note: domain.TimerNote},
		PreviousPage: 10,
		CurrentPage:  13,
		StartedAt:    ended.Add(-125 * time.Second),
		EndedAt:      ended,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026", "03", "14", "213205-dune-messiah.md"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	note, err := markdown.Parse(string(raw))
	require.NoError(t, err)
	assert.Equal(t, "note-1", note.String("id"))
	assert.Equal(t, "2026-03-14", note.String("session_date"))
	assert.Equal(t, 13, note.Meta["current_page"])
	assert.Equal(t, 3, note.Meta["pages_read"])
	assert.Equal(t, "2026-03-14T21:30:00Z", note.String("started_at"))
	assert.Contains(t, note.Body, "Pages: 10 -> 13 (+3)")
}

func TestJournalFallsBackToBookID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := readingout.NewMarkdownJournal(dir, fixedID("x")).Write(context.Background(), domain.Reconciliation{
		Record:  domain.Record{BookID: 8, SessionDate: "2026-01-01", MinutesRead: 1},
		EndedAt: time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "070000-book-8.md", filepath.Base(path))
}

func TestJournalListReadsNotesBackInRange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	journal := readingout.NewMarkdownJournal(dir, fixedID("n"))
	write := func(date string, hour, prev, cur int) {
		day, err := time.Parse("2006-01-02", date)
		require.NoError(t, err)
		_, err = journal.Write(context.Background(), domain.Reconciliation{
			Record:       domain.Record{ID: int64(hour), BookID: 42, BookTitle: "Dune", SessionDate: date, MinutesRead: 15, PagesRead: cur - prev},
			PreviousPage: prev,
			CurrentPage:  cur,
			EndedAt:      day.Add(time.Duration(hour) * time.Hour),
		})
		require.NoError(t, err)
	}
	write("2026-03-14", 21, 10, 13)
	write("2026-03-02", 8, 4, 10)
	write("2026-04-01", 9, 13, 20)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hand-written"), 0o600))

	notes, err := journal.List(context.Background(), "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "2026-03-02", notes[0].SessionDate)
	assert.Equal(t, 4, notes[0].PreviousPage)
	assert.Equal(t, 10, notes[0].CurrentPage)
	assert.Equal(t, "2026-03-14", notes[1].SessionDate)
	assert.Equal(t, int64(42), notes[1].BookID)
	assert.Equal(t, "Dune", notes[1].BookTitle)
	assert.Equal(t, 15, notes[1].MinutesRead)
	assert.Equal(t, 3, notes[1].PagesRead)
	assert.Equal(t, int64(21), notes[1].RecordID)

	all, err := journal.List(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestJournalListWithoutDirectory(t *testing.T) {
	t.Parallel()

	notes, err := readingout.NewMarkdownJournal(filepath.Join(t.TempDir(), "none"), fixedID("x")).List(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, notes)
}
