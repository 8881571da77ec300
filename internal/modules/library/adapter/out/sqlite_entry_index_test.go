package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libraryout "smartlib/internal/modules/library/adapter/out"
	"smartlib/internal/modules/library/domain"
	"smartlib/internal/platform/clock"
)

type fixedClock struct {
	clock.SystemClock
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

func newIndex(t *testing.T, dbPath string) *libraryout.SQLiteEntryIndex {
	t.Helper()
	idx, err := libraryout.NewSQLiteEntryIndex(dbPath, fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestEntryIndexReplaceAndFind(t *testing.T) {
	t.Parallel()
	idx := newIndex(t, filepath.Join(t.TempDir(), "smartlib.db"))
	ctx := context.Background()

	require.NoError(t, idx.Replace(ctx, []domain.Entry{
		{ID: 1, BookID: 10, Title: "Dune", Author: "Frank Herbert", Status: domain.StatusReading},
		{ID: 2, BookID: 11, Title: "Children of Dune", Author: "Frank Herbert", Status: domain.StatusToRead},
		{ID: 3, BookID: 12, Title: "Atomic Habits", Author: "James Clear", Status: domain.StatusFinished, Rating: 5},
	}))

	found, err := idx.Find(ctx, "DUNE")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Children of Dune", found[0].Title)
	assert.Equal(t, "Dune", found[1].Title)

	byAuthor, err := idx.Find(ctx, "clear")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, int64(12), byAuthor[0].BookID)
	assert.Equal(t, domain.StatusFinished, byAuthor[0].Status)
	assert.Equal(t, 5, byAuthor[0].Rating)

	require.NoError(t, idx.Replace(ctx, []domain.Entry{{ID: 3, BookID: 12, Title: "Atomic Habits", Status: domain.StatusFinished}}))
	gone, err := idx.Find(ctx, "dune")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestEntryIndexUpsertKeepsOtherRows(t *testing.T) {
	t.Parallel()
	idx := newIndex(t, filepath.Join(t.TempDir(), "smartlib.db"))
	ctx := context.Background()

	require.NoError(t, idx.Replace(ctx, []domain.Entry{{ID: 1, BookID: 10, Title: "Dune", Status: domain.StatusReading}}))
	require.NoError(t, idx.Upsert(ctx, []domain.Entry{
		{ID: 1, BookID: 10, Title: "Dune", Status: domain.StatusFinished},
		{ID: 4, BookID: 20, Title: "Neuromancer", Status: domain.StatusFinished},
	}))

	dune, err := idx.Find(ctx, "dune")
	require.NoError(t, err)
	require.Len(t, dune, 1)
	assert.Equal(t, domain.StatusFinished, dune[0].Status)

	all, err := idx.Find(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEntryIndexEscapesLikeWildcards(t *testing.T) {
	t.Parallel()
	idx := newIndex(t, filepath.Join(t.TempDir(), "smartlib.db"))
	ctx := context.Background()
	require.NoError(t, idx.Replace(ctx, []domain.Entry{
		{ID: 1, BookID: 1, Title: "100% Go", Status: domain.StatusToRead},
		{ID: 2, BookID: 2, Title: "1000 Go tips", Status: domain.StatusToRead},
	}))

	found, err := idx.Find(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% Go", found[0].Title)
}

func TestEntryIndexMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "nested", "smartlib.db")
	first, err := libraryout.NewSQLiteEntryIndex(dbPath, fixedClock{})
	require.NoError(t, err)
	require.NoError(t, first.Replace(context.Background(), []domain.Entry{{ID: 1, Title: "Dune", Status: domain.StatusReading}}))
	require.NoError(t, first.Close())

	second := newIndex(t, dbPath)
	found, err := second.Find(context.Background(), "dune")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
