package out

import (
	"context"

	"smartlib/internal/modules/library/domain"
)

type EntryAPI interface {
	List(ctx context.Context, status domain.Status) ([]domain.Entry, error)
	Add(ctx context.Context, bookID int64, status domain.Status) error
	Update(ctx context.Context, entryID int64, patch domain.Patch) error
	Remove(ctx context.Context, entryID int64) error
}

// EntryIndex is the local lookup table used to resolve titles typed by the user.
type EntryIndex interface {
	Replace(ctx context.Context, entries []domain.Entry) error
	Upsert(ctx context.Context, entries []domain.Entry) error
	Find(ctx context.Context, text string) ([]domain.Entry, error)
}
