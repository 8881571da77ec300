package out

import (
	"context"

	"smartlib/internal/modules/reading/domain"
)

type SessionAPI interface {
	// List returns records between from and to inclusive; both empty means all.
	List(ctx context.Context, from, to string) ([]domain.Record, error)
	Create(ctx context.Context, record domain.NewRecord) (domain.Record, error)
}

// Journal keeps a local Markdown trace of reconciled sessions.
type Journal interface {
	Write(ctx context.Context, r domain.Reconciliation) (string, error)
	// List reads notes back, oldest first. Empty bounds are open.
	List(ctx context.Context, from, to string) ([]domain.JournalNote, error)
}
