package in

import (
	"context"

	"smartlib/internal/modules/library/dto"
)

// Usecase manages the personal library. Every write returns the list fetched after the write.
type Usecase interface {
	List(ctx context.Context, status string) ([]dto.EntryOutput, error)
	Get(ctx context.Context, entryID int64) (dto.EntryOutput, error)
	Add(ctx context.Context, input dto.AddInput) ([]dto.EntryOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) ([]dto.EntryOutput, error)
	Remove(ctx context.Context, entryID int64) ([]dto.EntryOutput, error)
	Find(ctx context.Context, text string) ([]dto.EntryOutput, error)
}
