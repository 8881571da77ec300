package in

import (
	"context"

	librarydto "smartlib/internal/modules/library/dto"
	"smartlib/internal/modules/reading/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StateOutput, error)
	RequestStop(ctx context.Context, entryID int64) (dto.StateOutput, error)
	ConfirmStop(ctx context.Context, input dto.ConfirmInput) (dto.ReconcileOutput, []librarydto.EntryOutput, error)
	CancelStop(ctx context.Context) (dto.StateOutput, error)
	Finish(ctx context.Context, entryID int64) ([]librarydto.EntryOutput, error)
	Drop(ctx context.Context, entryID int64) ([]librarydto.EntryOutput, error)
	// Abandon discards the current session, if any, without saving it.
	Abandon(ctx context.Context)
	State(ctx context.Context) dto.StateOutput
	Sessions(ctx context.Context, input dto.SessionsInput) ([]dto.RecordOutput, error)
	// JournalNotes reads the local journal instead of the server.
	JournalNotes(ctx context.Context, input dto.SessionsInput) ([]dto.JournalOutput, error)
	Log(ctx context.Context, input dto.LogInput) (dto.RecordOutput, error)
	Cursor(ctx context.Context, bookID int64) (int, error)
}
