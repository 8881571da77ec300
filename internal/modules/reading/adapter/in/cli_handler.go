package in

import (
	"context"

	librarydto "smartlib/internal/modules/library/dto"
	"smartlib/internal/modules/reading/dto"
	readingin "smartlib/internal/modules/reading/port/in"
)

type CLIHandler struct {
	usecase readingin.Usecase
}

func NewCLIHandler(usecase readingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, entryID, bookID int64, bookTitle string) (dto.StateOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{EntryID: entryID, BookID: bookID, BookTitle: bookTitle})
}

func (h CLIHandler) RequestStop(ctx context.Context, entryID int64) (dto.StateOutput, error) {
	return h.usecase.RequestStop(ctx, entryID)
}

func (h CLIHandler) ConfirmStop(ctx context.Context, currentPage int) (dto.ReconcileOutput, []librarydto.EntryOutput, error) {
	return h.usecase.ConfirmStop(ctx, dto.ConfirmInput{CurrentPage: currentPage})
}

func (h CLIHandler) CancelStop(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.CancelStop(ctx)
}

func (h CLIHandler) Finish(ctx context.Context, entryID int64) ([]librarydto.EntryOutput, error) {
	return h.usecase.Finish(ctx, entryID)
}

func (h CLIHandler) Drop(ctx context.Context, entryID int64) ([]librarydto.EntryOutput, error) {
	return h.usecase.Drop(ctx, entryID)
}

func (h CLIHandler) Abandon(ctx context.Context) {
	h.usecase.Abandon(ctx)
}

func (h CLIHandler) State(ctx context.Context) dto.StateOutput {
	return h.usecase.State(ctx)
}

func (h CLIHandler) Sessions(ctx context.Context, from, to string) ([]dto.RecordOutput, error) {
	return h.usecase.Sessions(ctx, dto.SessionsInput{From: from, To: to})
}

func (h CLIHandler) JournalNotes(ctx context.Context, from, to string) ([]dto.JournalOutput, error) {
	return h.usecase.JournalNotes(ctx, dto.SessionsInput{From: from, To: to})
}

func (h CLIHandler) Log(ctx context.Context, bookID int64, date string, minutes, pages int, note string) (dto.RecordOutput, error) {
	return h.usecase.Log(ctx, dto.LogInput{BookID: bookID, SessionDate: date, MinutesRead: minutes, PagesRead: pages, Note: note})
}

func (h CLIHandler) Cursor(ctx context.Context, bookID int64) (int, error) {
	return h.usecase.Cursor(ctx, bookID)
}
