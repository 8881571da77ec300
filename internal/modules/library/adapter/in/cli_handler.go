package in

import (
	"context"

	"smartlib/internal/modules/library/dto"
	libraryin "smartlib/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, status string) ([]dto.EntryOutput, error) {
	return h.usecase.List(ctx, status)
}

func (h CLIHandler) Get(ctx context.Context, entryID int64) (dto.EntryOutput, error) {
	return h.usecase.Get(ctx, entryID)
}

func (h CLIHandler) Add(ctx context.Context, bookID int64, status string) ([]dto.EntryOutput, error) {
	return h.usecase.Add(ctx, dto.AddInput{BookID: bookID, Status: status})
}

func (h CLIHandler) SetStatus(ctx context.Context, entryID int64, status string) ([]dto.EntryOutput, error) {
	return h.usecase.Update(ctx, dto.UpdateInput{EntryID: entryID, Status: &status})
}

func (h CLIHandler) Rate(ctx context.Context, entryID int64, rating int) ([]dto.EntryOutput, error) {
	return h.usecase.Update(ctx, dto.UpdateInput{EntryID: entryID, Rating: &rating})
}

func (h CLIHandler) SetProgress(ctx context.Context, entryID int64, percent int) ([]dto.EntryOutput, error) {
	return h.usecase.Update(ctx, dto.UpdateInput{EntryID: entryID, ProgressPercent: &percent})
}

func (h CLIHandler) Remove(ctx context.Context, entryID int64) ([]dto.EntryOutput, error) {
	return h.usecase.Remove(ctx, entryID)
}

func (h CLIHandler) Find(ctx context.Context, text string) ([]dto.EntryOutput, error) {
	return h.usecase.Find(ctx, text)
}
