package usecase

import (
	"context"
	"strings"

	"smartlib/internal/modules/library/domain"
	"smartlib/internal/modules/library/dto"
	libraryin "smartlib/internal/modules/library/port/in"
	"smartlib/internal/modules/library/service"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/validation"
)

type Interactor struct {
	svc       *service.EntryService
	validator *validation.Validator
}

func NewInteractor(svc *service.EntryService, validator *validation.Validator) libraryin.Usecase {
	return &Interactor{svc: svc, validator: validator}
}

func (i *Interactor) List(ctx context.Context, status string) ([]dto.EntryOutput, error) {
	var filter domain.Status
	if strings.TrimSpace(status) != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}
	entries, err := i.svc.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toOutputs(entries), nil
}

func (i *Interactor) Get(ctx context.Context, entryID int64) (dto.EntryOutput, error) {
	entry, err := i.svc.Get(ctx, entryID)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) ([]dto.EntryOutput, error) {
	if err := i.validator.Validate(input); err != nil {
		return nil, err
	}
	var status domain.Status
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	entries, err := i.svc.Add(ctx, input.BookID, status)
	if err != nil {
		return nil, err
	}
	return toOutputs(entries), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) ([]dto.EntryOutput, error) {
	if err := i.validator.Validate(input); err != nil {
		return nil, err
	}
	patch := domain.Patch{Rating: input.Rating, ProgressPercent: input.ProgressPercent}
	if input.Status != nil {
		status, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		patch.Status = &status
	}
	entries, err := i.svc.Update(ctx, input.EntryID, patch)
	if err != nil {
		return nil, err
	}
	return toOutputs(entries), nil
}

func (i *Interactor) Remove(ctx context.Context, entryID int64) ([]dto.EntryOutput, error) {
	if entryID <= 0 {
		return nil, apperrors.Validation("entry id must be positive")
	}
	entries, err := i.svc.Remove(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return toOutputs(entries), nil
}

func (i *Interactor) Find(ctx context.Context, text string) ([]dto.EntryOutput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validation("search text is required")
	}
	entries, err := i.svc.Find(ctx, text)
	if err != nil {
		return nil, err
	}
	return toOutputs(entries), nil
}

func toOutputs(entries []domain.Entry) []dto.EntryOutput {
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toOutput(e))
	}
	return out
}

func toOutput(e domain.Entry) dto.EntryOutput {
	return dto.EntryOutput{
		ID:              e.ID,
		BookID:          e.BookID,
		Title:           e.Title,
		Author:          e.Author,
		ImageURL:        e.ImageURL,
		Status:          string(e.Status),
		Rating:          e.Rating,
		ProgressPercent: e.ProgressPercent,
		StartedAt:       e.StartedAt,
		FinishedAt:      e.FinishedAt,
	}
}
