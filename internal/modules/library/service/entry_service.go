package service

import (
	"context"
	"log/slog"

	"smartlib/internal/modules/library/domain"
	libraryout "smartlib/internal/modules/library/port/out"
	apperrors "smartlib/internal/platform/errors"
)

type EntryService struct {
	api    libraryout.EntryAPI
	index  libraryout.EntryIndex
	logger *slog.Logger
}

func NewEntryService(api libraryout.EntryAPI, index libraryout.EntryIndex, logger *slog.Logger) *EntryService {
	return &EntryService{api: api, index: index, logger: logger}
}

// List fetches from the server and mirrors the result into the lookup index. Index failures
// are logged; the server answer is still returned.
func (s *EntryService) List(ctx context.Context, status domain.Status) ([]domain.Entry, error) {
	entries, err := s.api.List(ctx, status)
	if err != nil {
		return nil, err
	}
	if s.index != nil {
		refresh := s.index.Replace
		if status != "" {
			refresh = s.index.Upsert
		}
		if err := refresh(ctx, entries); err != nil {
			s.logger.Warn("refresh library index", "error", err)
		}
	}
	return entries, nil
}

func (s *EntryService) Get(ctx context.Context, entryID int64) (domain.Entry, error) {
	entries, err := s.List(ctx, "")
	if err != nil {
		return domain.Entry{}, err
	}
	entry, ok := domain.FindByID(entries, entryID)
	if !ok {
		return domain.Entry{}, apperrors.NotFound("library entry %d not found", entryID)
	}
	return entry, nil
}

func (s *EntryService) Add(ctx context.Context, bookID int64, status domain.Status) ([]domain.Entry, error) {
	if status == "" {
		status = domain.StatusToRead
	}
	if err := s.api.Add(ctx, bookID, status); err != nil {
		return nil, err
	}
	return s.List(ctx, "")
}

func (s *EntryService) Update(ctx context.Context, entryID int64, patch domain.Patch) ([]domain.Entry, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if err := s.api.Update(ctx, entryID, patch); err != nil {
		return nil, err
	}
	return s.List(ctx, "")
}

func (s *EntryService) Remove(ctx context.Context, entryID int64) ([]domain.Entry, error) {
	if err := s.api.Remove(ctx, entryID); err != nil {
		return nil, err
	}
	return s.List(ctx, "")
}

func (s *EntryService) Find(ctx context.Context, text string) ([]domain.Entry, error) {
	if s.index == nil {
		return nil, nil
	}
	return s.index.Find(ctx, text)
}
