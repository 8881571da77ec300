package usecase

import (
	"context"
	"strings"

	authin "smartlib/internal/modules/auth/port/in"
	librarydto "smartlib/internal/modules/library/dto"
	libraryin "smartlib/internal/modules/library/port/in"
	"smartlib/internal/modules/reading/domain"
	"smartlib/internal/modules/reading/dto"
	readingin "smartlib/internal/modules/reading/port/in"
	readingout "smartlib/internal/modules/reading/port/out"
	"smartlib/internal/modules/reading/service"
	"smartlib/internal/platform/clock"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/validation"
)

type Interactor struct {
	engine    *service.Engine
	api       readingout.SessionAPI
	auth      authin.Usecase
	library   libraryin.Usecase
	clock     clock.Clock
	validator *validation.Validator
}

func NewInteractor(engine *service.Engine, api readingout.SessionAPI, auth authin.Usecase, library libraryin.Usecase, clk clock.Clock, validator *validation.Validator) readingin.Usecase {
	return &Interactor{engine: engine, api: api, auth: auth, library: library, clock: clk, validator: validator}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StateOutput, error) {
	if err := i.requireAuth(ctx); err != nil {
		return dto.StateOutput{}, err
	}
	if err := i.validator.Validate(input); err != nil {
		return dto.StateOutput{}, err
	}
	if held := i.engine.Snapshot(); held.Holds(input.EntryID) {
		return toState(held), nil
	}
	if input.BookID == 0 || strings.TrimSpace(input.BookTitle) == "" {
		entry, err := i.library.Get(ctx, input.EntryID)
		if err != nil {
			return dto.StateOutput{}, err
		}
		input.BookID = entry.BookID
		input.BookTitle = entry.Title
	}
	snap, err := i.engine.Start(input.EntryID, input.BookID, input.BookTitle)
	return toState(snap), err
}

func (i *Interactor) RequestStop(ctx context.Context, entryID int64) (dto.StateOutput, error) {
	if err := i.requireAuth(ctx); err != nil {
		return dto.StateOutput{}, err
	}
	snap, err := i.engine.RequestStop(ctx, entryID)
	return toState(snap), err
}

func (i *Interactor) ConfirmStop(ctx context.Context, input dto.ConfirmInput) (dto.ReconcileOutput, []librarydto.EntryOutput, error) {
	if err := i.requireAuth(ctx); err != nil {
		return dto.ReconcileOutput{}, nil, err
	}
	rec, entries, err := i.engine.ConfirmStop(ctx, input.CurrentPage)
	if err != nil {
		return dto.ReconcileOutput{}, nil, err
	}
	path := i.engine.Journal(ctx, rec)
	return dto.ReconcileOutput{
		Record:       toRecord(rec.Record),
		PreviousPage: rec.PreviousPage,
		CurrentPage:  rec.CurrentPage,
		JournalPath:  path,
	}, entries, nil
}

func (i *Interactor) CancelStop(context.Context) (dto.StateOutput, error) {
	snap, err := i.engine.CancelStop()
	return toState(snap), err
}

func (i *Interactor) Finish(ctx context.Context, entryID int64) ([]librarydto.EntryOutput, error) {
	return i.engine.Finish(ctx, entryID)
}

func (i *Interactor) Drop(ctx context.Context, entryID int64) ([]librarydto.EntryOutput, error) {
	return i.engine.Drop(ctx, entryID)
}

func (i *Interactor) Abandon(context.Context) {
	i.engine.Abandon()
}

func (i *Interactor) State(context.Context) dto.StateOutput {
	return toState(i.engine.Snapshot())
}

func (i *Interactor) Sessions(ctx context.Context, input dto.SessionsInput) ([]dto.RecordOutput, error) {
	if err := i.checkRange(input); err != nil {
		return nil, err
	}
	records, err := i.api.List(ctx, input.From, input.To)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toRecord(r))
	}
	return out, nil
}

func (i *Interactor) JournalNotes(ctx context.Context, input dto.SessionsInput) ([]dto.JournalOutput, error) {
	if err := i.checkRange(input); err != nil {
		return nil, err
	}
	notes, err := i.engine.JournalNotes(ctx, input.From, input.To)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JournalOutput, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.JournalOutput{
			Path:         n.Path,
			BookID:       n.BookID,
			BookTitle:    n.BookTitle,
			SessionDate:  n.SessionDate,
			MinutesRead:  n.MinutesRead,
			PagesRead:    n.PagesRead,
			PreviousPage: n.PreviousPage,
			CurrentPage:  n.CurrentPage,
		})
	}
	return out, nil
}

func (i *Interactor) checkRange(input dto.SessionsInput) error {
	if err := i.validator.Validate(input); err != nil {
		return err
	}
	if (input.From == "") != (input.To == "") {
		return apperrors.Validation("from and to must be given together")
	}
	if input.From != "" && input.From > input.To {
		return apperrors.Validation("from must not be after to")
	}
	return nil
}

// Log records a session read away from the timer.
func (i *Interactor) Log(ctx context.Context, input dto.LogInput) (dto.RecordOutput, error) {
	if err := i.validator.Validate(input); err != nil {
		return dto.RecordOutput{}, err
	}
	date := input.SessionDate
	if date == "" {
		date = i.clock.Now().Format(clock.DateLayout)
	}
	record, err := i.api.Create(ctx, domain.NewRecord{
		BookID:      input.BookID,
		SessionDate: date,
		MinutesRead: input.MinutesRead,
		PagesRead:   input.PagesRead,
		Note:        strings.TrimSpace(input.Note),
	})
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return toRecord(record), nil
}

func (i *Interactor) Cursor(ctx context.Context, bookID int64) (int, error) {
	return i.engine.Cursor(ctx, bookID)
}

func (i *Interactor) requireAuth(ctx context.Context) error {
	if i.auth != nil && !i.auth.Status(ctx).Authenticated {
		return apperrors.Unauthenticated()
	}
	return nil
}

func toState(s domain.Snapshot) dto.StateOutput {
	return dto.StateOutput{
		Phase:          s.Phase.String(),
		EntryID:        s.EntryID,
		BookID:         s.BookID,
		BookTitle:      s.BookTitle,
		StartedAt:      s.StartedAt,
		ElapsedSeconds: s.ElapsedSeconds,
		ProposedPage:   s.ProposedPage,
		PreviousPage:   s.PreviousPage,
	}
}

func toRecord(r domain.Record) dto.RecordOutput {
	return dto.RecordOutput{
		ID:          r.ID,
		BookID:      r.BookID,
		BookTitle:   r.BookTitle,
		SessionDate: r.SessionDate,
		MinutesRead: r.MinutesRead,
		PagesRead:   r.PagesRead,
		Note:        r.Note,
	}
}
