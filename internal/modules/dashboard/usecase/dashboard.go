package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"smartlib/internal/modules/dashboard/domain"
	"smartlib/internal/modules/dashboard/dto"
	dashboardin "smartlib/internal/modules/dashboard/port/in"
	dashboardout "smartlib/internal/modules/dashboard/port/out"
	libraryin "smartlib/internal/modules/library/port/in"
	readingdto "smartlib/internal/modules/reading/dto"
	readingin "smartlib/internal/modules/reading/port/in"
	"smartlib/internal/platform/clock"
	"smartlib/internal/platform/validation"
)

type Interactor struct {
	api       dashboardout.DashboardAPI
	library   libraryin.Usecase
	reading   readingin.Usecase
	clock     clock.Clock
	validator *validation.Validator
}

func NewInteractor(api dashboardout.DashboardAPI, library libraryin.Usecase, reading readingin.Usecase, clk clock.Clock, validator *validation.Validator) dashboardin.Usecase {
	return &Interactor{api: api, library: library, reading: reading, clock: clk, validator: validator}
}

func (i *Interactor) Projection(ctx context.Context) (dto.ProjectionOutput, error) {
	var (
		entries  []domain.Entry
		sessions []domain.Session
		goals    domain.Goals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := i.library.List(gctx, "")
		if err != nil {
			return err
		}
		entries = make([]domain.Entry, 0, len(list))
		for _, e := range list {
			entries = append(entries, domain.Entry{Status: e.Status, FinishedAt: e.FinishedAt})
		}
		return nil
	})
	g.Go(func() error {
		records, err := i.reading.Sessions(gctx, readingdto.SessionsInput{})
		if err != nil {
			return err
		}
		sessions = make([]domain.Session, 0, len(records))
		for _, r := range records {
			sessions = append(sessions, domain.Session{
				ID:          r.ID,
				BookID:      r.BookID,
				BookTitle:   r.BookTitle,
				SessionDate: r.SessionDate,
				MinutesRead: r.MinutesRead,
				PagesRead:   r.PagesRead,
			})
		}
		return nil
	})
	g.Go(func() error {
		var err error
		goals, err = i.api.Goals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.ProjectionOutput{}, err
	}
	return toOutput(domain.Aggregate(entries, sessions, withDefaults(goals), i.clock.Now())), nil
}

func (i *Interactor) Remote(ctx context.Context) (dto.ProjectionOutput, error) {
	p, err := i.api.Remote(ctx)
	if err != nil {
		return dto.ProjectionOutput{}, err
	}
	return toOutput(p), nil
}

func (i *Interactor) Goals(ctx context.Context) (dto.GoalsOutput, error) {
	goals, err := i.api.Goals(ctx)
	if err != nil {
		return dto.GoalsOutput{}, err
	}
	goals = withDefaults(goals)
	return dto.GoalsOutput{BooksPerMonth: goals.BooksPerMonth, MinutesPerDay: goals.MinutesPerDay}, nil
}

func (i *Interactor) SetGoals(ctx context.Context, input dto.GoalsInput) (dto.GoalsOutput, error) {
	if err := i.validator.Validate(input); err != nil {
		return dto.GoalsOutput{}, err
	}
	goals, err := i.api.SetGoals(ctx, domain.Goals{BooksPerMonth: input.BooksPerMonth, MinutesPerDay: input.MinutesPerDay})
	if err != nil {
		return dto.GoalsOutput{}, err
	}
	return dto.GoalsOutput{BooksPerMonth: goals.BooksPerMonth, MinutesPerDay: goals.MinutesPerDay}, nil
}

// the server creates goals lazily; until then it may answer with zeros
func withDefaults(g domain.Goals) domain.Goals {
	if g.BooksPerMonth < 1 {
		g.BooksPerMonth = domain.DefaultBooksPerMonth
	}
	if g.MinutesPerDay < 1 {
		g.MinutesPerDay = domain.DefaultMinutesPerDay
	}
	return g
}

func toOutput(p domain.Projection) dto.ProjectionOutput {
	out := dto.ProjectionOutput{
		TotalBooks:           p.TotalBooks,
		ToReadBooks:          p.ToReadBooks,
		ReadingBooks:         p.ReadingBooks,
		FinishedBooks:        p.FinishedBooks,
		DroppedBooks:         p.DroppedBooks,
		MinutesReadToday:     p.MinutesReadToday,
		MinutesReadThisMonth: p.MinutesReadThisMonth,
		BooksPerMonthGoal:    p.BooksPerMonthGoal,
		MinutesPerDayGoal:    p.MinutesPerDayGoal,
		MonthlyFinished:      make([]dto.MonthCountOutput, 0, len(p.MonthlyFinished)),
		RecentSessions:       make([]dto.SessionOutput, 0, len(p.RecentSessions)),
	}
	for _, m := range p.MonthlyFinished {
		out.MonthlyFinished = append(out.MonthlyFinished, dto.MonthCountOutput{Month: m.Month, Count: m.Count})
	}
	for _, s := range p.RecentSessions {
		out.RecentSessions = append(out.RecentSessions, dto.SessionOutput{
			ID:          s.ID,
			BookID:      s.BookID,
			BookTitle:   s.BookTitle,
			SessionDate: s.SessionDate,
			MinutesRead: s.MinutesRead,
			PagesRead:   s.PagesRead,
		})
	}
	return out
}
