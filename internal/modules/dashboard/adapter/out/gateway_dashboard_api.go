package out

import (
	"context"
	"fmt"
	"net/http"

	"smartlib/internal/modules/dashboard/domain"
	dashboardout "smartlib/internal/modules/dashboard/port/out"
	"smartlib/internal/platform/gateway"
)

type goalsResource struct {
	BooksPerMonth int `json:"booksPerMonth"`
	MinutesPerDay int `json:"minutesPerDay"`
}

type monthCountResource struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type recentSessionResource struct {
	ID          int64  `json:"id"`
	BookID      int64  `json:"bookId"`
	BookTitle   string `json:"bookTitle"`
	SessionDate string `json:"sessionDate"`
	MinutesRead int    `json:"minutesRead"`
	PagesRead   int    `json:"pagesRead"`
}

type dashboardResource struct {
	TotalBooks           int                     `json:"totalBooks"`
	ToReadBooks          int                     `json:"toReadBooks"`
	ReadingBooks         int                     `json:"readingBooks"`
	FinishedBooks        int                     `json:"finishedBooks"`
	DroppedBooks         int                     `json:"droppedBooks"`
	MinutesReadToday     int                     `json:"minutesReadToday"`
	MinutesReadThisMonth int                     `json:"minutesReadThisMonth"`
	BooksPerMonthGoal    int                     `json:"booksPerMonthGoal"`
	MinutesPerDayGoal    int                     `json:"minutesPerDayGoal"`
	MonthlyFinished      []monthCountResource    `json:"monthlyFinished"`
	RecentSessions       []recentSessionResource `json:"recentSessions"`
}

func (r dashboardResource) toDomain() domain.Projection {
	p := domain.Projection{
		TotalBooks:           r.TotalBooks,
		ToReadBooks:          r.ToReadBooks,
		ReadingBooks:         r.ReadingBooks,
		FinishedBooks:        r.FinishedBooks,
		DroppedBooks:         r.DroppedBooks,
		MinutesReadToday:     r.MinutesReadToday,
		MinutesReadThisMonth: r.MinutesReadThisMonth,
		BooksPerMonthGoal:    r.BooksPerMonthGoal,
		MinutesPerDayGoal:    r.MinutesPerDayGoal,
		MonthlyFinished:      make([]domain.MonthCount, 0, len(r.MonthlyFinished)),
		RecentSessions:       make([]domain.Session, 0, len(r.RecentSessions)),
	}
	for _, m := range r.MonthlyFinished {
		p.MonthlyFinished = append(p.MonthlyFinished, domain.MonthCount{Month: m.Month, Count: m.Count})
	}
	for _, s := range r.RecentSessions {
		p.RecentSessions = append(p.RecentSessions, domain.Session{
			ID:          s.ID,
			BookID:      s.BookID,
			BookTitle:   s.BookTitle,
			SessionDate: s.SessionDate,
			MinutesRead: s.MinutesRead,
			PagesRead:   s.PagesRead,
		})
	}
	return p
}

type GatewayDashboardAPI struct {
	gw *gateway.Client
}

func NewGatewayDashboardAPI(gw *gateway.Client) dashboardout.DashboardAPI {
	return &GatewayDashboardAPI{gw: gw}
}

func (a *GatewayDashboardAPI) Goals(ctx context.Context) (domain.Goals, error) {
	var res goalsResource
	if err := a.gw.Get(ctx, "/my/goals", &res); err != nil {
		return domain.Goals{}, fmt.Errorf("get goals: %w", err)
	}
	return domain.Goals{BooksPerMonth: res.BooksPerMonth, MinutesPerDay: res.MinutesPerDay}, nil
}

func (a *GatewayDashboardAPI) SetGoals(ctx context.Context, goals domain.Goals) (domain.Goals, error) {
	body := goalsResource{BooksPerMonth: goals.BooksPerMonth, MinutesPerDay: goals.MinutesPerDay}
	var res goalsResource
	result, err := a.gw.Do(ctx, http.MethodPut, "/my/goals", body, &res)
	if err != nil {
		return domain.Goals{}, fmt.Errorf("set goals: %w", err)
	}
	if result.NoContent {
		return goals, nil
	}
	return domain.Goals{BooksPerMonth: res.BooksPerMonth, MinutesPerDay: res.MinutesPerDay}, nil
}

func (a *GatewayDashboardAPI) Remote(ctx context.Context) (domain.Projection, error) {
	var res dashboardResource
	if err := a.gw.Get(ctx, "/my/dashboard", &res); err != nil {
		return domain.Projection{}, fmt.Errorf("get dashboard: %w", err)
	}
	return res.toDomain(), nil
}
