package domain_test

import (
	"testing"
	"time"

	"smartlib/internal/modules/dashboard/domain"
)

var now = time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

func TestAggregateEmptyInputs(t *testing.T) {
	t.Parallel()
	p := domain.Aggregate(nil, nil, domain.Goals{BooksPerMonth: 2, MinutesPerDay: 20}, now)

	if p.TotalBooks != 0 || p.FinishedBooks != 0 || p.MinutesReadToday != 0 || p.MinutesReadThisMonth != 0 {
		t.Fatalf("expected zero counters, got %+v", p)
	}
	if len(p.MonthlyFinished) != domain.HistogramMonths {
		t.Fatalf("expected %d buckets, got %d", domain.HistogramMonths, len(p.MonthlyFinished))
	}
	for _, b := range p.MonthlyFinished {
		if b.Count != 0 {
			t.Fatalf("expected empty bucket, got %+v", b)
		}
	}
	if p.RecentSessions == nil || len(p.RecentSessions) != 0 {
		t.Fatalf("expected empty recent list, got %#v", p.RecentSessions)
	}
	if p.BooksPerMonthGoal != 2 || p.MinutesPerDayGoal != 20 {
		t.Fatalf("goals not copied: %+v", p)
	}
}

func TestAggregateCountsAndHistogram(t *testing.T) {
	t.Parallel()
	entries := []domain.Entry{
		{Status: "TO_READ"},
		{Status: "READING"},
		{Status: "READING"},
		{Status: "DROPPED"},
		{Status: "FINISHED", FinishedAt: "2026-03-02"},
		{Status: "FINISHED", FinishedAt: "2026-01-31"},
		{Status: "FINISHED", FinishedAt: "2025-10-01"},
		{Status: "FINISHED", FinishedAt: "2025-09-30"},
		{Status: "FINISHED"},
	}
	p := domain.Aggregate(entries, nil, domain.Goals{}, now)

	if p.TotalBooks != 9 || p.ToReadBooks != 1 || p.ReadingBooks != 2 || p.DroppedBooks != 1 || p.FinishedBooks != 5 {
		t.Fatalf("unexpected counters %+v", p)
	}
	want := []domain.MonthCount{
		{Month: "2025-10", Count: 1},
		{Month: "2025-11"},
		{Month: "2025-12"},
		{Month: "2026-01", Count: 1},
		{Month: "2026-02"},
		{Month: "2026-03", Count: 1},
	}
	for i, b := range p.MonthlyFinished {
		if b != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], b)
		}
	}
}

func TestAggregateMinutesAndRecent(t *testing.T) {
	t.Parallel()
	sessions := []domain.Session{
		{ID: 1, SessionDate: "2026-02-28", MinutesRead: 40},
		{ID: 2, SessionDate: "2026-03-01", MinutesRead: 10},
		{ID: 3, SessionDate: "2026-03-14", MinutesRead: 15},
		{ID: 4, SessionDate: "2026-03-14", MinutesRead: 5},
		{ID: 5, SessionDate: "2026-03-10", MinutesRead: 30},
		{ID: 6, SessionDate: "2025-03-14", MinutesRead: 99},
		{ID: 7, SessionDate: "14/03/2026", MinutesRead: 1000},
	}
	p := domain.Aggregate(nil, sessions, domain.Goals{}, now)

	if p.MinutesReadToday != 20 {
		t.Fatalf("expected 20 minutes today, got %d", p.MinutesReadToday)
	}
	if p.MinutesReadThisMonth != 60 {
		t.Fatalf("expected 60 minutes this month, got %d", p.MinutesReadThisMonth)
	}
	if len(p.RecentSessions) != domain.RecentLimit {
		t.Fatalf("expected %d recent sessions, got %d", domain.RecentLimit, len(p.RecentSessions))
	}
	ids := []int64{}
	for _, s := range p.RecentSessions {
		ids = append(ids, s.ID)
	}
	wantIDs := []int64{4, 3, 5, 2, 1}
	for i := range wantIDs {
		if ids[i] != wantIDs[i] {
			t.Fatalf("expected order %v, got %v", wantIDs, ids)
		}
	}
}
