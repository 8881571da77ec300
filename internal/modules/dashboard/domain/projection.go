package domain

import (
	"sort"
	"time"

	"smartlib/internal/platform/clock"
)

const (
	// HistogramMonths is the trailing window of the finished-books histogram, current month included.
	HistogramMonths = 6
	RecentLimit     = 5

	DefaultBooksPerMonth = 2
	DefaultMinutesPerDay = 20
)

// Entry is the part of a library entry the projection reads.
type Entry struct {
	Status     string
	FinishedAt string
}

// Session is the part of a session record the projection reads.
type Session struct {
	ID          int64
	BookID      int64
	BookTitle   string
	SessionDate string
	MinutesRead int
	PagesRead   int
}

type Goals struct {
	BooksPerMonth int
	MinutesPerDay int
}

type MonthCount struct {
	Month string
	Count int
}

type Projection struct {
	TotalBooks           int
	ToReadBooks          int
	ReadingBooks         int
	FinishedBooks        int
	DroppedBooks         int
	MinutesReadToday     int
	MinutesReadThisMonth int
	BooksPerMonthGoal    int
	MinutesPerDayGoal    int
	MonthlyFinished      []MonthCount
	RecentSessions       []Session
}

// Aggregate derives the dashboard from raw collections. Dates are compared as calendar dates in
// now's location; unparsable dates are skipped.
func Aggregate(entries []Entry, sessions []Session, goals Goals, now time.Time) Projection {
	p := Projection{
		TotalBooks:        len(entries),
		BooksPerMonthGoal: goals.BooksPerMonth,
		MinutesPerDayGoal: goals.MinutesPerDay,
		MonthlyFinished:   make([]MonthCount, HistogramMonths),
		RecentSessions:    []Session{},
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make(map[string]int, HistogramMonths)
	for i := 0; i < HistogramMonths; i++ {
		month := clock.MonthKey(firstOfMonth.AddDate(0, i-(HistogramMonths-1), 0))
		p.MonthlyFinished[i] = MonthCount{Month: month}
		buckets[month] = i
	}

	for _, e := range entries {
		switch e.Status {
		case "TO_READ":
			p.ToReadBooks++
		case "READING":
			p.ReadingBooks++
		case "FINISHED":
			p.FinishedBooks++
			if finished, ok := parseDate(e.FinishedAt, now.Location()); ok {
				if i, ok := buckets[clock.MonthKey(finished)]; ok {
					p.MonthlyFinished[i].Count++
				}
			}
		case "DROPPED":
			p.DroppedBooks++
		}
	}

	today := now.Format(clock.DateLayout)
	for _, s := range sessions {
		date, ok := parseDate(s.SessionDate, now.Location())
		if !ok {
			continue
		}
		if date.Format(clock.DateLayout) == today {
			p.MinutesReadToday += s.MinutesRead
		}
		if clock.SameMonth(date, now) {
			p.MinutesReadThisMonth += s.MinutesRead
		}
	}

	recent := append([]Session(nil), sessions...)
	sort.SliceStable(recent, func(a, b int) bool {
		if recent[a].SessionDate != recent[b].SessionDate {
			return recent[a].SessionDate > recent[b].SessionDate
		}
		return recent[a].ID > recent[b].ID
	})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	p.RecentSessions = append(p.RecentSessions, recent...)
	return p
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(clock.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
