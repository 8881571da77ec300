package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker the reading timer depends on.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock reports local time so session dates follow the user's calendar.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// MonthKey formats t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
