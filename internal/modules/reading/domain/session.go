package domain

import (
	"time"

	apperrors "smartlib/internal/platform/errors"
)

const (
	SchemaVersion = 1
	// TimerNote marks records produced by the reading timer.
	TimerNote = "Tracked with reading timer"

	StartConflictMessage  = "Please stop the current active session before starting another one."
	ChangeConflictMessage = "Please stop the active session first and enter current page."
)

type Phase int

const (
	Idle Phase = iota
	Active
	StoppingPending
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case StoppingPending:
		return "stopping"
	default:
		return "idle"
	}
}

// Record is one persisted reading session. Records are append-only.
type Record struct {
	ID          int64
	BookID      int64
	BookTitle   string
	SessionDate string
	MinutesRead int
	PagesRead   int
	Note        string
}

// NewRecord is what the client submits; the server assigns the id and title.
type NewRecord struct {
	BookID      int64
	SessionDate string
	MinutesRead int
	PagesRead   int
	Note        string
}

// Snapshot is a copy of the engine state at one instant.
type Snapshot struct {
	Phase          Phase
	EntryID        int64
	BookID         int64
	BookTitle      string
	StartedAt      time.Time
	ElapsedSeconds int64
	ProposedPage   int
	PreviousPage   int
}

func (s Snapshot) Elapsed() time.Duration {
	return time.Duration(s.ElapsedSeconds) * time.Second
}

// Holds reports whether the snapshot keeps entryID busy.
func (s Snapshot) Holds(entryID int64) bool {
	return s.Phase != Idle && s.EntryID == entryID
}

// Reconciliation is the outcome of a confirmed stop.
type Reconciliation struct {
	Record       Record
	PreviousPage int
	CurrentPage  int
	StartedAt    time.Time
	EndedAt      time.Time
}

// Cursor is the highest page reached for bookID: the sum of pages over its records.
func Cursor(records []Record, bookID int64) int {
	total := 0
	for _, r := range records {
		if r.BookID == bookID {
			total += r.PagesRead
		}
	}
	return total
}

// MinutesFromSeconds rounds half up and never reports less than one minute.
func MinutesFromSeconds(elapsed int64) int {
	if elapsed < 0 {
		elapsed = 0
	}
	minutes := int((elapsed + 30) / 60)
	if minutes < 1 {
		return 1
	}
	return minutes
}

func ValidateCurrentPage(current, previous int) error {
	if current < 0 {
		return apperrors.Validation("Current page must be a non-negative integer.")
	}
	if current < previous {
		return apperrors.Validation("Current page cannot be less than previous page (%d).", previous)
	}
	return nil
}

// JournalNote is a reconciled session as the local journal recorded it.
type JournalNote struct {
	Path         string
	RecordID     int64
	BookID       int64
	BookTitle    string
	SessionDate  string
	MinutesRead  int
	PagesRead    int
	PreviousPage int
	CurrentPage  int
}
