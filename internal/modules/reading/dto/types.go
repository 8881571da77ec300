package dto

import "time"

type StartInput struct {
	EntryID int64 `json:"entryId" validate:"required,gt=0"`
	// BookID and BookTitle are looked up from the library when zero.
	BookID    int64  `json:"bookId"`
	BookTitle string `json:"bookTitle"`
}

type ConfirmInput struct {
	CurrentPage int `json:"currentPage"`
}

type SessionsInput struct {
	From string `json:"from" validate:"omitempty,isodate"`
	To   string `json:"to" validate:"omitempty,isodate"`
}

type LogInput struct {
	BookID      int64  `json:"bookId" validate:"required,gt=0"`
	SessionDate string `json:"sessionDate" validate:"omitempty,isodate"`
	MinutesRead int    `json:"minutesRead" validate:"gte=1"`
	PagesRead   int    `json:"pagesRead" validate:"gte=0"`
	Note        string `json:"note" validate:"max=500"`
}

type StateOutput struct {
	Phase          string
	EntryID        int64
	BookID         int64
	BookTitle      string
	StartedAt      time.Time
	ElapsedSeconds int64
	ProposedPage   int
	PreviousPage   int
}

func (s StateOutput) Idle() bool {
	return s.Phase == "idle"
}

type RecordOutput struct {
	ID          int64
	BookID      int64
	BookTitle   string
	SessionDate string
	MinutesRead int
	PagesRead   int
	Note        string
}

type ReconcileOutput struct {
	Record       RecordOutput
	PreviousPage int
	CurrentPage  int
	JournalPath  string
}

type JournalOutput struct {
	Path         string
	BookID       int64
	BookTitle    string
	SessionDate  string
	MinutesRead  int
	PagesRead    int
	PreviousPage int
	CurrentPage  int
}
