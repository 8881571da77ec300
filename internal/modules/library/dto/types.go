package dto

type AddInput struct {
	BookID int64  `json:"bookId" validate:"required,gt=0"`
	Status string `json:"status"`
}

type UpdateInput struct {
	EntryID         int64   `json:"id" validate:"required,gt=0"`
	Status          *string `json:"status"`
	Rating          *int    `json:"rating"`
	ProgressPercent *int    `json:"progressPercent"`
}

type EntryOutput struct {
	ID              int64
	BookID          int64
	Title           string
	Author          string
	ImageURL        string
	Status          string
	Rating          int
	ProgressPercent int
	StartedAt       string
	FinishedAt      string
}
