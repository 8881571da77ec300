package domain

import (
	"strings"

	apperrors "smartlib/internal/platform/errors"
)

type Status string

const (
	StatusToRead   Status = "TO_READ"
	StatusReading  Status = "READING"
	StatusFinished Status = "FINISHED"
	StatusDropped  Status = "DROPPED"
)

var Statuses = []Status{StatusToRead, StatusReading, StatusFinished, StatusDropped}

// ParseStatus accepts the wire form and the lowercase/dashed forms typed on the command line.
func ParseStatus(raw string) (Status, error) {
	normalized := Status(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_")))
	for _, s := range Statuses {
		if s == normalized {
			return s, nil
		}
	}
	return "", apperrors.Validation("unknown status %q (want one of TO_READ, READING, FINISHED, DROPPED)", raw)
}

// Entry is one book in the user's personal library. Rating 0 means unrated.
type Entry struct {
	ID              int64
	BookID          int64
	Title           string
	Author          string
	ImageURL        string
	Status          Status
	Rating          int
	ProgressPercent int
	StartedAt       string
	FinishedAt      string
}

// Patch is a partial update; nil fields are left untouched by the server.
type Patch struct {
	Status          *Status
	Rating          *int
	ProgressPercent *int
}

func (p Patch) Validate() error {
	if p.Status == nil && p.Rating == nil && p.ProgressPercent == nil {
		return apperrors.Validation("nothing to update")
	}
	if p.Status != nil {
		if _, err := ParseStatus(string(*p.Status)); err != nil {
			return err
		}
	}
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return apperrors.Validation("rating must be between 1 and 5")
	}
	if p.ProgressPercent != nil && (*p.ProgressPercent < 0 || *p.ProgressPercent > 100) {
		return apperrors.Validation("progress must be between 0 and 100")
	}
	return nil
}

func FindByID(entries []Entry, id int64) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
