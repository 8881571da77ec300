package domain

import "strings"

const (
	DefaultPageSize = 12
	RecommendTopK   = 6
	// DefaultSeed is searched when the library gives nothing to go on.
	DefaultSeed = "sach hay ve ky nang va tu duy"
)

type Book struct {
	ID              int64
	Title           string
	Author          string
	ISBN            string
	Description     string
	ImageURL        string
	TotalCopies     int
	AvailableCopies int
}

// Page is one zero-based page of the catalog listing.
type Page struct {
	Books         []Book
	TotalElements int64
	TotalPages    int
	Size          int
	Number        int
}

type Query struct {
	Text          string
	AvailableOnly bool
	Page          int
	Size          int
}

type SearchHit struct {
	ID            int64
	Title         string
	Author        string
	Description   string
	Score         float64
	ImageURL      string
	PublishedDate string
}

// Candidate is a library entry as seen by the recommender.
type Candidate struct {
	Title  string
	Author string
	Status string
	Rating int
}

// SeedFor picks the recommendation query: a well-rated finished book, then the first book
// being read, then the first one queued.
func SeedFor(candidates []Candidate) string {
	if c, ok := first(candidates, func(c Candidate) bool { return c.Status == "FINISHED" && c.Rating >= 4 }); ok {
		return seedOf(c)
	}
	if c, ok := first(candidates, func(c Candidate) bool { return c.Status == "READING" }); ok {
		return seedOf(c)
	}
	if c, ok := first(candidates, func(c Candidate) bool { return c.Status == "TO_READ" }); ok {
		return seedOf(c)
	}
	return DefaultSeed
}

func first(candidates []Candidate, match func(Candidate) bool) (Candidate, bool) {
	for _, c := range candidates {
		if match(c) {
			return c, true
		}
	}
	return Candidate{}, false
}

func seedOf(c Candidate) string {
	return strings.TrimSpace(c.Title + " " + c.Author)
}
