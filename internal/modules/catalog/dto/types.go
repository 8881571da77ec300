package dto

type ListBooksInput struct {
	Query         string `json:"q"`
	AvailableOnly bool   `json:"available"`
	Page          int    `json:"page" validate:"gte=0"`
	Size          int    `json:"size" validate:"gte=0,lte=100"`
}

type SearchInput struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k" validate:"gte=0,lte=50"`
}

type RecommendInput struct {
	Candidates []Candidate
}

type Candidate struct {
	Title  string
	Author string
	Status string
	Rating int
}

type BookOutput struct {
	ID              int64
	Title           string
	Author          string
	ISBN            string
	Description     string
	ImageURL        string
	TotalCopies     int
	AvailableCopies int
}

type BookPageOutput struct {
	Books         []BookOutput
	TotalElements int64
	TotalPages    int
	Page          int
	Size          int
}

type SearchHitOutput struct {
	ID            int64
	Title         string
	Author        string
	Description   string
	Score         float64
	ImageURL      string
	PublishedDate string
}

type RecommendOutput struct {
	Seed string
	Hits []SearchHitOutput
}
