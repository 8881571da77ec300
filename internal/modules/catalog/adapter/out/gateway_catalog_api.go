package out

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"smartlib/internal/modules/catalog/domain"
	catalogout "smartlib/internal/modules/catalog/port/out"
	"smartlib/internal/platform/gateway"
)

type bookResource struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Description     string `json:"description"`
	ImageURL        string `json:"imageUrl"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

func (r bookResource) toDomain() domain.Book {
	return domain.Book{
		ID:              r.ID,
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            r.ISBN,
		Description:     r.Description,
		ImageURL:        r.ImageURL,
		TotalCopies:     r.TotalCopies,
		AvailableCopies: r.AvailableCopies,
	}
}

type pageResource struct {
	Content       []bookResource `json:"content"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Size          int            `json:"size"`
	Number        int            `json:"number"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchHitResource struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	Score         float64 `json:"score"`
	ImageURL      string  `json:"image_url"`
	PublishedDate string  `json:"published_date"`
}

type GatewayCatalogAPI struct {
	gw *gateway.Client
}

func NewGatewayCatalogAPI(gw *gateway.Client) catalogout.CatalogAPI {
	return &GatewayCatalogAPI{gw: gw}
}

func (a *GatewayCatalogAPI) ListBooks(ctx context.Context, q domain.Query) (domain.Page, error) {
	params := url.Values{}
	if text := strings.TrimSpace(q.Text); text != "" {
		params.Set("q", text)
	}
	if q.AvailableOnly {
		params.Set("available", "true")
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(q.Size))

	var res pageResource
	if err := a.gw.Get(ctx, "/books?"+params.Encode(), &res); err != nil {
		return domain.Page{}, fmt.Errorf("list books: %w", err)
	}
	page := domain.Page{
		Books:         make([]domain.Book, 0, len(res.Content)),
		TotalElements: res.TotalElements,
		TotalPages:    res.TotalPages,
		Size:          res.Size,
		Number:        res.Number,
	}
	for _, b := range res.Content {
		page.Books = append(page.Books, b.toDomain())
	}
	return page, nil
}

func (a *GatewayCatalogAPI) GetBook(ctx context.Context, id int64) (domain.Book, error) {
	var res bookResource
	if err := a.gw.Get(ctx, fmt.Sprintf("/books/%d", id), &res); err != nil {
		return domain.Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return res.toDomain(), nil
}

func (a *GatewayCatalogAPI) Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	var res []searchHitResource
	if err := a.gw.Post(ctx, "/search", searchRequest{Query: query, TopK: topK}, &res); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	hits := make([]domain.SearchHit, 0, len(res))
	for _, h := range res {
		hits = append(hits, domain.SearchHit{
			ID:            h.ID,
			Title:         h.Title,
			Author:        h.Author,
			Description:   h.Description,
			Score:         h.Score,
			ImageURL:      h.ImageURL,
			PublishedDate: h.PublishedDate,
		})
	}
	return hits, nil
}
