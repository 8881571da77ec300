package out

import (
	"context"
	"fmt"
	"net/url"

	"smartlib/internal/modules/library/domain"
	libraryout "smartlib/internal/modules/library/port/out"
	"smartlib/internal/platform/gateway"
)

type entryResource struct {
	ID              int64  `json:"id"`
	BookID          int64  `json:"bookId"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ImageURL        string `json:"imageUrl"`
	Status          string `json:"status"`
	Rating          *int   `json:"rating"`
	ProgressPercent *int   `json:"progressPercent"`
	StartedAt       string `json:"startedAt"`
	FinishedAt      string `json:"finishedAt"`
}

func (r entryResource) toDomain() domain.Entry {
	e := domain.Entry{
		ID:         r.ID,
		BookID:     r.BookID,
		Title:      r.Title,
		Author:     r.Author,
		ImageURL:   r.ImageURL,
		Status:     domain.Status(r.Status),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	if r.Rating != nil {
		e.Rating = *r.Rating
	}
	if r.ProgressPercent != nil {
		e.ProgressPercent = *r.ProgressPercent
	}
	return e
}

type patchBody struct {
	Status          *string `json:"status,omitempty"`
	Rating          *int    `json:"rating,omitempty"`
	ProgressPercent *int    `json:"progressPercent,omitempty"`
}

type GatewayEntryAPI struct {
	gw *gateway.Client
}

func NewGatewayEntryAPI(gw *gateway.Client) libraryout.EntryAPI {
	return &GatewayEntryAPI{gw: gw}
}

func (a *GatewayEntryAPI) List(ctx context.Context, status domain.Status) ([]domain.Entry, error) {
	path := "/my/books"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}
	var resources []entryResource
	if err := a.gw.Get(ctx, path, &resources); err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	entries := make([]domain.Entry, 0, len(resources))
	for _, r := range resources {
		entries = append(entries, r.toDomain())
	}
	return entries, nil
}

func (a *GatewayEntryAPI) Add(ctx context.Context, bookID int64, status domain.Status) error {
	body := map[string]any{"bookId": bookID, "status": string(status)}
	if err := a.gw.Post(ctx, "/my/books", body, nil); err != nil {
		return fmt.Errorf("add book %d: %w", bookID, err)
	}
	return nil
}

func (a *GatewayEntryAPI) Update(ctx context.Context, entryID int64, patch domain.Patch) error {
	body := patchBody{Rating: patch.Rating, ProgressPercent: patch.ProgressPercent}
	if patch.Status != nil {
		s := string(*patch.Status)
		body.Status = &s
	}
	if err := a.gw.Patch(ctx, fmt.Sprintf("/my/books/%d", entryID), body, nil); err != nil {
		return fmt.Errorf("update entry %d: %w", entryID, err)
	}
	return nil
}

func (a *GatewayEntryAPI) Remove(ctx context.Context, entryID int64) error {
	if _, err := a.gw.Delete(ctx, fmt.Sprintf("/my/books/%d", entryID), nil); err != nil {
		return fmt.Errorf("remove entry %d: %w", entryID, err)
	}
	return nil
}
