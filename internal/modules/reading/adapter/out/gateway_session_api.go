package out

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"smartlib/internal/modules/reading/domain"
	readingout "smartlib/internal/modules/reading/port/out"
	"smartlib/internal/platform/gateway"
)

type sessionResource struct {
	ID          int64  `json:"id"`
	BookID      int64  `json:"bookId"`
	BookTitle   string `json:"bookTitle"`
	SessionDate string `json:"sessionDate"`
	MinutesRead int    `json:"minutesRead"`
	PagesRead   int    `json:"pagesRead"`
	Note        string `json:"note"`
}

func (r sessionResource) toDomain() domain.Record {
	return domain.Record{
		ID:          r.ID,
		BookID:      r.BookID,
		BookTitle:   r.BookTitle,
		SessionDate: r.SessionDate,
		MinutesRead: r.MinutesRead,
		PagesRead:   r.PagesRead,
		Note:        r.Note,
	}
}

type createSessionRequest struct {
	BookID      int64  `json:"bookId"`
	SessionDate string `json:"sessionDate"`
	MinutesRead int    `json:"minutesRead"`
	PagesRead   int    `json:"pagesRead"`
	Note        string `json:"note"`
}

type GatewaySessionAPI struct {
	gw *gateway.Client
}

func NewGatewaySessionAPI(gw *gateway.Client) readingout.SessionAPI {
	return &GatewaySessionAPI{gw: gw}
}

func (a *GatewaySessionAPI) List(ctx context.Context, from, to string) ([]domain.Record, error) {
	path := "/my/sessions"
	if from != "" && to != "" {
		path += "?" + url.Values{"from": {from}, "to": {to}}.Encode()
	}
	var resources []sessionResource
	if err := a.gw.Get(ctx, path, &resources); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	records := make([]domain.Record, 0, len(resources))
	for _, r := range resources {
		records = append(records, r.toDomain())
	}
	return records, nil
}

func (a *GatewaySessionAPI) Create(ctx context.Context, record domain.NewRecord) (domain.Record, error) {
	body := createSessionRequest{
		BookID:      record.BookID,
		SessionDate: record.SessionDate,
		MinutesRead: record.MinutesRead,
		PagesRead:   record.PagesRead,
		Note:        record.Note,
	}
	var res sessionResource
	result, err := a.gw.Do(ctx, http.MethodPost, "/my/sessions", body, &res)
	if err != nil {
		return domain.Record{}, fmt.Errorf("save session: %w", err)
	}
	if result.NoContent {
		return domain.Record{BookID: record.BookID, SessionDate: record.SessionDate, MinutesRead: record.MinutesRead, PagesRead: record.PagesRead, Note: record.Note}, nil
	}
	return res.toDomain(), nil
}
