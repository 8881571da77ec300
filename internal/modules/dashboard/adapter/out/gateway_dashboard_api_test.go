package out_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboardout "smartlib/internal/modules/dashboard/adapter/out"
	"smartlib/internal/modules/dashboard/domain"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/gateway"
)

type staticToken string

func (s staticToken) Get(context.Context) (string, bool, error) {
	return string(s), s != "", nil
}

func newAPI(t *testing.T, mux *http.ServeMux) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	gw, err := gateway.New(srv.URL+"/api", staticToken("tok"), gateway.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return gw
}

func TestGoalsRoundTrip(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/my/goals", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"booksPerMonth":2,"minutesPerDay":20}`)
	})
	mux.HandleFunc("PUT /api/my/goals", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]int{"booksPerMonth": 4, "minutesPerDay": 45}, body)
		w.WriteHeader(http.StatusNoContent)
	})
	api := dashboardout.NewGatewayDashboardAPI(newAPI(t, mux))

	goals, err := api.Goals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Goals{BooksPerMonth: 2, MinutesPerDay: 20}, goals)

	updated, err := api.SetGoals(context.Background(), domain.Goals{BooksPerMonth: 4, MinutesPerDay: 45})
	require.NoError(t, err)
	assert.Equal(t, domain.Goals{BooksPerMonth: 4, MinutesPerDay: 45}, updated)
}

func TestRemoteDashboard(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/my/dashboard", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"totalBooks":3,"finishedBooks":1,"minutesReadToday":12,
			"monthlyFinished":[{"month":"2026-03","count":1}],
			"recentSessions":[{"id":9,"bookId":42,"bookTitle":"Dune","sessionDate":"2026-03-14","minutesRead":12,"pagesRead":4}]}`)
	})
	p, err := dashboardout.NewGatewayDashboardAPI(newAPI(t, mux)).Remote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalBooks)
	assert.Equal(t, 12, p.MinutesReadToday)
	assert.Equal(t, []domain.MonthCount{{Month: "2026-03", Count: 1}}, p.MonthlyFinished)
	require.Len(t, p.RecentSessions, 1)
	assert.Equal(t, "Dune", p.RecentSessions[0].BookTitle)
}

func TestGoalsValidationErrorFromServer(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/my/goals", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"validation_error","fields":{"booksPerMonth":"must be greater than or equal to 1"}}`)
	})
	_, err := dashboardout.NewGatewayDashboardAPI(newAPI(t, mux)).SetGoals(context.Background(), domain.Goals{BooksPerMonth: 1, MinutesPerDay: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailure)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
}
