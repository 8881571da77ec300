package out_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libraryout "smartlib/internal/modules/library/adapter/out"
	"smartlib/internal/modules/library/domain"
	"smartlib/internal/platform/gateway"
)

type staticToken string

func (s staticToken) Get(context.Context) (string, bool, error) { return string(s), s != "", nil }

func newAPI(t *testing.T, handler http.Handler) *libraryout.GatewayEntryAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw, err := gateway.New(srv.URL, staticToken("tok"))
	require.NoError(t, err)
	return libraryout.NewGatewayEntryAPI(gw).(*libraryout.GatewayEntryAPI)
}

func TestEntryAPIListDecodesNullableFields(t *testing.T) {
	t.Parallel()
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/my/books", r.URL.Path)
		assert.Equal(t, "READING", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`[
			{"id":7,"bookId":3,"title":"Dune","author":"Frank Herbert","status":"READING","rating":null,"progressPercent":40,"startedAt":"2026-02-01","finishedAt":null},
			{"id":8,"bookId":4,"title":"Emma","author":"Jane Austen","status":"READING","rating":4}
		]`))
	}))

	entries, err := api.List(context.Background(), domain.StatusReading)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.Entry{ID: 7, BookID: 3, Title: "Dune", Author: "Frank Herbert", Status: domain.StatusReading, ProgressPercent: 40, StartedAt: "2026-02-01"}, entries[0])
	assert.Equal(t, 4, entries[1].Rating)
	assert.Zero(t, entries[1].ProgressPercent)
}

func TestEntryAPIUpdateSendsOnlySetFields(t *testing.T) {
	t.Parallel()
	var got map[string]any
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/my/books/7", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))

	status := domain.StatusFinished
	require.NoError(t, api.Update(context.Background(), 7, domain.Patch{Status: &status}))
	assert.Equal(t, map[string]any{"status": "FINISHED"}, got)
}

func TestEntryAPIRemoveAcceptsNoContent(t *testing.T) {
	t.Parallel()
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	require.NoError(t, api.Remove(context.Background(), 7))
}

func TestEntryAPIAddPostsBookAndStatus(t *testing.T) {
	t.Parallel()
	var got map[string]any
	api := newAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9}`))
	}))
	require.NoError(t, api.Add(context.Background(), 3, domain.StatusToRead))
	assert.Equal(t, float64(3), got["bookId"])
	assert.Equal(t, "TO_READ", got["status"])
}
