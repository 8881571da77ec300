package service

import (
	"context"
	"errors"
	"testing"

	"smartlib/internal/modules/catalog/domain"
	"smartlib/internal/platform/logger"
)

type fakeCatalogAPI struct {
	queries []string
	topK    int
	hits    []domain.SearchHit
	err     error
}

func (f *fakeCatalogAPI) ListBooks(context.Context, domain.Query) (domain.Page, error) {
	return domain.Page{}, nil
}

func (f *fakeCatalogAPI) GetBook(context.Context, int64) (domain.Book, error) {
	return domain.Book{}, nil
}

func (f *fakeCatalogAPI) Search(_ context.Context, query string, topK int) ([]domain.SearchHit, error) {
	f.queries = append(f.queries, query)
	f.topK = topK
	return f.hits, f.err
}

func TestRecommendSearchesWithSeed(t *testing.T) {
	t.Parallel()
	api := &fakeCatalogAPI{hits: []domain.SearchHit{{ID: 9, Title: "Children of Dune", Score: 0.91}}}
	r := NewRecommender(api, logger.Discard())

	seed, hits := r.Recommend(context.Background(), []domain.Candidate{
		{Title: "Emma", Author: "Jane Austen", Status: "TO_READ"},
		{Title: "Dune", Author: "Frank Herbert", Status: "FINISHED", Rating: 5},
	})
	if len(api.queries) != 1 || api.queries[0] != seed {
		t.Fatalf("expected one search for seed %q, got %v", seed, api.queries)
	}
	if api.topK != domain.RecommendTopK {
		t.Fatalf("expected topK %d, got %d", domain.RecommendTopK, api.topK)
	}
	if len(hits) != 1 || hits[0].ID != 9 {
		t.Fatalf("expected the search hits, got %+v", hits)
	}
}

func TestRecommendFailureYieldsEmptyList(t *testing.T) {
	t.Parallel()
	api := &fakeCatalogAPI{err: errors.New("search service down")}
	r := NewRecommender(api, logger.Discard())

	seed, hits := r.Recommend(context.Background(), nil)
	if seed != domain.DefaultSeed {
		t.Fatalf("expected default seed, got %q", seed)
	}
	if hits == nil || len(hits) != 0 {
		t.Fatalf("expected empty non-nil hits, got %#v", hits)
	}
}
