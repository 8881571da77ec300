package usecase_test

import (
	"context"
	"errors"
	"testing"

	"smartlib/internal/modules/catalog/domain"
	"smartlib/internal/modules/catalog/dto"
	catalogin "smartlib/internal/modules/catalog/port/in"
	"smartlib/internal/modules/catalog/service"
	"smartlib/internal/modules/catalog/usecase"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/logger"
	"smartlib/internal/platform/validation"
)

type fakeCatalog struct {
	lastQuery  domain.Query
	lastSearch string
	lastTopK   int
	searchErr  error
	hits       []domain.SearchHit
}

func (f *fakeCatalog) ListBooks(_ context.Context, q domain.Query) (domain.Page, error) {
	f.lastQuery = q
	return domain.Page{Books: []domain.Book{{ID: 1, Title: "Dune"}}, TotalElements: 1, TotalPages: 1, Size: q.Size, Number: q.Page}, nil
}

func (f *fakeCatalog) GetBook(_ context.Context, id int64) (domain.Book, error) {
	if id != 1 {
		return domain.Book{}, apperrors.Request(404, "Book not found")
	}
	return domain.Book{ID: 1, Title: "Dune", AvailableCopies: 2}, nil
}

func (f *fakeCatalog) Search(_ context.Context, query string, topK int) ([]domain.SearchHit, error) {
	f.lastSearch = query
	f.lastTopK = topK
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func newCatalog(api *fakeCatalog) catalogin.Usecase {
	return usecase.NewInteractor(api, service.NewRecommender(api, logger.Discard()), validation.New())
}

func TestListBooksDefaultsPageSize(t *testing.T) {
	t.Parallel()
	api := &fakeCatalog{}
	uc := newCatalog(api)

	page, err := uc.ListBooks(context.Background(), dto.ListBooksInput{Query: "dune", AvailableOnly: true})
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if api.lastQuery.Size != 12 || !api.lastQuery.AvailableOnly || api.lastQuery.Text != "dune" {
		t.Fatalf("unexpected query %+v", api.lastQuery)
	}
	if len(page.Books) != 1 || page.Books[0].Title != "Dune" {
		t.Fatalf("unexpected page %+v", page)
	}
	if _, err := uc.ListBooks(context.Background(), dto.ListBooksInput{Page: -1}); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected negative page rejected, got %v", err)
	}
}

func TestGetBookPropagatesNotFound(t *testing.T) {
	t.Parallel()
	uc := newCatalog(&fakeCatalog{})
	if _, err := uc.GetBook(context.Background(), 99); !errors.Is(err, apperrors.ErrRequestFailure) {
		t.Fatalf("expected request failure, got %v", err)
	}
	if _, err := uc.GetBook(context.Background(), 0); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestSearchRequiresQueryAndPropagatesFailure(t *testing.T) {
	t.Parallel()
	api := &fakeCatalog{searchErr: apperrors.Request(502, "search backend down")}
	uc := newCatalog(api)
	if _, err := uc.Search(context.Background(), dto.SearchInput{}); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected empty query rejected, got %v", err)
	}
	if _, err := uc.Search(context.Background(), dto.SearchInput{Query: "go"}); !errors.Is(err, apperrors.ErrRequestFailure) {
		t.Fatalf("expected search failure to propagate, got %v", err)
	}
}

func TestRecommendUsesSeedAndDegradesToEmpty(t *testing.T) {
	t.Parallel()
	api := &fakeCatalog{hits: []domain.SearchHit{{ID: 5, Title: "Deep Work", Score: 0.91}}}
	uc := newCatalog(api)

	out := uc.Recommend(context.Background(), dto.RecommendInput{Candidates: []dto.Candidate{
		{Title: "Emma", Author: "Jane Austen", Status: "READING"},
		{Title: "Atomic Habits", Author: "James Clear", Status: "FINISHED", Rating: 5},
	}})
	if out.Seed != "Atomic Habits James Clear" || api.lastSearch != out.Seed || api.lastTopK != 6 {
		t.Fatalf("unexpected seed/search: %+v search=%q topK=%d", out, api.lastSearch, api.lastTopK)
	}
	if len(out.Hits) != 1 || out.Hits[0].Title != "Deep Work" {
		t.Fatalf("unexpected hits %+v", out.Hits)
	}

	api.searchErr = apperrors.Transport(errors.New("connection refused"))
	degraded := uc.Recommend(context.Background(), dto.RecommendInput{})
	if degraded.Seed != domain.DefaultSeed {
		t.Fatalf("expected default seed, got %q", degraded.Seed)
	}
	if degraded.Hits == nil || len(degraded.Hits) != 0 {
		t.Fatalf("expected empty non-nil hits, got %#v", degraded.Hits)
	}
}
