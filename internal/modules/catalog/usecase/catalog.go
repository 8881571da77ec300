package usecase

import (
	"context"

	"smartlib/internal/modules/catalog/domain"
	"smartlib/internal/modules/catalog/dto"
	catalogin "smartlib/internal/modules/catalog/port/in"
	catalogout "smartlib/internal/modules/catalog/port/out"
	"smartlib/internal/modules/catalog/service"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/validation"
)

type Interactor struct {
	api         catalogout.CatalogAPI
	recommender *service.Recommender
	validator   *validation.Validator
}

func NewInteractor(api catalogout.CatalogAPI, recommender *service.Recommender, validator *validation.Validator) catalogin.Usecase {
	return &Interactor{api: api, recommender: recommender, validator: validator}
}

func (i *Interactor) ListBooks(ctx context.Context, input dto.ListBooksInput) (dto.BookPageOutput, error) {
	if err := i.validator.Validate(input); err != nil {
		return dto.BookPageOutput{}, err
	}
	size := input.Size
	if size == 0 {
		size = domain.DefaultPageSize
	}
	page, err := i.api.ListBooks(ctx, domain.Query{Text: input.Query, AvailableOnly: input.AvailableOnly, Page: input.Page, Size: size})
	if err != nil {
		return dto.BookPageOutput{}, err
	}
	out := dto.BookPageOutput{
		Books:         make([]dto.BookOutput, 0, len(page.Books)),
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Page:          page.Number,
		Size:          page.Size,
	}
	for _, b := range page.Books {
		out.Books = append(out.Books, toBookOutput(b))
	}
	return out, nil
}

func (i *Interactor) GetBook(ctx context.Context, id int64) (dto.BookOutput, error) {
	if id <= 0 {
		return dto.BookOutput{}, apperrors.Validation("book id must be positive")
	}
	book, err := i.api.GetBook(ctx, id)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toBookOutput(book), nil
}

func (i *Interactor) Search(ctx context.Context, input dto.SearchInput) ([]dto.SearchHitOutput, error) {
	if err := i.validator.Validate(input); err != nil {
		return nil, err
	}
	topK := input.TopK
	if topK == 0 {
		topK = domain.RecommendTopK
	}
	hits, err := i.api.Search(ctx, input.Query, topK)
	if err != nil {
		return nil, err
	}
	return toHitOutputs(hits), nil
}

func (i *Interactor) Recommend(ctx context.Context, input dto.RecommendInput) dto.RecommendOutput {
	candidates := make([]domain.Candidate, 0, len(input.Candidates))
	for _, c := range input.Candidates {
		candidates = append(candidates, domain.Candidate{Title: c.Title, Author: c.Author, Status: c.Status, Rating: c.Rating})
	}
	seed, hits := i.recommender.Recommend(ctx, candidates)
	return dto.RecommendOutput{Seed: seed, Hits: toHitOutputs(hits)}
}

func toBookOutput(b domain.Book) dto.BookOutput {
	return dto.BookOutput{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Description:     b.Description,
		ImageURL:        b.ImageURL,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
}

func toHitOutputs(hits []domain.SearchHit) []dto.SearchHitOutput {
	out := make([]dto.SearchHitOutput, 0, len(hits))
	for _, h := range hits {
		out = append(out, dto.SearchHitOutput{
			ID:            h.ID,
			Title:         h.Title,
			Author:        h.Author,
			Description:   h.Description,
			Score:         h.Score,
			ImageURL:      h.ImageURL,
			PublishedDate: h.PublishedDate,
		})
	}
	return out
}
