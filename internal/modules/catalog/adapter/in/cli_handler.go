package in

import (
	"context"

	"smartlib/internal/modules/catalog/dto"
	catalogin "smartlib/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListBooks(ctx context.Context, query string, availableOnly bool, page, size int) (dto.BookPageOutput, error) {
	return h.usecase.ListBooks(ctx, dto.ListBooksInput{Query: query, AvailableOnly: availableOnly, Page: page, Size: size})
}

func (h CLIHandler) GetBook(ctx context.Context, id int64) (dto.BookOutput, error) {
	return h.usecase.GetBook(ctx, id)
}

func (h CLIHandler) Search(ctx context.Context, query string, topK int) ([]dto.SearchHitOutput, error) {
	return h.usecase.Search(ctx, dto.SearchInput{Query: query, TopK: topK})
}

func (h CLIHandler) Recommend(ctx context.Context, candidates []dto.Candidate) dto.RecommendOutput {
	return h.usecase.Recommend(ctx, dto.RecommendInput{Candidates: candidates})
}
