package in

import (
	"context"

	"smartlib/internal/modules/catalog/dto"
)

type Usecase interface {
	ListBooks(ctx context.Context, input dto.ListBooksInput) (dto.BookPageOutput, error)
	GetBook(ctx context.Context, id int64) (dto.BookOutput, error)
	Search(ctx context.Context, input dto.SearchInput) ([]dto.SearchHitOutput, error)
	// Recommend never fails; search problems yield an empty hit list.
	Recommend(ctx context.Context, input dto.RecommendInput) dto.RecommendOutput
}
