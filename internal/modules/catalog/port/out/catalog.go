package out

import (
	"context"

	"smartlib/internal/modules/catalog/domain"
)

type CatalogAPI interface {
	ListBooks(ctx context.Context, query domain.Query) (domain.Page, error)
	GetBook(ctx context.Context, id int64) (domain.Book, error)
	Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error)
}
