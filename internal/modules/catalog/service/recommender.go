package service

import (
	"context"
	"log/slog"

	"smartlib/internal/modules/catalog/domain"
	catalogout "smartlib/internal/modules/catalog/port/out"
)

// Recommender turns the user's library into a semantic search. It is best effort.
type Recommender struct {
	api    catalogout.CatalogAPI
	logger *slog.Logger
}

func NewRecommender(api catalogout.CatalogAPI, logger *slog.Logger) *Recommender {
	return &Recommender{api: api, logger: logger}
}

func (r *Recommender) Recommend(ctx context.Context, candidates []domain.Candidate) (string, []domain.SearchHit) {
	seed := domain.SeedFor(candidates)
	hits, err := r.api.Search(ctx, seed, domain.RecommendTopK)
	if err != nil {
		r.logger.Warn("recommendations unavailable", "seed", seed, "error", err)
		return seed, []domain.SearchHit{}
	}
	return seed, hits
}
