package in

import (
	"context"

	"smartlib/internal/modules/dashboard/dto"
)

type Usecase interface {
	// Projection fetches entries, sessions and goals concurrently and aggregates them locally.
	Projection(ctx context.Context) (dto.ProjectionOutput, error)
	// Remote returns the projection computed by the server.
	Remote(ctx context.Context) (dto.ProjectionOutput, error)
	Goals(ctx context.Context) (dto.GoalsOutput, error)
	SetGoals(ctx context.Context, input dto.GoalsInput) (dto.GoalsOutput, error)
}
