package out

import (
	"context"

	"smartlib/internal/modules/dashboard/domain"
)

type DashboardAPI interface {
	Goals(ctx context.Context) (domain.Goals, error)
	SetGoals(ctx context.Context, goals domain.Goals) (domain.Goals, error)
	Remote(ctx context.Context) (domain.Projection, error)
}
