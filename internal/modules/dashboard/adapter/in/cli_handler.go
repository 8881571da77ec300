package in

import (
	"context"

	"smartlib/internal/modules/dashboard/dto"
	dashboardin "smartlib/internal/modules/dashboard/port/in"
)

type CLIHandler struct {
	usecase dashboardin.Usecase
}

func NewCLIHandler(usecase dashboardin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Projection(ctx context.Context, remote bool) (dto.ProjectionOutput, error) {
	if remote {
		return h.usecase.Remote(ctx)
	}
	return h.usecase.Projection(ctx)
}

func (h CLIHandler) Goals(ctx context.Context) (dto.GoalsOutput, error) {
	return h.usecase.Goals(ctx)
}

func (h CLIHandler) SetGoals(ctx context.Context, booksPerMonth, minutesPerDay int) (dto.GoalsOutput, error) {
	return h.usecase.SetGoals(ctx, dto.GoalsInput{BooksPerMonth: booksPerMonth, MinutesPerDay: minutesPerDay})
}
