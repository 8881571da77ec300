package in

import (
	"context"

	"smartlib/internal/modules/auth/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.StatusOutput, error)
	Register(ctx context.Context, input dto.RegisterInput) (dto.StatusOutput, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) dto.StatusOutput
	CurrentUser(ctx context.Context) (dto.IdentityOutput, error)
	// OnSignOut registers fn to run after every Authenticated -> Anonymous transition.
	OnSignOut(fn func())
}
