package in

import (
	"context"

	"smartlib/internal/modules/auth/dto"
	authin "smartlib/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (dto.StatusOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Register(ctx context.Context, username, email, password string) (dto.StatusOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{Username: username, Email: email, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Status(ctx context.Context) dto.StatusOutput {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) WhoAmI(ctx context.Context) (dto.IdentityOutput, error) {
	return h.usecase.CurrentUser(ctx)
}

func (h CLIHandler) OnSignOut(fn func()) {
	h.usecase.OnSignOut(fn)
}
