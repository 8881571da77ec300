package usecase

import (
	"context"

	"smartlib/internal/modules/auth/domain"
	"smartlib/internal/modules/auth/dto"
	authin "smartlib/internal/modules/auth/port/in"
	authout "smartlib/internal/modules/auth/port/out"
	"smartlib/internal/modules/auth/service"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/validation"
)

type Interactor struct {
	lifecycle *service.Lifecycle
	api       authout.AccountAPI
	validator *validation.Validator
}

func NewInteractor(lifecycle *service.Lifecycle, api authout.AccountAPI, validator *validation.Validator) authin.Usecase {
	return &Interactor{lifecycle: lifecycle, api: api, validator: validator}
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.StatusOutput, error) {
	if err := i.validator.Validate(input); err != nil {
		return dto.StatusOutput{}, err
	}
	token, err := i.api.Login(ctx, input.Username, input.Password)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	if err := i.lifecycle.Login(ctx, token); err != nil {
		return dto.StatusOutput{}, err
	}
	return i.Status(ctx), nil
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.StatusOutput, error) {
	if err := i.validator.Validate(input); err != nil {
		return dto.StatusOutput{}, err
	}
	token, err := i.api.Register(ctx, input.Username, input.Email, input.Password)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	if err := i.lifecycle.Login(ctx, token); err != nil {
		return dto.StatusOutput{}, err
	}
	return i.Status(ctx), nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.lifecycle.Logout(ctx)
}

func (i *Interactor) Status(context.Context) dto.StatusOutput {
	state := i.lifecycle.State()
	return dto.StatusOutput{Authenticated: state == domain.Authenticated, State: state.String()}
}

func (i *Interactor) CurrentUser(ctx context.Context) (dto.IdentityOutput, error) {
	if !i.lifecycle.Authenticated() {
		return dto.IdentityOutput{}, apperrors.Unauthenticated()
	}
	identity, err := i.api.Me(ctx)
	if err != nil {
		return dto.IdentityOutput{}, err
	}
	return dto.IdentityOutput{Username: identity.Username, Email: identity.Email}, nil
}

func (i *Interactor) OnSignOut(fn func()) {
	i.lifecycle.Watch(fn)
}
