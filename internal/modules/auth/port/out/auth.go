package out

import (
	"context"

	"smartlib/internal/modules/auth/domain"
)

type CredentialStore interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}

type AccountAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	Me(ctx context.Context) (domain.Identity, error)
}
