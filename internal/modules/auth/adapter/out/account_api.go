package out

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"smartlib/internal/modules/auth/domain"
	authout "smartlib/internal/modules/auth/port/out"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/gateway"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type GatewayAccountAPI struct {
	gw *gateway.Client
}

func NewGatewayAccountAPI(gw *gateway.Client) authout.AccountAPI {
	return &GatewayAccountAPI{gw: gw}
}

func (a *GatewayAccountAPI) Login(ctx context.Context, username, password string) (string, error) {
	var out tokenResponse
	err := a.gw.Anonymous().Post(ctx, "/auth/login", map[string]string{"username": username, "password": password}, &out)
	if err != nil {
		if errors.Is(err, apperrors.ErrRequestFailure) && apperrors.StatusOf(err) == http.StatusUnauthorized {
			return "", apperrors.Request(http.StatusUnauthorized, "invalid username or password")
		}
		return "", fmt.Errorf("login: %w", err)
	}
	return tokenOf(out)
}

func (a *GatewayAccountAPI) Register(ctx context.Context, username, email, password string) (string, error) {
	var out tokenResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := a.gw.Anonymous().Post(ctx, "/auth/register", body, &out); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return tokenOf(out)
}

func (a *GatewayAccountAPI) Me(ctx context.Context) (domain.Identity, error) {
	var out meResponse
	if err := a.gw.Get(ctx, "/users/me", &out); err != nil {
		return domain.Identity{}, fmt.Errorf("get current user: %w", err)
	}
	return domain.Identity{Username: out.Username, Email: out.Email}, nil
}

func tokenOf(out tokenResponse) (string, error) {
	if out.Token == "" {
		return "", apperrors.Request(0, "server response carried no token")
	}
	return out.Token, nil
}
