package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"smartlib/internal/modules/auth/domain"
	authout "smartlib/internal/modules/auth/port/out"
	apperrors "smartlib/internal/platform/errors"
)

// Lifecycle owns the validity of the bearer credential. It is the only component allowed to
// decide the credential is gone, either by explicit logout or by the gateway's invalidation
// signal.
type Lifecycle struct {
	mu       sync.Mutex
	store    authout.CredentialStore
	state    domain.State
	watchers []func()
	logger   *slog.Logger
}

// NewLifecycle starts Authenticated when the store already holds a credential.
func NewLifecycle(ctx context.Context, store authout.CredentialStore, logger *slog.Logger) (*Lifecycle, error) {
	_, ok, err := store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	state := domain.Anonymous
	if ok {
		state = domain.Authenticated
	}
	return &Lifecycle{store: store, state: state, logger: logger}, nil
}

func (l *Lifecycle) Login(ctx context.Context, credential string) error {
	if strings.TrimSpace(credential) == "" {
		return apperrors.Validation("credential is empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Set(ctx, credential); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	l.state = domain.Authenticated
	return nil
}

func (l *Lifecycle) Logout(ctx context.Context) error {
	l.mu.Lock()
	was := l.state
	if err := l.store.Clear(ctx); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("clear credential: %w", err)
	}
	l.state = domain.Anonymous
	l.mu.Unlock()

	if was == domain.Authenticated {
		l.notify()
	}
	return nil
}

// OnInvalidated is registered with the gateway. Repeated signals are no-ops.
func (l *Lifecycle) OnInvalidated() {
	l.mu.Lock()
	if l.state == domain.Anonymous {
		l.mu.Unlock()
		return
	}
	l.state = domain.Anonymous
	if err := l.store.Clear(context.Background()); err != nil {
		l.logger.Error("clear invalidated credential", "error", err)
	}
	l.mu.Unlock()

	l.logger.Info("credential invalidated, signed out")
	l.notify()
}

func (l *Lifecycle) State() domain.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Lifecycle) Authenticated() bool {
	return l.State() == domain.Authenticated
}

// Watch registers fn for Authenticated -> Anonymous transitions.
func (l *Lifecycle) Watch(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchers = append(l.watchers, fn)
}

func (l *Lifecycle) notify() {
	l.mu.Lock()
	watchers := append([]func(){}, l.watchers...)
	l.mu.Unlock()
	for _, fn := range watchers {
		fn()
	}
}
