package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/oauth2"
)

// ErrInteractiveFlowUnavailable is returned when a credential cannot be
// obtained without user interaction and the process runs headless.
var ErrInteractiveFlowUnavailable = errors.New("interactive authorization flow unavailable in headless mode")

type refreshFunc func(context.Context, *Credential) (*Credential, error)
type authorizeFunc func(context.Context) (*Credential, error)

// Manager owns the mutable credential and is the only component that
// writes to the TokenStore. All lookups go through Credential, which
// serializes the load/refresh/authorize sequence behind a mutex so
// concurrent requests do not race to refresh the same expired token.
type Manager struct {
	store    TokenStore
	oauth    *oauth2.Config
	headless bool

	mu     sync.Mutex
	cached *Credential

	// Overridable in tests to count refresh/flow invocations.
	refresh   refreshFunc
	authorize authorizeFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithHeadless disables the interactive flow. Obtaining a credential
// that would require user interaction fails with
// ErrInteractiveFlowUnavailable instead of opening a listener.
func WithHeadless(headless bool) Option {
	return func(m *Manager) { m.headless = headless }
}

// NewManager creates a credential manager backed by store, using cfg for
// refresh calls and the interactive code exchange.
func NewManager(store TokenStore, cfg *oauth2.Config, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		oauth: cfg,
	}
	m.refresh = m.refreshToken
	m.authorize = m.runInteractiveFlow
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Credential returns a valid credential, going through the store, a
// refresh call, or the interactive flow as needed. A valid cached
// credential is returned without any I/O.
func (m *Manager) Credential(ctx context.Context) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached.Valid() {
		return m.cached, nil
	}

	if m.cached == nil {
		cred, err := m.store.Load()
		if err != nil {
			return nil, fmt.Errorf("load credential: %w", err)
		}
		m.cached = cred
		if cred.Valid() {
			return cred, nil
		}
	}

	if m.cached.CanRefresh() {
		refreshed, err := m.refresh(ctx, m.cached)
		if err == nil {
			if err := m.store.Save(refreshed); err != nil {
				return nil, fmt.Errorf("save refreshed credential: %w", err)
			}
			m.cached = refreshed
			return refreshed, nil
		}
		// A failed refresh means the grant is gone; treat as
		// not-yet-authorized rather than failing the operation.
		log.Printf("auth: token refresh failed, falling back to authorization flow: %v", err)
	}

	if m.headless {
		return nil, ErrInteractiveFlowUnavailable
	}

	fresh, err := m.authorize(ctx)
	if err != nil {
		return nil, fmt.Errorf("interactive authorization: %w", err)
	}
	if err := m.store.Save(fresh); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}
	m.cached = fresh
	return fresh, nil
}

// Authorize forces the interactive flow regardless of stored state and
// persists the result. Used by the login command to seed a deployment.
func (m *Manager) Authorize(ctx context.Context) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.headless {
		return nil, ErrInteractiveFlowUnavailable
	}

	cred, err := m.authorize(ctx)
	if err != nil {
		return nil, fmt.Errorf("interactive authorization: %w", err)
	}
	if err := m.store.Save(cred); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}
	m.cached = cred
	return cred, nil
}

// Revoke drops the cached credential and deletes the stored one.
func (m *Manager) Revoke() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	return m.store.Delete()
}

// refreshToken exchanges the refresh token for a new access token.
func (m *Manager) refreshToken(ctx context.Context, cred *Credential) (*Credential, error) {
	tok, err := m.oauth.TokenSource(ctx, cred.Token()).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	log.Printf("auth: access token refreshed, expires %s", tok.Expiry.Format("2006-01-02 15:04:05"))
	return fromToken(tok, cred.Scopes, cred.RefreshToken), nil
}
