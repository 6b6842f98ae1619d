// Package youtube wraps the YouTube Data API v3 behind a small set of
// operations with uniform validation, retry, and error classification.
package youtube

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytbridge/auth"
	"ytbridge/internal/retry"
)

// CredentialSource yields a valid credential for each remote call.
// *auth.Manager satisfies this.
type CredentialSource interface {
	Credential(ctx context.Context) (*auth.Credential, error)
}

// Config holds client resilience settings.
type Config struct {
	// Retry configures backoff for transient remote failures.
	Retry retry.Config
	// RequestsPerSecond caps Data API calls per process.
	RequestsPerSecond float64
	// Burst is the rate limiter burst size.
	Burst int
	// BreakerThreshold is consecutive failures before failing fast.
	BreakerThreshold int
	// BreakerRecovery is how long the circuit stays open.
	BreakerRecovery time.Duration
}

// DefaultConfig returns conservative defaults aligned with Data API quotas.
func DefaultConfig() *Config {
	return &Config{
		Retry:             retry.DefaultConfig(),
		RequestsPerSecond: 5,
		Burst:             5,
		BreakerThreshold:  5,
		BreakerRecovery:   30 * time.Second,
	}
}

// Client is the remote API handle. The underlying service is cached per
// access token: a refreshed credential forces a rebuild, so calls never
// go out with a stale token.
type Client struct {
	creds   CredentialSource
	cfg     *Config
	limiter *rate.Limiter
	breaker *breaker

	mu       sync.Mutex
	svc      *youtube.Service
	svcToken string
}

// NewClient creates a client drawing credentials from creds.
func NewClient(creds CredentialSource, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		creds:   creds,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: newBreaker(cfg.BreakerThreshold, cfg.BreakerRecovery),
	}
}

// service returns the API handle for the current credential, rebuilding
// it when the access token has changed.
func (c *Client) service(ctx context.Context) (*youtube.Service, error) {
	cred, err := c.creds.Credential(ctx)
	if err != nil {
		return nil, authError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil && c.svcToken == cred.AccessToken {
		return c.svc, nil
	}

	svc, err := youtube.NewService(ctx,
		option.WithTokenSource(oauth2.StaticTokenSource(cred.Token())))
	if err != nil {
		return nil, &Error{Kind: KindRemote, Message: "create youtube service: " + err.Error(), Err: err}
	}

	c.svc = svc
	c.svcToken = cred.AccessToken
	return svc, nil
}

// call runs one remote operation through the circuit breaker, the rate
// limiter, and retry with backoff.
func (c *Client) call(ctx context.Context, fn func(context.Context) error) error {
	if err := c.breaker.allow(); err != nil {
		return &Error{Kind: KindNetwork, Message: "remote api unavailable", Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindNetwork, Message: "rate limiter wait: " + err.Error(), Err: err}
	}

	if err := retry.Do(ctx, c.cfg.Retry, isTransient, fn); err != nil {
		// Only transport-level failures count against the circuit. A
		// permanent outcome (not found, permission, quota) reached the
		// remote api, which proves the transport healthy.
		if isTransient(err) {
			c.breaker.recordFailure()
		} else {
			c.breaker.recordSuccess()
		}
		return err
	}

	c.breaker.recordSuccess()
	return nil
}
