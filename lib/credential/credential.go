// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"sync"
	"time"

	"github.com/MotleyAI/gslides-api-sub001/lib/clock"
)

// refreshMargin is how far before expiry a token is treated as expired.
// Google access tokens have a 1-hour TTL; refreshing a minute early
// avoids races where a token expires mid-request.
const refreshMargin = time.Minute

// Method tags how the credential was obtained. Informational only —
// the refresh contract is identical for every method.
type Method string

const (
	MethodServiceAccount Method = "service-account"
	MethodOAuth          Method = "oauth"
	MethodSavedToken     Method = "saved-token"
	MethodStatic         Method = "static"
)

// Token is one access token with its expiry. A zero Expiry means the
// token never expires.
type Token struct {
	AccessToken string
	Expiry      time.Time
}

// Source mints replacement tokens. Implementations are supplied by the
// credential-acquisition layer (service-account exchange, OAuth refresh,
// saved-token file). Refresh must return an error rather than an empty
// token on failure; it may be called from multiple goroutines but the
// Credential serializes calls, so implementations need no locking of
// their own.
type Source interface {
	Refresh(ctx context.Context) (Token, error)
}

// Credential is the shared authorization state for a client tree.
// Exactly one Credential backs a root client and all its descendants;
// all methods are safe for concurrent use.
type Credential struct {
	method Method
	source Source
	clock  clock.Clock

	mu    sync.Mutex
	token Token
}

// New creates a Credential holding the given token. source may be nil
// for unrefreshable credentials. clk may be nil, in which case the real
// clock is used.
func New(token Token, method Method, source Source, clk clock.Clock) *Credential {
	if clk == nil {
		clk = clock.Real()
	}
	return &Credential{
		method: method,
		source: source,
		clock:  clk,
		token:  token,
	}
}

// Static creates an unrefreshable Credential from a bare access token
// with no expiry. Intended for tests and short-lived tools.
func Static(accessToken string) *Credential {
	return New(Token{AccessToken: accessToken}, MethodStatic, nil, nil)
}

// Method returns the auth method tag.
func (c *Credential) Method() Method { return c.method }

// Refreshable reports whether the credential has a refresh source.
func (c *Credential) Refreshable() bool { return c.source != nil }

// Valid reports whether the credential currently holds a usable token.
func (c *Credential) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validLocked()
}

// Expired reports whether the current token is absent or past its
// refresh deadline.
func (c *Credential) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiredLocked()
}

func (c *Credential) validLocked() bool {
	return c.token.AccessToken != "" && !c.expiredLocked()
}

// expiredLocked treats an absent token as expired so that a Credential
// constructed with a zero Token lazily fetches on first use.
func (c *Credential) expiredLocked() bool {
	if c.token.AccessToken == "" {
		return true
	}
	if c.token.Expiry.IsZero() {
		return false
	}
	return !c.clock.Now().Before(c.token.Expiry.Add(-refreshMargin))
}

// RefreshIfNeeded refreshes the token if it is expired. Reports whether
// a refresh occurred. Safe to call concurrently from every context
// sharing this credential: the expiry check is repeated after the lock
// is acquired, so only the first caller performs the refresh and the
// rest observe the fresh token.
//
// An expired credential with no Source fails with *AuthenticationError.
// A failed Source.Refresh fails with *RefreshError wrapping the cause
// and leaves the prior (expired) token untouched, so a later explicit
// re-authentication can still be attempted.
func (c *Credential) RefreshIfNeeded(ctx context.Context) (bool, error) {
	if !c.Expired() {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if !c.expiredLocked() {
		return false, nil
	}

	if c.source == nil {
		return false, &AuthenticationError{
			Method: c.method,
			Reason: "token expired and no refresh source is available",
		}
	}

	token, err := c.source.Refresh(ctx)
	if err != nil {
		return false, &RefreshError{Method: c.method, Cause: err}
	}
	if token.AccessToken == "" {
		return false, &RefreshError{Method: c.method, Reason: "refresh source returned an empty token"}
	}

	c.token = token
	return true, nil
}

// EnsureValid refreshes if needed and fails with *AuthenticationError
// if the credential is invalid and cannot be refreshed, or with
// *RefreshError if the refresh itself failed.
func (c *Credential) EnsureValid(ctx context.Context) error {
	if _, err := c.RefreshIfNeeded(ctx); err != nil {
		return err
	}
	if !c.Valid() {
		return &AuthenticationError{
			Method: c.method,
			Reason: "credential holds no valid token",
		}
	}
	return nil
}

// AuthorizationHeader returns a ready-to-use Authorization header value
// for the current token, refreshing first if needed.
func (c *Credential) AuthorizationHeader(ctx context.Context) (string, error) {
	if err := c.EnsureValid(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return "Bearer " + c.token.AccessToken, nil
}
