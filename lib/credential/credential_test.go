// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MotleyAI/gslides-api-sub001/lib/clock"
)

// funcSource adapts a function to the Source interface.
type funcSource func(ctx context.Context) (Token, error)

func (f funcSource) Refresh(ctx context.Context) (Token, error) { return f(ctx) }

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestStaticCredentialNeverExpires(t *testing.T) {
	cred := Static("token-1")

	if !cred.Valid() {
		t.Error("static credential should be valid")
	}
	if cred.Expired() {
		t.Error("static credential should not expire")
	}
	if cred.Refreshable() {
		t.Error("static credential should not be refreshable")
	}

	refreshed, err := cred.RefreshIfNeeded(context.Background())
	if err != nil {
		t.Fatalf("RefreshIfNeeded: %v", err)
	}
	if refreshed {
		t.Error("valid credential should not refresh")
	}

	header, err := cred.AuthorizationHeader(context.Background())
	if err != nil {
		t.Fatalf("AuthorizationHeader: %v", err)
	}
	if header != "Bearer token-1" {
		t.Errorf("AuthorizationHeader = %q, want %q", header, "Bearer token-1")
	}
}

func TestExpiryUsesRefreshMargin(t *testing.T) {
	fake := clock.Fake(testEpoch)
	cred := New(Token{AccessToken: "t", Expiry: testEpoch.Add(time.Hour)}, MethodOAuth, nil, fake)

	if cred.Expired() {
		t.Error("fresh token reported expired")
	}

	// Inside the refresh margin the token counts as expired even though
	// the nominal expiry has not passed.
	fake.SetNow(testEpoch.Add(time.Hour - 30*time.Second))
	if !cred.Expired() {
		t.Error("token inside refresh margin should report expired")
	}
	if cred.Valid() {
		t.Error("expired token should not be valid")
	}
}

func TestEmptyTokenCountsAsExpired(t *testing.T) {
	refreshCount := 0
	source := funcSource(func(context.Context) (Token, error) {
		refreshCount++
		return Token{AccessToken: "fetched"}, nil
	})
	cred := New(Token{}, MethodSavedToken, source, clock.Fake(testEpoch))

	if !cred.Expired() {
		t.Error("credential with no token should report expired")
	}

	// First use lazily fetches.
	refreshed, err := cred.RefreshIfNeeded(context.Background())
	if err != nil {
		t.Fatalf("RefreshIfNeeded: %v", err)
	}
	if !refreshed || refreshCount != 1 {
		t.Errorf("refreshed = %v, refreshCount = %d; want true, 1", refreshed, refreshCount)
	}
	if !cred.Valid() {
		t.Error("credential should be valid after lazy fetch")
	}
}

func TestRefreshIfNeededNoSource(t *testing.T) {
	fake := clock.Fake(testEpoch)
	cred := New(Token{AccessToken: "t", Expiry: testEpoch.Add(-time.Minute)}, MethodOAuth, nil, fake)

	_, err := cred.RefreshIfNeeded(context.Background())
	if !IsAuthenticationError(err) {
		t.Fatalf("RefreshIfNeeded without source = %v, want *AuthenticationError", err)
	}
}

func TestRefreshFailureLeavesStateUntouched(t *testing.T) {
	fake := clock.Fake(testEpoch)
	revoked := errors.New("invalid_grant: token revoked")
	source := funcSource(func(context.Context) (Token, error) {
		return Token{}, revoked
	})
	cred := New(Token{AccessToken: "old", Expiry: testEpoch.Add(-time.Minute)}, MethodSavedToken, source, fake)

	_, err := cred.RefreshIfNeeded(context.Background())
	if !IsRefreshError(err) {
		t.Fatalf("RefreshIfNeeded = %v, want *RefreshError", err)
	}
	if !errors.Is(err, revoked) {
		t.Errorf("RefreshError should wrap the source failure, got %v", err)
	}

	// Prior (expired) state is untouched so a later explicit
	// re-authentication can still be attempted.
	if !cred.Expired() {
		t.Error("failed refresh should leave the credential expired")
	}
}

func TestRefreshRejectsEmptyToken(t *testing.T) {
	source := funcSource(func(context.Context) (Token, error) {
		return Token{}, nil
	})
	cred := New(Token{}, MethodOAuth, source, clock.Fake(testEpoch))

	_, err := cred.RefreshIfNeeded(context.Background())
	if !IsRefreshError(err) {
		t.Fatalf("RefreshIfNeeded = %v, want *RefreshError for empty token", err)
	}
}

func TestConcurrentRefreshHappensOnce(t *testing.T) {
	fake := clock.Fake(testEpoch)
	var refreshCount atomic.Int64
	source := funcSource(func(context.Context) (Token, error) {
		refreshCount.Add(1)
		return Token{AccessToken: "fresh", Expiry: testEpoch.Add(time.Hour)}, nil
	})
	cred := New(Token{AccessToken: "stale", Expiry: testEpoch.Add(-time.Minute)}, MethodOAuth, source, fake)

	const workers = 32
	var didRefresh atomic.Int64
	var group sync.WaitGroup
	for range workers {
		group.Add(1)
		go func() {
			defer group.Done()
			refreshed, err := cred.RefreshIfNeeded(context.Background())
			if err != nil {
				t.Errorf("RefreshIfNeeded: %v", err)
			}
			if refreshed {
				didRefresh.Add(1)
			}
		}()
	}
	group.Wait()

	if got := refreshCount.Load(); got != 1 {
		t.Errorf("source refreshed %d times, want 1", got)
	}
	if got := didRefresh.Load(); got != 1 {
		t.Errorf("%d callers observed a refresh, want 1", got)
	}
}

func TestEnsureValid(t *testing.T) {
	t.Run("valid passes", func(t *testing.T) {
		if err := Static("t").EnsureValid(context.Background()); err != nil {
			t.Errorf("EnsureValid: %v", err)
		}
	})

	t.Run("unrefreshable fails with authentication error", func(t *testing.T) {
		fake := clock.Fake(testEpoch)
		cred := New(Token{AccessToken: "t", Expiry: testEpoch.Add(-time.Minute)}, MethodStatic, nil, fake)
		err := cred.EnsureValid(context.Background())
		if !IsAuthenticationError(err) {
			t.Errorf("EnsureValid = %v, want *AuthenticationError", err)
		}
	})

	t.Run("expired refreshes transparently", func(t *testing.T) {
		fake := clock.Fake(testEpoch)
		source := funcSource(func(context.Context) (Token, error) {
			return Token{AccessToken: "fresh", Expiry: testEpoch.Add(time.Hour)}, nil
		})
		cred := New(Token{AccessToken: "stale", Expiry: testEpoch.Add(-time.Minute)}, MethodOAuth, source, fake)
		if err := cred.EnsureValid(context.Background()); err != nil {
			t.Fatalf("EnsureValid: %v", err)
		}
		header, err := cred.AuthorizationHeader(context.Background())
		if err != nil {
			t.Fatalf("AuthorizationHeader: %v", err)
		}
		if header != "Bearer fresh" {
			t.Errorf("AuthorizationHeader = %q, want refreshed token", header)
		}
	})
}
