// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package slides

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/MotleyAI/gslides-api-sub001/lib/clock"
	"github.com/MotleyAI/gslides-api-sub001/lib/credential"
)

// Config holds configuration for creating a root Client.
type Config struct {
	// Backoff is the retry schedule for this client and the default
	// for its children. Zero fields take the default schedule.
	Backoff BackoffConfig

	// AutoFlush makes every Append flush immediately.
	AutoFlush bool

	// Clock provides time operations. Defaults to clock.Real().
	// Inject clock.Fake() in tests for deterministic backoff.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is one logical editing context: a reference to the shared
// credential and service handles, plus an exclusively owned queue of
// pending operations against a single target presentation.
//
// A root Client starts uninitialized and becomes initialized once
// Attach supplies the handle set and credential; this transition is
// one-way. Children created with CreateChildClient share the handles
// and credential by reference but own a fresh queue, so many logical
// callers can work concurrently over the same expensive connections.
//
// The queue, target ID, auto-flush flag, and backoff configuration are
// exclusively owned by one context and must not be used from multiple
// goroutines; create one child per concurrent unit of work instead.
// The shared credential and handles are safe for concurrent use.
type Client struct {
	// Shared by reference across the whole context tree.
	credential *credential.Credential
	handles    *HandleSet

	// Exclusively owned by this context.
	pending   []Operation
	targetID  string
	autoFlush bool
	backoff   BackoffConfig

	clock  clock.Clock
	logger *slog.Logger
}

// NewClient creates an uninitialized root client. Call Attach (or copy
// from an initialized client with AttachFrom) before appending or
// flushing.
func NewClient(config Config) *Client {
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		autoFlush: config.AutoFlush,
		backoff:   config.Backoff.withDefaults(),
		clock:     clk,
		logger:    logger,
	}
}

// Attach supplies the shared service handles and credential, moving the
// client from uninitialized to initialized. The transition is one-way:
// attaching to an already-initialized client fails, and handles are
// never reopened for the lifetime of the tree.
func (c *Client) Attach(handles *HandleSet, cred *credential.Credential) error {
	if c.IsInitialized() {
		return fmt.Errorf("slides: client is already initialized")
	}
	if !handles.complete() {
		return fmt.Errorf("slides: handle set is incomplete (all three sub-service handles are required)")
	}
	if cred == nil {
		return fmt.Errorf("slides: credential is required")
	}
	c.handles = handles
	c.credential = cred
	return nil
}

// AttachFrom initializes the client by copying the handle and
// credential references from an already-initialized source client.
func (c *Client) AttachFrom(source *Client) error {
	if !source.IsInitialized() {
		return ErrNotInitialized
	}
	return c.Attach(source.handles, source.credential)
}

// IsInitialized reports whether the credential and all three service
// handles are attached.
func (c *Client) IsInitialized() bool {
	return c.credential != nil && c.handles.complete()
}

// Credential returns the shared credential holder.
func (c *Client) Credential() *credential.Credential { return c.credential }

// Handles returns the shared service handle set.
func (c *Client) Handles() *HandleSet { return c.handles }

// AutoFlush reports whether Append flushes immediately on this client.
func (c *Client) AutoFlush() bool { return c.autoFlush }

// Backoff returns this client's retry schedule.
func (c *Client) Backoff() BackoffConfig { return c.backoff }

// ChildConfig holds per-child overrides for CreateChildClient. Zero
// backoff fields inherit the parent's values.
type ChildConfig struct {
	// AutoFlush opts the child into flushing on every Append. It is
	// deliberately not inherited: a child flushes per append only when
	// the caller asks for it explicitly.
	AutoFlush bool

	// InitialWait, Multiplier, MaxAttempts, and Jitter override the
	// inherited backoff schedule when non-zero.
	InitialWait time.Duration
	Multiplier  float64
	MaxAttempts int
	Jitter      float64
}

// CreateChildClient creates an initialized child context. The child
// shares this client's credential and service handles by reference and
// owns a new, empty queue; mutating the child's queue or configuration
// never affects the parent or any sibling.
//
// Fails with ErrNotInitialized if this client is uninitialized — a
// child must be able to make real calls immediately.
func (c *Client) CreateChildClient(config ChildConfig) (*Client, error) {
	if !c.IsInitialized() {
		return nil, ErrNotInitialized
	}

	backoff := c.backoff
	if config.InitialWait > 0 {
		backoff.InitialWait = config.InitialWait
	}
	if config.Multiplier >= 1 {
		backoff.Multiplier = config.Multiplier
	}
	if config.MaxAttempts > 0 {
		backoff.MaxAttempts = config.MaxAttempts
	}
	if config.Jitter > 0 {
		backoff.Jitter = config.Jitter
	}

	return &Client{
		credential: c.credential,
		handles:    c.handles,
		autoFlush:  config.AutoFlush,
		backoff:    backoff,
		clock:      c.clock,
		logger:     c.logger,
	}, nil
}
