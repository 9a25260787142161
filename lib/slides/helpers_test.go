// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package slides

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MotleyAI/gslides-api-sub001/lib/clock"
	"github.com/MotleyAI/gslides-api-sub001/lib/credential"
)

// rawRequest is a Request yielding one fixed operation per element.
type rawRequest []string

func (r rawRequest) Requests() ([]Operation, error) {
	operations := make([]Operation, len(r))
	for i, raw := range r {
		operations[i] = Operation(raw)
	}
	return operations, nil
}

// failingRequest is a Request whose serialization fails.
type failingRequest struct{ err error }

func (r failingRequest) Requests() ([]Operation, error) { return nil, r.err }

// testBackoff is a deterministic schedule: 1s, 2s, ... with no jitter.
var testBackoff = BackoffConfig{
	InitialWait: time.Second,
	Multiplier:  2,
	MaxAttempts: 3,
	Jitter:      0,
}

// newTestRoot creates an initialized root client whose three handles
// all point at the given TLS test server.
func newTestRoot(t *testing.T, server *httptest.Server, clk clock.Clock, config Config) *Client {
	t.Helper()

	settings := DefaultSettings()
	settings.Endpoints = EndpointSettings{
		Presentations: server.URL,
		Spreadsheets:  server.URL,
		Storage:       server.URL,
	}
	handles, err := NewHandleSet(settings, server.Client())
	if err != nil {
		t.Fatalf("NewHandleSet: %v", err)
	}

	if config.Backoff.MaxAttempts == 0 {
		config.Backoff = testBackoff
	}
	config.Clock = clk
	root := NewClient(config)
	if err := root.Attach(handles, credential.Static("test-token")); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return root
}
