// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package slides

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// ErrNotInitialized reports a mutating operation on a client whose
// service handles have not been attached. Fatal to that call; never
// retried.
var ErrNotInitialized = errors.New("slides: client is not initialized (service handles not attached)")

// TargetMismatchError reports an append for a different presentation
// than the queue already holds. This is a caller bug: one queue targets
// exactly one presentation between flushes. The queue is left untouched.
type TargetMismatchError struct {
	// Queued is the presentation ID the pending operations target.
	Queued string
	// Requested is the conflicting ID passed to Append.
	Requested string
}

func (err *TargetMismatchError) Error() string {
	return fmt.Sprintf("slides: queue already targets presentation %q, cannot append for %q", err.Queued, err.Requested)
}

// RetriesExhaustedError reports that the retry budget was spent without
// a successful call. Err is the last underlying transient failure. For
// a failed flush the queue is left intact, so the caller may call Flush
// again.
type RetriesExhaustedError struct {
	// Attempts is the total number of calls made.
	Attempts int
	// Err is the last transient failure observed.
	Err error
}

func (err *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("slides: retries exhausted after %d attempts: %v", err.Attempts, err.Err)
}

func (err *RetriesExhaustedError) Unwrap() error { return err.Err }

// APIError represents a non-2xx response from one of the remote
// sub-services. The services return structured JSON error bodies with a
// numeric code, a message, and a canonical status string (for example
// "RESOURCE_EXHAUSTED").
type APIError struct {
	// Service identifies which sub-service handle produced the error.
	Service ServiceKind

	// StatusCode is the HTTP response status code.
	StatusCode int

	// Status is the canonical status string from the error body, when
	// present.
	Status string

	// Message is the top-level error description.
	Message string
}

func (err *APIError) Error() string {
	if err.Status != "" {
		return fmt.Sprintf("slides: %s: HTTP %d %s: %s", err.Service, err.StatusCode, err.Status, err.Message)
	}
	return fmt.Sprintf("slides: %s: HTTP %d: %s", err.Service, err.StatusCode, err.Message)
}

// IsNotFound reports whether err is a 404 response from a sub-service.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 404
}

// IsRateLimited reports whether err is a rate-limit response. The
// services signal rate limits with 429 or with 403 carrying the
// RESOURCE_EXHAUSTED status.
func IsRateLimited(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	return apiError.StatusCode == 429 ||
		(apiError.StatusCode == 403 && apiError.Status == "RESOURCE_EXHAUSTED")
}

// IsTransient reports whether err belongs to the failure class that the
// retry executor may retry: rate limits, 5xx-class responses, and
// network timeouts. Everything else (4xx caller bugs, authentication
// failures, cancelled contexts) fails immediately.
func IsTransient(err error) bool {
	if IsRateLimited(err) {
		return true
	}
	var apiError *APIError
	if errors.As(err, &apiError) {
		return apiError.StatusCode >= 500 && apiError.StatusCode <= 599
	}
	var netError net.Error
	if errors.As(err, &netError) {
		return netError.Timeout()
	}
	return false
}

// IsRetriesExhausted reports whether err is a *RetriesExhaustedError.
func IsRetriesExhausted(err error) bool {
	var exhausted *RetriesExhaustedError
	return errors.As(err, &exhausted)
}

// IsTargetMismatch reports whether err is a *TargetMismatchError.
func IsTargetMismatch(err error) bool {
	var mismatch *TargetMismatchError
	return errors.As(err, &mismatch)
}

// parseAPIError parses a sub-service error from a status code and
// response body. Falls back to the raw body when the structured form is
// absent.
func parseAPIError(service ServiceKind, statusCode int, body []byte) *APIError {
	apiError := &APIError{Service: service, StatusCode: statusCode}

	var wireError struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		apiError.Message = wireError.Error.Message
		apiError.Status = wireError.Error.Status
	} else {
		apiError.Message = string(body)
	}

	return apiError
}
