// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"fmt"
)

// AuthenticationError reports that the credential is unusable and
// cannot be repaired at this layer: no token, or an expired token with
// no refresh source. Retrying authentication is a policy decision for
// the acquisition layer, so callers should not retry on this error.
type AuthenticationError struct {
	Method Method
	Reason string
}

func (err *AuthenticationError) Error() string {
	return fmt.Sprintf("credential: authentication failed (%s): %s", err.Method, err.Reason)
}

// RefreshError reports that a refresh attempt failed. The prior token
// state is left untouched. Cause carries the Source's error when the
// source itself failed (e.g., a revoked refresh token); it is nil when
// the source misbehaved without returning an error.
type RefreshError struct {
	Method Method
	Reason string
	Cause  error
}

func (err *RefreshError) Error() string {
	if err.Cause != nil {
		return fmt.Sprintf("credential: refresh failed (%s): %v", err.Method, err.Cause)
	}
	return fmt.Sprintf("credential: refresh failed (%s): %s", err.Method, err.Reason)
}

func (err *RefreshError) Unwrap() error { return err.Cause }

// IsAuthenticationError reports whether err is an *AuthenticationError.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsRefreshError reports whether err is a *RefreshError.
func IsRefreshError(err error) bool {
	var refreshErr *RefreshError
	return errors.As(err, &refreshErr)
}
