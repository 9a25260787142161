// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential wraps the authorization material shared by a tree
// of API clients.
//
// A Credential holds the current access token and, optionally, a Source
// that can mint a replacement when the token expires. One Credential is
// created per root client and shared by reference with every child;
// refresh is serialized by an internal mutex with a double-check after
// acquisition, so concurrent callers trigger at most one underlying
// refresh per expiry.
//
// Token acquisition flows (browser OAuth, service-account exchange) are
// out of scope: callers supply a Source implementing the refresh
// contract. FileSource covers the common saved-refresh-token case.
package credential
