// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MotleyAI/gslides-api-sub001/lib/clock"
)

// writeSavedToken writes a saved-token file naming the test server as
// the token endpoint.
func writeSavedToken(t *testing.T, tokenURI, refreshToken string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	content := `{
		"refresh_token": "` + refreshToken + `",
		"client_id": "client-1",
		"client_secret": "secret-1",
		"token_uri": "` + tokenURI + `"
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing saved token: %v", err)
	}
	return path
}

func TestFileSourceRefresh(t *testing.T) {
	fake := clock.Fake(testEpoch)

	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := request.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotForm = map[string]string{
			"grant_type":    request.PostFormValue("grant_type"),
			"refresh_token": request.PostFormValue("refresh_token"),
			"client_id":     request.PostFormValue("client_id"),
			"client_secret": request.PostFormValue("client_secret"),
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"access_token":"fresh-token","expires_in":3600}`))
	}))
	defer server.Close()

	path := writeSavedToken(t, server.URL, "refresh-1")
	source := NewFileSource(path, server.Client(), fake)

	token, err := source.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if token.AccessToken != "fresh-token" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "fresh-token")
	}
	if want := testEpoch.Add(time.Hour); !token.Expiry.Equal(want) {
		t.Errorf("Expiry = %v, want %v", token.Expiry, want)
	}

	if gotForm["grant_type"] != "refresh_token" {
		t.Errorf("grant_type = %q", gotForm["grant_type"])
	}
	if gotForm["refresh_token"] != "refresh-1" {
		t.Errorf("refresh_token = %q", gotForm["refresh_token"])
	}
	if gotForm["client_id"] != "client-1" || gotForm["client_secret"] != "secret-1" {
		t.Errorf("client credentials not forwarded: %v", gotForm)
	}
}

func TestFileSourceRevokedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		writer.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	path := writeSavedToken(t, server.URL, "revoked")
	source := NewFileSource(path, server.Client(), clock.Fake(testEpoch))

	_, err := source.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error for revoked refresh token")
	}
	if !strings.Contains(err.Error(), "HTTP 400") {
		t.Errorf("error should carry the endpoint status, got: %v", err)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), nil, nil)
	if _, err := source.Refresh(context.Background()); err == nil {
		t.Fatal("expected error for missing saved-token file")
	}
}

func TestFileSourceMissingRefreshToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"client_id":"c"}`), 0o600); err != nil {
		t.Fatalf("writing saved token: %v", err)
	}
	source := NewFileSource(path, nil, nil)
	_, err := source.Refresh(context.Background())
	if err == nil || !strings.Contains(err.Error(), "refresh_token") {
		t.Fatalf("expected missing refresh_token error, got: %v", err)
	}
}
