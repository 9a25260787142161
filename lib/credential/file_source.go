// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/MotleyAI/gslides-api-sub001/lib/clock"
)

// defaultTokenURI is the Google OAuth2 token endpoint, used when the
// saved-token file does not name one.
const defaultTokenURI = "https://oauth2.googleapis.com/token"

// FileSource exchanges a saved refresh token for fresh access tokens.
// The on-disk file is the only durable credential artifact; it is
// written by the acquisition flow and only read here. The file is
// re-read on every refresh so an externally rotated refresh token is
// picked up without restarting.
type FileSource struct {
	path       string
	httpClient *http.Client
	clock      clock.Clock
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a FileSource reading the saved token at path.
// httpClient defaults to http.DefaultClient; clk defaults to the real
// clock.
func NewFileSource(path string, httpClient *http.Client, clk clock.Clock) *FileSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &FileSource{path: path, httpClient: httpClient, clock: clk}
}

// savedToken mirrors the saved-token file layout written by the
// acquisition flow.
type savedToken struct {
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TokenURI     string `json:"token_uri"`
}

// Refresh reads the saved refresh token and exchanges it at the token
// endpoint for a fresh access token.
func (source *FileSource) Refresh(ctx context.Context) (Token, error) {
	raw, err := os.ReadFile(source.path)
	if err != nil {
		return Token{}, fmt.Errorf("credential: reading saved token: %w", err)
	}

	var saved savedToken
	if err := json.Unmarshal(raw, &saved); err != nil {
		return Token{}, fmt.Errorf("credential: parsing saved token %s: %w", source.path, err)
	}
	if saved.RefreshToken == "" {
		return Token{}, fmt.Errorf("credential: saved token %s has no refresh_token", source.path)
	}

	tokenURI := saved.TokenURI
	if tokenURI == "" {
		tokenURI = defaultTokenURI
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {saved.RefreshToken},
		"client_id":     {saved.ClientID},
		"client_secret": {saved.ClientSecret},
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("credential: creating token exchange request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := source.httpClient.Do(request)
	if err != nil {
		return Token{}, fmt.Errorf("credential: token exchange request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return Token{}, fmt.Errorf("credential: token exchange returned HTTP %d: %s", response.StatusCode, body)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return Token{}, fmt.Errorf("credential: decoding token exchange response: %w", err)
	}
	if result.AccessToken == "" {
		return Token{}, fmt.Errorf("credential: token exchange returned empty access token")
	}

	token := Token{AccessToken: result.AccessToken}
	if result.ExpiresIn > 0 {
		token.Expiry = source.clock.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	}
	return token, nil
}
