// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package slides

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MotleyAI/gslides-api-sub001/lib/credential"
)

// ServiceKind identifies one of the three remote sub-services.
type ServiceKind string

const (
	// Presentations is the presentation-editing service.
	Presentations ServiceKind = "presentations"
	// Spreadsheets is the spreadsheet-editing service.
	Spreadsheets ServiceKind = "spreadsheets"
	// Storage is the file-storage service.
	Storage ServiceKind = "storage"
)

// maxResponseBytes caps how much of a response body is read. Replies
// carry generated object IDs, not document content, so this is generous.
const maxResponseBytes = 32 << 20

// Handle is one opened connection to a remote sub-service. Immutable
// after creation and shared by reference across a whole client tree:
// every call is a stateless request over the underlying transport, so
// concurrent calls from many contexts are safe.
type Handle struct {
	kind       ServiceKind
	baseURL    string
	httpClient *http.Client
}

// NewHandle opens a handle to one sub-service. The base URL must use
// HTTPS.
func NewHandle(kind ServiceKind, baseURL string, httpClient *http.Client) (*Handle, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("slides: %s handle requires HTTPS (got %q)", kind, baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Handle{kind: kind, baseURL: baseURL, httpClient: httpClient}, nil
}

// Kind returns the sub-service this handle is connected to.
func (h *Handle) Kind() ServiceKind { return h.kind }

// callJSON executes one authenticated request with a JSON body (nil for
// no body) and returns the raw response body. Non-2xx responses yield
// an *APIError.
func (h *Handle) callJSON(ctx context.Context, cred *credential.Credential, method, path string, requestBody any) ([]byte, error) {
	var encoded []byte
	if requestBody != nil {
		var err error
		encoded, err = json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("slides: encoding %s request body: %w", h.kind, err)
		}
	}
	return h.callRaw(ctx, cred, method, path, "application/json", encoded)
}

// callRaw executes one authenticated request with a pre-encoded body.
// The body is a byte slice rather than a reader so the retry executor
// can replay the identical request on each attempt.
func (h *Handle) callRaw(ctx context.Context, cred *credential.Credential, method, path, contentType string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("slides: creating %s request: %w", h.kind, err)
	}

	authHeader, err := cred.AuthorizationHeader(ctx)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", authHeader)
	if body != nil {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := h.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("slides: %s %s %s: %w", h.kind, method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("slides: reading %s response: %w", h.kind, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, parseAPIError(h.kind, response.StatusCode, responseBody)
	}
	return responseBody, nil
}

// HandleSet bundles the three sub-service handles. It is created once
// per root client by the connection-bootstrap layer and shared by
// reference across every descendant context — children copy the
// references, never reopen connections, which amortizes the cost of
// opening and authorizing a connection across the whole tree.
type HandleSet struct {
	Presentations *Handle
	Spreadsheets  *Handle
	Storage       *Handle
}

// NewHandleSet opens all three handles against the endpoints in
// settings, sharing one HTTP transport.
func NewHandleSet(settings Settings, httpClient *http.Client) (*HandleSet, error) {
	presentations, err := NewHandle(Presentations, settings.Endpoints.Presentations, httpClient)
	if err != nil {
		return nil, err
	}
	spreadsheets, err := NewHandle(Spreadsheets, settings.Endpoints.Spreadsheets, httpClient)
	if err != nil {
		return nil, err
	}
	storage, err := NewHandle(Storage, settings.Endpoints.Storage, httpClient)
	if err != nil {
		return nil, err
	}
	return &HandleSet{
		Presentations: presentations,
		Spreadsheets:  spreadsheets,
		Storage:       storage,
	}, nil
}

// complete reports whether all three handles are present.
func (s *HandleSet) complete() bool {
	return s != nil && s.Presentations != nil && s.Spreadsheets != nil && s.Storage != nil
}
