// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package slides

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// Pass-through helpers: single calls that go through the retry
// executor but bypass the pending queue. They do not touch queued
// operations — flush explicitly first if ordering against the queue
// matters.

// GetPresentation fetches the raw presentation document. Decoding into
// the document model is the caller's concern.
func (c *Client) GetPresentation(ctx context.Context, presentationID string) (json.RawMessage, error) {
	if !c.IsInitialized() {
		return nil, ErrNotInitialized
	}

	var body []byte
	err := c.execute(ctx, "getPresentation", func(ctx context.Context) error {
		var callErr error
		body, callErr = c.handles.Presentations.callJSON(ctx, c.credential, http.MethodGet,
			"/presentations/"+url.PathEscape(presentationID), nil)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("slides: getting presentation %q: %w", presentationID, err)
	}
	return json.RawMessage(body), nil
}

// DuplicateObject duplicates one object (a slide, shape, table, ...)
// within a presentation and returns the generated object ID. idMap
// optionally assigns IDs to the duplicates of the object and its
// children; omitted objects get generated IDs.
func (c *Client) DuplicateObject(ctx context.Context, presentationID, objectID string, idMap map[string]string) (string, error) {
	if !c.IsInitialized() {
		return "", ErrNotInitialized
	}

	duplicate := map[string]any{"objectId": objectID}
	if len(idMap) > 0 {
		duplicate["objectIds"] = idMap
	}
	payload := struct {
		Requests []map[string]any `json:"requests"`
	}{Requests: []map[string]any{{"duplicateObject": duplicate}}}
	path := "/presentations/" + url.PathEscape(presentationID) + ":batchUpdate"

	var body []byte
	err := c.execute(ctx, "duplicateObject", func(ctx context.Context) error {
		var callErr error
		body, callErr = c.handles.Presentations.callJSON(ctx, c.credential, http.MethodPost, path, payload)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("slides: duplicating object %q in %q: %w", objectID, presentationID, err)
	}

	var reply struct {
		Replies []struct {
			DuplicateObject struct {
				ObjectID string `json:"objectId"`
			} `json:"duplicateObject"`
		} `json:"replies"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("slides: parsing duplicateObject reply: %w", err)
	}
	if len(reply.Replies) == 0 || reply.Replies[0].DuplicateObject.ObjectID == "" {
		return "", fmt.Errorf("slides: duplicateObject reply carries no object ID")
	}
	return reply.Replies[0].DuplicateObject.ObjectID, nil
}

// SpreadsheetValues reads a value range from the spreadsheet service.
// rangeA1 is in A1 notation (e.g. "Sheet1!A1:C10").
func (c *Client) SpreadsheetValues(ctx context.Context, spreadsheetID, rangeA1 string) ([][]any, error) {
	if !c.IsInitialized() {
		return nil, ErrNotInitialized
	}

	path := "/spreadsheets/" + url.PathEscape(spreadsheetID) + "/values/" + url.PathEscape(rangeA1)
	var body []byte
	err := c.execute(ctx, "spreadsheetValues", func(ctx context.Context) error {
		var callErr error
		body, callErr = c.handles.Spreadsheets.callJSON(ctx, c.credential, http.MethodGet, path, nil)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("slides: reading values %q from %q: %w", rangeA1, spreadsheetID, err)
	}

	var reply struct {
		Values [][]any `json:"values"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("slides: parsing values reply: %w", err)
	}
	return reply.Values, nil
}

// UploadFile uploads content to the file-storage service as a single
// multipart request (metadata plus media) and returns the generated
// file ID.
func (c *Client) UploadFile(ctx context.Context, name, mimeType string, content []byte) (string, error) {
	if !c.IsInitialized() {
		return "", ErrNotInitialized
	}

	// Build the multipart/related body once; the retry executor replays
	// the identical bytes on each attempt.
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	metadataPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		return "", fmt.Errorf("slides: building upload metadata: %w", err)
	}
	if err := json.NewEncoder(metadataPart).Encode(map[string]string{
		"name":     name,
		"mimeType": mimeType,
	}); err != nil {
		return "", fmt.Errorf("slides: encoding upload metadata: %w", err)
	}

	mediaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {mimeType},
	})
	if err != nil {
		return "", fmt.Errorf("slides: building upload media part: %w", err)
	}
	if _, err := mediaPart.Write(content); err != nil {
		return "", fmt.Errorf("slides: writing upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("slides: finalizing upload body: %w", err)
	}

	contentType := "multipart/related; boundary=" + writer.Boundary()
	var body []byte
	err = c.execute(ctx, "uploadFile", func(ctx context.Context) error {
		var callErr error
		body, callErr = c.handles.Storage.callRaw(ctx, c.credential, http.MethodPost,
			"/files?uploadType=multipart", contentType, buffer.Bytes())
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("slides: uploading file %q: %w", name, err)
	}

	var reply struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("slides: parsing upload reply: %w", err)
	}
	if reply.ID == "" {
		return "", fmt.Errorf("slides: upload reply carries no file ID")
	}
	return reply.ID, nil
}
