// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package slides

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Operation is one wire-ready primitive mutation record, as accepted by
// the presentation service's batchUpdate call.
type Operation = json.RawMessage

// Request is one intended change to a target presentation (insert
// text, resize a table, ...). Implementations live in the document
// model layer; this core only needs the wire form: an ordered list of
// one or more primitive operation records.
type Request interface {
	Requests() ([]Operation, error)
}

// BatchUpdateReply is the presentation service's response to one
// batchUpdate call. Replies holds one entry per submitted operation,
// in order; callers that need generated identifiers (e.g. duplication
// results) read them from here.
type BatchUpdateReply struct {
	PresentationID string            `json:"presentationId"`
	Replies        []json.RawMessage `json:"replies"`
}

// Append serializes the request and adds its operations to the pending
// queue. The queue targets exactly one presentation: appending for a
// different target while operations are pending fails with
// *TargetMismatchError and leaves the queue untouched.
//
// If the client was created with auto-flush, Append flushes
// immediately; a flush failure leaves the appended operations queued.
func (c *Client) Append(ctx context.Context, request Request, targetID string) error {
	if !c.IsInitialized() {
		return ErrNotInitialized
	}
	if targetID == "" {
		return fmt.Errorf("slides: target presentation ID is required")
	}
	if len(c.pending) > 0 && c.targetID != targetID {
		return &TargetMismatchError{Queued: c.targetID, Requested: targetID}
	}

	operations, err := request.Requests()
	if err != nil {
		return fmt.Errorf("slides: serializing request for %q: %w", targetID, err)
	}
	if len(operations) == 0 {
		return nil
	}

	if len(c.pending) == 0 {
		c.targetID = targetID
	}
	c.pending = append(c.pending, operations...)

	if c.autoFlush {
		if _, err := c.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Flush submits every pending operation as one atomic batchUpdate call
// against the target presentation, in append order, through the retry
// executor. On success the queue and target are cleared and the remote
// reply is returned. On failure the queue is left fully intact — never
// partially drained — so the caller can inspect, call Flush again, or
// abandon with Clear.
//
// Flushing an empty queue is a no-op success: no remote call is made.
func (c *Client) Flush(ctx context.Context) (*BatchUpdateReply, error) {
	if !c.IsInitialized() {
		return nil, ErrNotInitialized
	}
	if len(c.pending) == 0 {
		return &BatchUpdateReply{}, nil
	}

	targetID := c.targetID
	payload := struct {
		Requests []Operation `json:"requests"`
	}{Requests: c.pending}
	path := "/presentations/" + url.PathEscape(targetID) + ":batchUpdate"

	var body []byte
	err := c.execute(ctx, "batchUpdate", func(ctx context.Context) error {
		var callErr error
		body, callErr = c.handles.Presentations.callJSON(ctx, c.credential, http.MethodPost, path, payload)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("slides: flushing %d operations to %q: %w", len(c.pending), targetID, err)
	}

	var reply BatchUpdateReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("slides: parsing batchUpdate reply for %q: %w", targetID, err)
	}

	c.logger.Debug("flushed batch",
		"presentation", targetID,
		"operations", len(c.pending),
	)
	c.pending = nil
	c.targetID = ""
	return &reply, nil
}

// Clear discards all pending operations without submitting them. Used
// when abandoning a context.
func (c *Client) Clear() {
	c.pending = nil
	c.targetID = ""
}

// Pending returns the number of queued operations.
func (c *Client) Pending() int { return len(c.pending) }

// TargetID returns the presentation the queue currently targets, or ""
// when the queue is empty.
func (c *Client) TargetID() string { return c.targetID }
