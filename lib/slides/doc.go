// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package slides is a batching client core for a remote
// presentation-editing service.
//
// A Client is one logical editing context. It accumulates wire-ready
// mutation operations in an ordered per-context queue and submits them
// as one atomic batchUpdate call on Flush; on failure the queue is left
// fully intact, so a flush never loses or partially applies operations.
// Every outbound call runs under a per-context exponential-backoff
// retry schedule that absorbs rate limits, 5xx responses, and network
// timeouts.
//
// Clients form a tree. The root attaches a credential.Credential and a
// HandleSet (one opened connection per sub-service: presentations,
// spreadsheets, file storage) once; CreateChildClient hands those out
// by reference while giving each child its own empty queue. Expensive
// connections are therefore shared across arbitrarily many concurrent
// callers, while queue state stays strictly isolated: one child per
// goroutine is the intended concurrency model.
//
// The document model itself (slides, shapes, tables, text) lives in a
// separate layer; it supplies Request values and reads generated IDs
// back out of BatchUpdateReply.
package slides
