// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the process-wide SQRL dispatcher: each call
// to [Client.Loop] steps one live Action, collects the callbacks that
// step and any still-queued ones raise, and delivers them to an
// embedder-supplied [Hooks] implementation. Client owns no goroutine of
// its own; the embedder drives progress by calling Loop repeatedly, the
// cooperative dispatcher-thread model spec's concurrency section
// describes.
//
// Exactly one [Client] may run at a time; [New] enforces this with a
// fallible factory instead of aborting the process.
package client
