// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "errors"

var (
	// ErrAlreadyRunning is returned by [New] when a Client is already
	// running in this process.
	ErrAlreadyRunning = errors.New("client: a client is already running")

	// ErrNilHooks is returned by [New] when hooks is nil; a Client with
	// no callback target cannot report anything back to an embedder.
	ErrNilHooks = errors.New("client: hooks must not be nil")

	// ErrUnknownAction is returned by any per-Action API method
	// (Authenticate, SelectUser, Answer, Respond, Cancel) when actionID
	// does not name an Action this Client currently holds.
	ErrUnknownAction = errors.New("client: unknown action id")

	// ErrUnknownUser is returned by [Client.SelectUser] when uniqueID
	// does not name a User this Client currently holds.
	ErrUnknownUser = errors.New("client: unknown user id")
)
