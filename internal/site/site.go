// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package site

import "sync"

// Ask holds the message and button labels of a pending ASK callback
// awaiting the embedder's answer, as described by the ASK
// callback record.
type Ask struct {
	// Message is the text to present to the user.
	Message string
	// Button1 and Button2 are the labels of the two buttons offered.
	// Button2 is empty when the server's "ask=" value carried only one.
	Button1, Button2 string
}

// Action holds per-authentication state that survives across server
// round-trips within a single transaction with one site: the user's
// alternate-identity selection, the session nonce returned by the most
// recent server reply, and any ASK awaiting an answer.
//
// Action owns altIdentity exclusively: callers read
// it through [Action.AltIdentity] and change it only through
// [Action.SetAltIdentity]; no other type ever frees or reassigns it.
//
// The zero value is ready to use.
type Action struct {
	mu sync.Mutex

	altIdentity string
	nonce       string
	ask         *Ask
}

// New returns a fresh, empty Action.
func New() *Action {
	return &Action{}
}

// AltIdentity returns the currently selected alternate-identity string, or
// the empty string if the site's default identity presentation is in use.
func (a *Action) AltIdentity() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.altIdentity
}

// SetAltIdentity replaces the alternate-identity selection. It is the only
// way altIdentity is ever mutated; there is no corresponding free/release
// call for callers to race against.
func (a *Action) SetAltIdentity(alt string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.altIdentity = alt
}

// Nonce returns the most recent server-issued session nonce ("nut")
// observed for this site exchange.
func (a *Action) Nonce() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nonce
}

// SetNonce records the session nonce from a server reply, to be echoed in
// the next outbound command.
func (a *Action) SetNonce(nonce string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nonce = nonce
}

// PendingAsk returns the Ask awaiting an embedder answer, if any.
func (a *Action) PendingAsk() (ask Ask, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ask == nil {
		return Ask{}, false
	}
	return *a.ask, true
}

// SetPendingAsk records a new ASK for the embedder to answer.
func (a *Action) SetPendingAsk(ask Ask) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ask = &ask
}

// ClearAsk discards any pending ASK once the embedder has answered it.
func (a *Action) ClearAsk() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ask = nil
}

// HasPendingAsk reports whether an ASK is currently awaiting an answer.
func (a *Action) HasPendingAsk() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ask != nil
}
