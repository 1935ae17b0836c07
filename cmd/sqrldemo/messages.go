// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/models"
)

// The Hooks methods in hooks.go run on the Client's dispatcher goroutine
// and must never block or touch Bubble Tea state directly; each one
// forwards exactly one of these messages through [tea.Program.Send],
// which is safe to call from any goroutine, and the real handling
// happens in [model.Update] on Bubble Tea's own goroutine.

type saveSuggestedMsg struct {
	user *identity.User
}

type selectUserMsg struct {
	act *action.Action
}

type selectAltMsg struct {
	act *action.Action
}

type progressMsg struct {
	act     *action.Action
	percent int
}

type authRequiredMsg struct {
	act  *action.Action
	kind models.CredentialKind
}

type sendMsg struct {
	act     *action.Action
	url     string
	payload []byte
}

type askMsg struct {
	act                       *action.Action
	message, button1, button2 string
}

type actionCompleteMsg struct {
	act *action.Action
}

// sendResultMsg carries a transport round-trip's outcome back from the
// goroutine [model.sendCmd] runs it on.
type sendResultMsg struct {
	actionID string
	reply    []byte
	err      error
}

// loopTickMsg paces [model]'s calls to [client.Client.Loop]: this demo is
// the dispatcher's embedder, so it — not the Client — owns the drive
// loop, per spec's cooperative scheduling model.
type loopTickMsg struct{}
