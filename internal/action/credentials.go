// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package action

import (
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/models"
)

// SupplyUser answers a pending SELECT_USER callback, binding u as the
// Action's identity. It is invalid once the Action is not awaiting a
// user.
func (a *Action) SupplyUser(u *identity.User) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDone {
		return ErrAlreadyTerminal
	}
	if !a.awaitingUser {
		return ErrNotAwaitingUser
	}

	a.user = u
	a.awaitingUser = false
	return nil
}

// SupplyAltIdentity answers a pending SELECT_ALT callback. alt may be
// empty, meaning the site's default identity presentation; a non-empty
// value extends the per-site key-derivation domain so the same identity
// presents a distinct keypair to the same site.
func (a *Action) SupplyAltIdentity(alt string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDone {
		return ErrAlreadyTerminal
	}
	if !a.altRequested || a.altSupplied {
		return ErrNotAwaitingAlt
	}

	a.site.SetAltIdentity(alt)
	a.altSupplied = true
	return nil
}

// SupplyCredential answers a pending AUTH_REQUIRED callback. kind must
// match the credential currently requested; value is the raw credential
// bytes (a UTF-8 password or a 24-digit rescue code).
func (a *Action) SupplyCredential(kind models.CredentialKind, value []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDone {
		return ErrAlreadyTerminal
	}
	if a.state != StateAuthenticating {
		return ErrNotAwaitingCredential
	}

	expected := a.expectedCredentialKindLocked()
	if kind != expected {
		// An authentication action's requested password may be answered
		// with the short hint instead, when the bound User is currently
		// hint-locked.
		if !(expected == models.CredentialPassword && kind == models.CredentialHint && a.isNetworkAction()) {
			return ErrWrongCredentialKind
		}
	}

	a.creds[kind] = string(value)
	return nil
}

// SupplyAnswer answers a pending ASK callback with the index of the
// button the user pressed (0 or 1). A negative index is treated as a
// cancellation of the transaction.
func (a *Action) SupplyAnswer(buttonIndex int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDone {
		return ErrAlreadyTerminal
	}
	if !a.site.HasPendingAsk() {
		return ErrNotAwaitingAnswer
	}
	if buttonIndex < 0 {
		a.cancelRequested = true
		return nil
	}

	a.askAnswer = buttonIndex
	a.askAvailable = true
	return nil
}

// SupplyResponse answers a pending SEND callback with the server's raw
// reply bytes. A non-nil transportErr reports a transport-level failure
// (connection refused, TLS error, …) that the dispatcher surfaces as
// [ErrorKindNetworkFailure] instead of attempting to parse a reply.
func (a *Action) SupplyResponse(reply []byte, transportErr error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDone {
		return ErrAlreadyTerminal
	}
	if a.state != StateSending {
		return ErrNotAwaitingResponse
	}

	a.response = reply
	a.responseErr = transportErr
	return nil
}

// RequestCancel asks the Action to transition to DONE(CANCELLED) at its
// next Step call. It never rolls back a server command already sent.
func (a *Action) RequestCancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelRequested = true
}

// expectedCredentialKindLocked returns the credential kind the Action is
// currently waiting on, resolving identity-load's source-dependent
// dynamic requirement. Callers must hold a.mu.
func (a *Action) expectedCredentialKindLocked() models.CredentialKind {
	if a.credIndex >= len(a.requiredCreds) {
		return models.CredentialUnspecified
	}
	if a.typ == models.ActionIdentityLoad {
		return a.identityLoadCredentialKindLocked()
	}
	return a.requiredCreds[a.credIndex]
}

// identityLoadCredentialKindLocked inspects the parsed source container to
// decide whether a password or a rescue code is needed: whichever the
// source container's block type requires. Callers must hold a.mu.
func (a *Action) identityLoadCredentialKindLocked() models.CredentialKind {
	if a.container == nil {
		return models.CredentialPassword
	}
	if a.container.UserAccess != nil {
		return models.CredentialPassword
	}
	return models.CredentialRescueCode
}
