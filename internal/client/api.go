// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/models"
)

// SubmitOptions configures a new Action at submission time. Every field
// is optional; which ones an Action actually needs depends on typ.
type SubmitOptions struct {
	// Source is the raw S4 container bytes an identity-load Action
	// decrypts.
	Source []byte
	// TargetURL is the SQRL URL a network Action (query/ident/disable/
	// enable/remove) authenticates against.
	TargetURL string
	// User preselects the identity a network, rekey, or change-password
	// Action acts on, skipping the SELECT_USER callback.
	User *identity.User
	// RequestAltIdentity raises the SELECT_ALT callback before the
	// Action's first server round-trip, letting the embedder present a
	// distinct keypair to the same site (see [Client.SelectAlt]).
	RequestAltIdentity bool
}

// Submit creates and queues a new Action of the given type. The Action
// is not stepped until a later [Client.Loop] call reaches it.
func (c *Client) Submit(typ models.ActionType, opts SubmitOptions) (*action.Action, error) {
	id := c.ids.Generate()
	a := action.New(id, typ, c.deps)

	if len(opts.Source) > 0 {
		a.SetSource(opts.Source)
	}
	if opts.TargetURL != "" {
		if err := a.SetTargetURL(opts.TargetURL); err != nil {
			return nil, err
		}
	}
	if opts.User != nil {
		a.PresetUser(opts.User)
	}
	if opts.RequestAltIdentity {
		a.RequestAltSelection()
	}

	c.mu.Lock()
	c.actions = append(c.actions, a)
	c.mu.Unlock()

	return a, nil
}

// SelectUser answers a pending SELECT_USER callback for actionID, binding
// the User identified by uniqueID (see [identity.User.GetUniqueId]).
func (c *Client) SelectUser(actionID, uniqueID string) error {
	a := c.getAction(actionID)
	if a == nil {
		return ErrUnknownAction
	}
	u := c.getUserByUniqueID(uniqueID)
	if u == nil {
		return ErrUnknownUser
	}
	return a.SupplyUser(u)
}

// SelectAlt answers a pending SELECT_ALT callback for actionID with the
// alternate-identity string to mix into per-site key derivation. An empty
// alt keeps the site's default identity presentation.
func (c *Client) SelectAlt(actionID, alt string) error {
	a := c.getAction(actionID)
	if a == nil {
		return ErrUnknownAction
	}
	return a.SupplyAltIdentity(alt)
}

// Authenticate answers a pending AUTH_REQUIRED callback for actionID with
// a raw credential value (a password, a rescue code, or a hint).
func (c *Client) Authenticate(actionID string, kind models.CredentialKind, value []byte) error {
	a := c.getAction(actionID)
	if a == nil {
		return ErrUnknownAction
	}
	return a.SupplyCredential(kind, value)
}

// Answer answers a pending ASK callback for actionID with the index of
// the button pressed (0 or 1); a negative index cancels the Action.
func (c *Client) Answer(actionID string, buttonIndex int) error {
	a := c.getAction(actionID)
	if a == nil {
		return ErrUnknownAction
	}
	return a.SupplyAnswer(buttonIndex)
}

// Respond answers a pending SEND callback for actionID with the server's
// raw reply bytes, or a transport-level error if the request never
// completed.
func (c *Client) Respond(actionID string, reply []byte, transportErr error) error {
	a := c.getAction(actionID)
	if a == nil {
		return ErrUnknownAction
	}
	return a.SupplyResponse(reply, transportErr)
}

// Cancel requests that actionID transition to DONE(CANCELLED) at its
// next step.
func (c *Client) Cancel(actionID string) error {
	a := c.getAction(actionID)
	if a == nil {
		return ErrUnknownAction
	}
	a.RequestCancel()
	return nil
}
