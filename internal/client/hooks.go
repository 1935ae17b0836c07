// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/models"
)

//go:generate mockgen -source=hooks.go -destination=../mock/hooks_mock.go -package=mock

// Hooks is the callback contract an embedder implements to drive a
// Client's transactions. Every method is invoked from the goroutine that
// calls [Client.Loop], one at a time, in the order the underlying
// Actions raised them; a Hooks implementation must not block for long
// inside any of them.
type Hooks interface {
	// OnLoop is called once at the start of every [Client.Loop]
	// invocation, before that call drains any queued callback. It is the
	// polymorphic "onLoop hook" step of the dispatcher's loop contract;
	// most embedders leave it empty. It must not block.
	OnLoop()
	// OnSaveSuggested reports that user gained a persistable mutation
	// (a fresh identity, a rekey, a password change) and should be
	// written to durable storage.
	OnSaveSuggested(user *identity.User)
	// OnSelectUser requests that the embedder bind an existing User to
	// act via [Client.SelectUser], or submit a fresh identity-load
	// Action if none is loaded yet.
	OnSelectUser(act *action.Action)
	// OnSelectAlt requests that the embedder supply an alternate-identity
	// string via [Client.SelectAlt]; raised only for Actions submitted
	// with [SubmitOptions.RequestAltIdentity]. An empty answer selects
	// the site's default identity presentation.
	OnSelectAlt(act *action.Action)
	// OnAuthRequired requests a credential of the given kind via
	// [Client.Authenticate].
	OnAuthRequired(act *action.Action, kind models.CredentialKind)
	// OnSend requests that the embedder POST payload to url and report
	// the raw reply via [Client.Respond].
	OnSend(act *action.Action, url string, payload []byte)
	// OnAsk requests that the embedder present message with the given
	// button labels (button2 empty means only one button was offered)
	// and report the choice via [Client.Answer].
	OnAsk(act *action.Action, message, button1, button2 string)
	// OnProgress reports an advisory 0-100 completion estimate for act,
	// delivered whenever the estimate changes. Embedders typically feed
	// it to a progress bar or ignore it.
	OnProgress(act *action.Action, percent int)
	// OnActionComplete reports that act reached its terminal state;
	// act.Status() and act.ErrorKind() describe the outcome.
	OnActionComplete(act *action.Action)
}

// callbackKind identifies which Hooks method a queued [callbackRecord]
// should invoke once drained.
type callbackKind int

const (
	callbackSaveSuggested callbackKind = iota
	callbackSelectUser
	callbackSelectAlt
	callbackAuthRequired
	callbackSend
	callbackAsk
	callbackProgress
	callbackActionComplete
)

// callbackRecord is one entry of the Client's FIFO callback queue,
// unifying every Hooks call behind a single queue; there is no
// special-cased progress path.
type callbackRecord struct {
	kind callbackKind

	act  *action.Action
	user *identity.User

	credentialKind models.CredentialKind

	sendURL     string
	sendPayload []byte

	askMessage, askButton1, askButton2 string

	progress int
}
