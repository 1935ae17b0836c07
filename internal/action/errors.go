// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package action

import "errors"

// ErrorKind classifies why an Action reached DONE(FAILED).
type ErrorKind int

const (
	// ErrorKindNone is the zero value; a successful or still-working
	// Action carries no error kind.
	ErrorKindNone ErrorKind = iota
	// ErrorKindBadPassword mirrors [identity.ErrBadPassword].
	ErrorKindBadPassword
	// ErrorKindBadRescueCode mirrors [identity.ErrBadRescueCode].
	ErrorKindBadRescueCode
	// ErrorKindBadHint mirrors [identity.ErrBadHint].
	ErrorKindBadHint
	// ErrorKindCorrupt mirrors [identity.ErrCorrupt].
	ErrorKindCorrupt
	// ErrorKindUnsupportedVersion mirrors [identity.ErrUnsupportedVersion].
	ErrorKindUnsupportedVersion
	// ErrorKindNetworkFailure reports a transport failure the embedder
	// surfaced via [Action.SupplyResponse]'s error path.
	ErrorKindNetworkFailure
	// ErrorKindCancelled reports a user- or embedder-requested
	// cancellation.
	ErrorKindCancelled
	// ErrorKindTimeout reports a SEND callback with no matching response
	// within the configured deadline.
	ErrorKindTimeout
	// ErrorKindInternalInvariant reports a state the Action should never
	// be able to reach; the dispatcher fails the Action like any other
	// error kind, but callers should treat it as a programmer error, not
	// a user-facing one.
	ErrorKindInternalInvariant
)

// String returns a human-readable label for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindBadPassword:
		return "bad_password"
	case ErrorKindBadRescueCode:
		return "bad_rescue_code"
	case ErrorKindBadHint:
		return "bad_hint"
	case ErrorKindCorrupt:
		return "corrupt"
	case ErrorKindUnsupportedVersion:
		return "unsupported_version"
	case ErrorKindNetworkFailure:
		return "network_failure"
	case ErrorKindCancelled:
		return "cancelled"
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindInternalInvariant:
		return "internal_invariant"
	default:
		return "none"
	}
}

// PublicMessage returns the message an embedder should show a human for
// this error kind. Per spec's side-channel requirement, BadPassword,
// BadRescueCode, Corrupt, and UnsupportedVersion collapse to one generic
// message here: a failed decrypt must never let a user distinguish "wrong
// password" from "unreadable file" by its wording, even though the
// dispatcher's own retry logic (stepAuthenticatingLocked) still sees the
// distinct [ErrorKind] values. Callers presenting a failed Action to a
// human should use this instead of formatting [Action.Err] or
// [ErrorKind.String] directly.
func (k ErrorKind) PublicMessage() string {
	switch k {
	case ErrorKindBadPassword, ErrorKindBadRescueCode, ErrorKindCorrupt, ErrorKindUnsupportedVersion:
		return "incorrect credential or unreadable identity file"
	case ErrorKindBadHint:
		return "incorrect hint"
	case ErrorKindNetworkFailure:
		return "network failure"
	case ErrorKindCancelled:
		return "cancelled"
	case ErrorKindTimeout:
		return "timed out waiting for a response"
	case ErrorKindInternalInvariant:
		return "internal error"
	default:
		return "unknown error"
	}
}

var (
	// ErrNotAwaitingCredential is returned by [Action.SupplyCredential]
	// when the Action is not currently suspended awaiting one.
	ErrNotAwaitingCredential = errors.New("action: not awaiting a credential")

	// ErrNotAwaitingAnswer is returned by [Action.SupplyAnswer] when the
	// Action is not currently suspended on an ASK.
	ErrNotAwaitingAnswer = errors.New("action: not awaiting an ask answer")

	// ErrNotAwaitingResponse is returned by [Action.SupplyResponse] when
	// the Action is not currently in SENDING.
	ErrNotAwaitingResponse = errors.New("action: not awaiting a server response")

	// ErrNotAwaitingUser is returned by [Action.SupplyUser] when the
	// Action did not request a user selection.
	ErrNotAwaitingUser = errors.New("action: not awaiting user selection")

	// ErrNotAwaitingAlt is returned by [Action.SupplyAltIdentity] when
	// the Action did not request an alternate-identity selection, or has
	// already received one.
	ErrNotAwaitingAlt = errors.New("action: not awaiting alternate identity selection")

	// ErrAlreadyTerminal is returned by any Supply* method once the
	// Action has reached DONE.
	ErrAlreadyTerminal = errors.New("action: already done")

	// ErrWrongCredentialKind is returned when a supplied credential's
	// kind does not match what the Action currently requested.
	ErrWrongCredentialKind = errors.New("action: unexpected credential kind")
)
