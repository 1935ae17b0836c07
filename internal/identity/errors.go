// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import "errors"

var (
	// ErrBadPassword is returned when a Type 1 block fails to decrypt
	// under the supplied password. This MUST be reported
	// identically to [ErrCorrupt] by any caller that surfaces errors to a
	// human, so that an unknown cipher cannot be distinguished from an
	// unknown password.
	ErrBadPassword = errors.New("identity: bad password")

	// ErrBadRescueCode is returned when a Type 2 block fails to decrypt
	// under the supplied rescue code.
	ErrBadRescueCode = errors.New("identity: bad rescue code")

	// ErrCorrupt is returned for any structural failure: truncated
	// blocks, a length field that overflows the remaining buffer, or an
	// AEAD tag mismatch not attributable to a specific credential.
	ErrCorrupt = errors.New("identity: corrupt container")

	// ErrUnsupportedVersion is the block-version sentinel matched by
	// callers' errors.Is checks. No function in this package returns it:
	// block headers carry no version field, and unknown block types are
	// kept as [RawBlock] rather than rejected.
	ErrUnsupportedVersion = errors.New("identity: unsupported block version")

	// ErrNoUserAccessBlock is returned by Load when the container has no
	// Type 1 block and the caller did not request rescue-only load.
	ErrNoUserAccessBlock = errors.New("identity: container has no user access block")

	// ErrNoRescueBlock is returned by Load when the container has no
	// Type 2 block but a rescue code was supplied.
	ErrNoRescueBlock = errors.New("identity: container has no rescue block")

	// ErrHintLocked is returned by operations that require plaintext key
	// material while the User is hint-locked.
	ErrHintLocked = errors.New("identity: user is hint-locked")

	// ErrBadHint is returned by [User.HintUnlock] when the supplied hint
	// does not reproduce the cached hint-lock key.
	ErrBadHint = errors.New("identity: bad hint")
)
