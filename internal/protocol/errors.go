// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protocol

import "errors"

var (
	// ErrUnsupportedScheme is returned by [ParseURL] when the URL scheme
	// is neither "sqrl" nor "qrl".
	ErrUnsupportedScheme = errors.New("protocol: unsupported url scheme")

	// ErrMissingAuthority is returned by [ParseURL] when the URL has no
	// host component.
	ErrMissingAuthority = errors.New("protocol: url has no authority")

	// ErrMissingNut is returned by [ParseURL] when the query string has
	// no "nut=" parameter.
	ErrMissingNut = errors.New("protocol: url has no nut parameter")

	// ErrMalformedReply is returned by [ParseServerReply] when the
	// decoded reply body is not well-formed key=value lines.
	ErrMalformedReply = errors.New("protocol: malformed server reply")
)
