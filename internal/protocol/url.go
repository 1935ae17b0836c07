// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protocol

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// URL is a parsed SQRL identity URL: scheme sqrl:// or qrl://, an
// authority naming the SQRL-enabled host, and a query carrying at least
// "nut=" and optionally "sfn=".
type URL struct {
	// Secure is true for scheme "sqrl" (TLS expected) and false for "qrl"
	// (the server opted out of certificate checking per the protocol's
	// own "unsecured" convention).
	Secure bool
	// Authority is the host (and optional port) component.
	Authority string
	// Path is the URL path, used together with an "x=" extension to
	// compute the per-site key-derivation domain.
	Path string
	// Nut is the server-issued nonce from the "nut=" query parameter.
	Nut string
	// SFN is the server-friendly name from the optional "sfn=" query
	// parameter, shown to the user in ASK prompts.
	SFN string
	// Query holds every query parameter, including nut/sfn, for callers
	// that need values this type does not surface directly.
	Query url.Values

	raw string
}

// String returns the URL's original textual form.
func (u *URL) String() string { return u.raw }

// ParseURL parses a sqrl:// or qrl:// identity URL. It returns
// [ErrUnsupportedScheme], [ErrMissingAuthority], or [ErrMissingNut] for a
// structurally invalid URL.
func ParseURL(raw string) (*URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("protocol: parse url: %w", err)
	}

	var secure bool
	switch strings.ToLower(parsed.Scheme) {
	case "sqrl":
		secure = true
	case "qrl":
		secure = false
	default:
		return nil, ErrUnsupportedScheme
	}

	if parsed.Host == "" {
		return nil, ErrMissingAuthority
	}

	query := parsed.Query()
	nut := query.Get("nut")
	if nut == "" {
		return nil, ErrMissingNut
	}

	return &URL{
		Secure:    secure,
		Authority: parsed.Host,
		Path:      parsed.Path,
		Nut:       nut,
		SFN:       query.Get("sfn"),
		Query:     query,
		raw:       raw,
	}, nil
}

// PostURL returns the HTTP endpoint a client command for this identity
// URL is POSTed to: the sqrl scheme maps to https, qrl to http, with the
// authority, path, and query preserved.
func (u *URL) PostURL() string {
	scheme := "https"
	if !u.Secure {
		scheme = "http"
	}
	endpoint := scheme + "://" + u.Authority + u.Path
	if encoded := u.Query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}

// QryURL resolves a server-reply "qry=" value (a path with its own query
// string) against this identity URL's scheme and authority, producing the
// endpoint the next command in the same transaction is POSTed to.
func (u *URL) QryURL(qry string) string {
	scheme := "https"
	if !u.Secure {
		scheme = "http"
	}
	return scheme + "://" + u.Authority + qry
}

// SiteKeyDomain returns the domain string used for per-site key
// derivation: the authority, plus a caller-requested number of leading
// path bytes when the URL carries an "x=" extension (the standard SQRL
// mechanism for sites that need their signing domain to include a path
// prefix, e.g. multi-tenant hosting). Absent "x=", the domain is the bare
// authority.
func (u *URL) SiteKeyDomain() string {
	x := u.Query.Get("x")
	if x == "" {
		return u.Authority
	}

	n, err := strconv.Atoi(x)
	if err != nil || n <= 0 {
		return u.Authority
	}
	if n > len(u.Path) {
		n = len(u.Path)
	}

	return u.Authority + u.Path[:n]
}
