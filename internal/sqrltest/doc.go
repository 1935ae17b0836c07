// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package sqrltest implements a minimal, in-memory SQRL site server for
// integration tests: it issues nonces, accepts the same signed
// Base64URL command body a real [internal/action.Action] sends, verifies
// the signature, and replies with a well-formed server reply body.
//
// It is test-only scaffolding, not a production site implementation.
package sqrltest
