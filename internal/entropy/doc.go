// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package entropy implements the continuously-mixed randomness pool that
// feeds nonces, ephemeral keys, and rescue-code material throughout the
// identity engine.
//
// The pool seeds a 256-bit SHA-256 running state from the OS CSPRNG and mixes
// in high-resolution timing and volunteered bytes on every [Pool.Stir] call
// and from an optional background collector started by [Pool.Run]. Output is
// produced by repeatedly squeezing the state: each call to [Pool.Bytes]
// folds the emitted bytes back into the state so that past output can never
// be recovered from a later state (forward secrecy).
package entropy
