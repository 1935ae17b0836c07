// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the go-sqrl
// client library and its demo embedder. It aggregates all sub-configurations
// and is populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// KDF holds tunables for EnScrypt/Argon2id key-stretching work.
	KDF KDF `envPrefix:"KDF_"`

	// Entropy holds the minimum-collection-bits threshold for the entropy
	// pool before key generation is allowed to proceed.
	Entropy Entropy `envPrefix:"ENTROPY_"`

	// Workers holds configuration for the background KDF worker pool.
	Workers Workers `envPrefix:"WORKERS_"`

	// Transport holds network timeout settings for the outbound SQRL
	// transaction transport.
	Transport Transport `envPrefix:"TRANSPORT_"`

	// Identity holds default settings applied to newly generated identities.
	Identity Identity `envPrefix:"IDENTITY_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged after the values
	// loaded from environment variables and flags, filling only the fields
	// those sources left zero.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// KDF holds tunables controlling EnScrypt password-stretching and the
// Argon2id hint-lock fast path.
type KDF struct {
	// EnScryptBudget is the wall-clock time budget that identity generation
	// and unlock spend in EnScrypt, defaulting to 5 seconds.
	// Env: KDF_ENSCRYPT_BUDGET
	EnScryptBudget time.Duration `env:"ENSCRYPT_BUDGET"`

	// DefaultLog2N is the base-2 logarithm of the scrypt N (CPU/memory cost)
	// parameter used when no identity-supplied value is present.
	// Env: KDF_DEFAULT_LOG2N
	DefaultLog2N uint `env:"DEFAULT_LOG2N"`

	// HintLength is the number of trailing password characters retained for
	// the Argon2id hint-lock fast path. A zero value is replaced by the
	// default of 4 when the configuration is built.
	// Env: KDF_HINT_LENGTH
	HintLength int `env:"HINT_LENGTH"`

	// HintLockIdleTimeout is how long a held, hint-unlocked identity may sit
	// idle before the dispatcher forces it back into a hint-locked state.
	// Env: KDF_HINT_LOCK_IDLE_TIMEOUT
	HintLockIdleTimeout time.Duration `env:"HINT_LOCK_IDLE_TIMEOUT"`
}

// Entropy holds the minimum entropy-pool estimate, in bits, required before
// an identity-generation Action is allowed to draw key material.
type Entropy struct {
	// MinimumBits is the floor on [internal/entropy.Pool.EstimateBits] below
	// which key generation blocks and reports PROGRESS instead of proceeding.
	// Env: ENTROPY_MINIMUM_BITS
	MinimumBits uint64 `env:"MINIMUM_BITS"`
}

// Workers holds sizing for the bounded KDF worker pool.
type Workers struct {
	// PoolSize is the maximum number of EnScrypt/Argon2id jobs the
	// dispatcher runs concurrently off its own goroutine.
	// Env: WORKERS_POOL_SIZE
	PoolSize int `env:"POOL_SIZE"`
}

// Transport holds timeout settings for the outbound SQRL transaction client.
type Transport struct {
	// RequestTimeout is the maximum duration allowed for a single SQRL
	// client-to-server transaction before it is treated as NetworkFailure.
	// Env: TRANSPORT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Identity holds defaults applied to newly generated identities.
type Identity struct {
	// DefaultOptions is the default SQRL option-flags bitmask written into
	// newly generated Type 1 blocks (see models.IdentityOption).
	// Env: IDENTITY_DEFAULT_OPTIONS
	DefaultOptions uint16 `env:"DEFAULT_OPTIONS"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (the first source that sets a field wins; later sources fill only the
// fields still zero):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults ([configBuilder.withDefaults])
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
