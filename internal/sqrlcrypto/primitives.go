// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sqrlcrypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/scrypt"
)

const (
	// enHashRounds is the fixed number of SHA-256 rounds folded into EnHash.
	enHashRounds = 16

	// enScryptR and enScryptP are EnScrypt's fixed scrypt block-size and
	// parallelism parameters, per the SQRL spec.
	enScryptR = 256
	enScryptP = 1

	// KeySize is the size in bytes of every key in the SQRL hierarchy
	// (IUK, IMK, ILK, RLK, SUK) and of an EnHash/EnScrypt output.
	KeySize = 32

	// GCMNonceSize and GCMTagSize are the fixed AES-GCM parameters used for
	// every authenticated encryption in the identity container.
	GCMNonceSize = 12
	GCMTagSize   = 16
)

// EnHash implements the SQRL EnHash construction: 16 rounds of
// state = SHA-256(state), XOR-folding every round's output into an
// accumulator. It is used to derive the Identity Master Key from the
// Identity Unlock Key.
func EnHash(input [KeySize]byte) [KeySize]byte {
	var accumulator [KeySize]byte
	state := input

	for i := 0; i < enHashRounds; i++ {
		state = sha256.Sum256(state[:])
		for j := range accumulator {
			accumulator[j] ^= state[j]
		}
	}

	return accumulator
}

// EnScrypt implements the SQRL EnScrypt chained, memory-hard KDF: I rounds
// of scrypt, each round reusing the previous round's output as its salt,
// with N = 2^log2N, r = 256, p = 1. The final output is the XOR of every
// round's output, not just the last, so that partial progress still
// contributes unpredictable bits to the result.
//
// iterations must be at least 1. Returns an error only if scrypt's
// parameter validation fails (e.g. an absurd log2N).
func EnScrypt(password, salt []byte, iterations int, log2N uint) ([KeySize]byte, error) {
	if iterations < 1 {
		iterations = 1
	}

	n := 1 << log2N

	round, err := scrypt.Key(password, salt, n, enScryptR, enScryptP, KeySize)
	if err != nil {
		return [KeySize]byte{}, fmt.Errorf("enscrypt: round 0: %w", err)
	}

	var accumulator [KeySize]byte
	copy(accumulator[:], round)

	for i := 1; i < iterations; i++ {
		round, err = scrypt.Key(password, round, n, enScryptR, enScryptP, KeySize)
		if err != nil {
			return [KeySize]byte{}, fmt.Errorf("enscrypt: round %d: %w", i, err)
		}
		for j := range accumulator {
			accumulator[j] ^= round[j]
		}
	}

	return accumulator, nil
}

// EnScryptMillis runs the same EnScrypt chain for a wall-clock budget and
// returns both the derived key and the number of iterations completed.
// Rerunning [EnScrypt] with that iteration count on the same password, salt,
// and log2N reproduces the identical output.
//
// ctx is checked once per scrypt round; cancelling ctx stops the chain
// within one round (roughly one EnScrypt iteration, matching the identity
// engine's cancellation-latency guarantee) and returns ctx.Err() alongside
// whatever partial accumulator had been built, with iterations reporting
// the number of completed rounds.
func EnScryptMillis(ctx context.Context, password, salt []byte, budget time.Duration, log2N uint) (key [KeySize]byte, iterations int, err error) {
	n := 1 << log2N
	deadline := time.Now().Add(budget)

	var accumulator [KeySize]byte
	var round []byte

	for iterations == 0 || time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return accumulator, iterations, ctx.Err()
		default:
		}

		var roundSalt []byte
		if iterations == 0 {
			roundSalt = salt
		} else {
			roundSalt = round
		}

		round, err = scrypt.Key(password, roundSalt, n, enScryptR, enScryptP, KeySize)
		if err != nil {
			return accumulator, iterations, fmt.Errorf("enscryptmillis: round %d: %w", iterations, err)
		}
		for j := range accumulator {
			accumulator[j] ^= round[j]
		}
		iterations++
	}

	return accumulator, iterations, nil
}

// EnScryptWithContext runs the same fixed-iteration EnScrypt chain as
// [EnScrypt], but checks ctx once per round so a caller re-verifying a
// password against an already-tuned iteration count (as an authentication
// Action does against a stored Type 1 block) can still be cancelled within
// one round, matching the cancellation-latency property that
// [EnScryptMillis] callers get for free.
func EnScryptWithContext(ctx context.Context, password, salt []byte, iterations int, log2N uint) ([KeySize]byte, error) {
	if iterations < 1 {
		iterations = 1
	}

	n := 1 << log2N

	select {
	case <-ctx.Done():
		return [KeySize]byte{}, ctx.Err()
	default:
	}

	round, err := scrypt.Key(password, salt, n, enScryptR, enScryptP, KeySize)
	if err != nil {
		return [KeySize]byte{}, fmt.Errorf("enscryptwithcontext: round 0: %w", err)
	}

	var accumulator [KeySize]byte
	copy(accumulator[:], round)

	for i := 1; i < iterations; i++ {
		select {
		case <-ctx.Done():
			return accumulator, ctx.Err()
		default:
		}

		round, err = scrypt.Key(password, round, n, enScryptR, enScryptP, KeySize)
		if err != nil {
			return [KeySize]byte{}, fmt.Errorf("enscryptwithcontext: round %d: %w", i, err)
		}
		for j := range accumulator {
			accumulator[j] ^= round[j]
		}
	}

	return accumulator, nil
}

// SHA256 returns the SHA-256 digest of data. Exposed as a thin wrapper so
// callers outside this package never need to import crypto/sha256 directly
// for SQRL-domain hashing (the unique-id hash, hint-lock AAD, and so on).
func SHA256(data []byte) [KeySize]byte {
	return sha256.Sum256(data)
}

// RandomBytes returns n cryptographically random bytes read directly from
// the OS CSPRNG. Callers that need forward secrecy across many draws should
// prefer an [github.com/MKhiriev/go-sqrl/internal/entropy.Pool] instead.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("random bytes: %w", err)
	}
	return buf, nil
}

// SealGCM encrypts plaintext with AES-GCM under key, using iv as the nonce
// and aad as additional authenticated data. iv must be exactly
// [GCMNonceSize] bytes. The returned ciphertext has the standard AES-GCM
// layout: ciphertext ‖ 16-byte tag.
func SealGCM(key, iv, aad, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != GCMNonceSize {
		return nil, fmt.Errorf("sealgcm: iv must be %d bytes, got %d", GCMNonceSize, len(iv))
	}
	return gcm.Seal(nil, iv, plaintext, aad), nil
}

// OpenGCM decrypts and authenticates ciphertext (as produced by [SealGCM])
// with AES-GCM under key, iv, and aad. A tag mismatch — wrong key or
// corrupted/tampered input — is reported as a generic error; callers must
// not use the error text to distinguish the two cases.
func OpenGCM(key, iv, aad, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != GCMNonceSize {
		return nil, fmt.Errorf("opengcm: iv must be %d bytes, got %d", GCMNonceSize, len(iv))
	}
	plaintext, err := gcm.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("opengcm: authentication failed: %w", err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	gcm, err := cipher.NewGCMWithTagSize(block, GCMTagSize)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}
