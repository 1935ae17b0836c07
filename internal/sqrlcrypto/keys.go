// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sqrlcrypto

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// clamp applies the standard Curve25519 scalar clamp (RFC 7748 §5) to a
// 32-byte secret, matching the operation the key-hierarchy functions
// perform implicitly on IUK, RLK, and similar scalars.
func clamp(scalar [KeySize]byte) [KeySize]byte {
	out := scalar
	out[0] &= 248
	out[31] &= 127
	out[31] |= 64
	return out
}

// scalarBaseMult computes scalar × Curve25519-basepoint for a clamped
// scalar.
func scalarBaseMult(scalar [KeySize]byte) ([KeySize]byte, error) {
	var out [KeySize]byte
	product, err := curve25519.X25519(scalar[:], curve25519.Basepoint)
	if err != nil {
		return out, fmt.Errorf("scalar base mult: %w", err)
	}
	copy(out[:], product)
	return out, nil
}

// sharedSecret computes the Curve25519 Diffie-Hellman shared point between
// a clamped scalar and a peer's public value.
func sharedSecret(scalar, peer [KeySize]byte) ([KeySize]byte, error) {
	var out [KeySize]byte
	shared, err := curve25519.X25519(scalar[:], peer[:])
	if err != nil {
		return out, fmt.Errorf("shared secret: %w", err)
	}
	copy(out[:], shared)
	return out, nil
}

// GenerateIdentityLockKey derives the Identity Lock Key, the public
// counterpart to iuk on Curve25519: ILK = basepoint × clamp(IUK).
func GenerateIdentityLockKey(iuk [KeySize]byte) ([KeySize]byte, error) {
	return scalarBaseMult(clamp(iuk))
}

// GenerateRandomLockKey returns a fresh, Curve25519-clamped ephemeral scalar
// read from random. A new RLK is generated for every authentication
// exchange.
func GenerateRandomLockKey(random func(int) ([]byte, error)) ([KeySize]byte, error) {
	var rlk [KeySize]byte
	raw, err := random(KeySize)
	if err != nil {
		return rlk, fmt.Errorf("generate rlk: %w", err)
	}
	copy(rlk[:], raw)
	return clamp(rlk), nil
}

// GenerateServerUnlockKey derives the Server Unlock Key that the client
// sends to, and the server stores alongside, the identity: SUK = basepoint
// × RLK.
func GenerateServerUnlockKey(rlk [KeySize]byte) ([KeySize]byte, error) {
	return scalarBaseMult(rlk)
}

// GenerateVerifyUnlockKey derives the Verify Unlock Key the server stores to
// validate future unlock-request signatures: VUK is the Ed25519 public key
// obtained by treating the Curve25519 shared point of (ilk, rlk) as an
// Ed25519 seed.
func GenerateVerifyUnlockKey(ilk, rlk [KeySize]byte) (ed25519.PublicKey, error) {
	shared, err := sharedSecret(rlk, ilk)
	if err != nil {
		return nil, fmt.Errorf("generate vuk: %w", err)
	}
	priv := ed25519.NewKeyFromSeed(shared[:])
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("generate vuk: unexpected public key type")
	}
	return pub, nil
}

// GenerateUnlockRequestSigningKey derives the Unlock Request Signing Key
// from the server-stored SUK and the client's IUK: URSK is the Ed25519
// private key obtained by treating the Curve25519 shared point of
// (suk, iuk) as an Ed25519 seed.
//
// By construction, a signature made with the returned key always verifies
// against [GenerateVerifyUnlockKey](ilk, rlk) for the ilk/rlk pair that
// produced suk, because X25519(rlk, ilk) and X25519(iuk, suk) compute the
// same shared point.
func GenerateUnlockRequestSigningKey(suk, iuk [KeySize]byte) (ed25519.PrivateKey, error) {
	shared, err := sharedSecret(clamp(iuk), suk)
	if err != nil {
		return nil, fmt.Errorf("generate ursk: %w", err)
	}
	return ed25519.NewKeyFromSeed(shared[:]), nil
}

// DeriveSiteKeyPair deterministically derives the Ed25519 signing keypair a
// given identity presents to domain. The seed is HMAC-SHA256(IMK, domain),
// truncated to an Ed25519 seed; the derivation never persists and is
// recomputed on every authentication.
func DeriveSiteKeyPair(imk [KeySize]byte, domain string) ed25519.PrivateKey {
	mac := hmac.New(sha256.New, imk[:])
	mac.Write([]byte(domain))
	seed := mac.Sum(nil)
	return ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
}

// Sign produces an Ed25519 signature of message under priv.
func Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Verify reports whether sig is a valid Ed25519 signature of message under
// pub.
func Verify(pub ed25519.PublicKey, message, sig []byte) bool {
	return ed25519.Verify(pub, message, sig)
}
