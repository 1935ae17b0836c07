// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sqrlcrypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sqrl/internal/sqrlcrypto"
)

func TestIdentityLock_RoundTrip(t *testing.T) {
	var iuk [32]byte
	raw, err := sqrlcrypto.RandomBytes(32)
	require.NoError(t, err)
	copy(iuk[:], raw)

	ilk, err := sqrlcrypto.GenerateIdentityLockKey(iuk)
	require.NoError(t, err)

	rlk, err := sqrlcrypto.GenerateRandomLockKey(sqrlcrypto.RandomBytes)
	require.NoError(t, err)

	suk, err := sqrlcrypto.GenerateServerUnlockKey(rlk)
	require.NoError(t, err)

	vuk, err := sqrlcrypto.GenerateVerifyUnlockKey(ilk, rlk)
	require.NoError(t, err)

	ursk, err := sqrlcrypto.GenerateUnlockRequestSigningKey(suk, iuk)
	require.NoError(t, err)

	msg := []byte("This is a test message!")
	sig := sqrlcrypto.Sign(ursk, msg)

	require.True(t, sqrlcrypto.Verify(vuk, msg, sig), "ursk-signed message must verify against vuk")
}

func TestIdentityLock_DifferentIUKsProduceDifferentVUKs(t *testing.T) {
	gen := func() [32]byte {
		var iuk [32]byte
		raw, err := sqrlcrypto.RandomBytes(32)
		require.NoError(t, err)
		copy(iuk[:], raw)
		return iuk
	}

	iuk1, iuk2 := gen(), gen()
	rlk, err := sqrlcrypto.GenerateRandomLockKey(sqrlcrypto.RandomBytes)
	require.NoError(t, err)

	ilk1, err := sqrlcrypto.GenerateIdentityLockKey(iuk1)
	require.NoError(t, err)
	ilk2, err := sqrlcrypto.GenerateIdentityLockKey(iuk2)
	require.NoError(t, err)

	vuk1, err := sqrlcrypto.GenerateVerifyUnlockKey(ilk1, rlk)
	require.NoError(t, err)
	vuk2, err := sqrlcrypto.GenerateVerifyUnlockKey(ilk2, rlk)
	require.NoError(t, err)

	require.NotEqual(t, vuk1, vuk2)
}

func TestDeriveSiteKeyPair_DeterministicPerDomain(t *testing.T) {
	var imk [32]byte
	raw, err := sqrlcrypto.RandomBytes(32)
	require.NoError(t, err)
	copy(imk[:], raw)

	k1 := sqrlcrypto.DeriveSiteKeyPair(imk, "example.com")
	k2 := sqrlcrypto.DeriveSiteKeyPair(imk, "example.com")
	k3 := sqrlcrypto.DeriveSiteKeyPair(imk, "other.example.com")

	require.Equal(t, k1, k2, "same IMK and domain must derive the same keypair")
	require.NotEqual(t, k1, k3, "different domains must derive different keypairs")
}
