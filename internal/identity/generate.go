// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/MKhiriev/go-sqrl/internal/entropy"
	"github.com/MKhiriev/go-sqrl/internal/sqrlcrypto"
	"github.com/MKhiriev/go-sqrl/models"
)

// GenerateParams bundles the tunables an identity-generation action draws
// from configuration rather than hardcoding, mirroring the EnScrypt
// parameters the dispatcher picks (log2N sized to the host,
// iteration count sized to the configured time budget).
type GenerateParams struct {
	// Log2N is the base-2 logarithm of scrypt's N parameter for both the
	// Type 1 and Type 2 blocks.
	Log2N uint8
	// PasswordIterations is the EnScrypt iteration count for the Type 1
	// block.
	PasswordIterations uint32
	// RescueIterations is the EnScrypt iteration count for the Type 2
	// block.
	RescueIterations uint32
	// HintLength is the number of trailing password characters retained
	// for hint-lock. Zero disables hint-lock.
	HintLength uint8
	// IdleTimeoutMinutes is the configured hint-lock idle timeout.
	IdleTimeoutMinutes uint16
	// Options is the identity's initial option bitmask.
	Options models.IdentityOption
}

// Generate draws a fresh Identity Unlock Key from pool, derives IMK and ILK,
// and builds a new two-block Container protected by password and the
// returned rescue code. The rescue code is returned once, formatted as
// three groups of eight digits, and is never retained by the returned User.
//
// ctx is observed once per EnScrypt round while the two blocks are
// sealed, so a cancelled generation stops within one scrypt iteration.
func Generate(ctx context.Context, pool *entropy.Pool, password string, params GenerateParams) (*User, string, error) {
	var iuk [32]byte
	copy(iuk[:], pool.Bytes(sqrlcrypto.KeySize))

	imk := sqrlcrypto.EnHash(iuk)
	ilk, err := sqrlcrypto.GenerateIdentityLockKey(iuk)
	if err != nil {
		return nil, "", fmt.Errorf("identity: generate ilk: %w", err)
	}

	rescueCode, err := GenerateRescueCode()
	if err != nil {
		return nil, "", fmt.Errorf("identity: generate rescue code: %w", err)
	}
	normalizedRescue, err := normalizeRescueCode(rescueCode)
	if err != nil {
		return nil, "", fmt.Errorf("identity: normalize freshly generated rescue code: %w", err)
	}

	userAccess, err := sealUserAccessBlock(ctx, password, imk, ilk, params)
	if err != nil {
		return nil, "", err
	}
	rescue, err := sealRescueBlock(ctx, normalizedRescue, iuk, params)
	if err != nil {
		return nil, "", err
	}

	container := &Container{UserAccess: userAccess, Rescue: rescue}
	user := newUser(container, &iuk, &imk, &ilk, uint16(params.Options), int(params.HintLength))
	user.saveSuggested = true

	return user, rescueCode, nil
}

func sealUserAccessBlock(ctx context.Context, password string, imk, ilk [32]byte, params GenerateParams) (*UserAccessBlock, error) {
	b := &UserAccessBlock{
		IterationCount:     params.PasswordIterations,
		Log2N:              params.Log2N,
		OptionFlags:        uint16(params.Options),
		HintLength:         params.HintLength,
		IdleTimeoutMinutes: params.IdleTimeoutMinutes,
	}
	if _, err := rand.Read(b.ScryptSalt[:]); err != nil {
		return nil, fmt.Errorf("identity: user access salt: %w", err)
	}
	if _, err := rand.Read(b.IV[:]); err != nil {
		return nil, fmt.Errorf("identity: user access iv: %w", err)
	}

	key, err := sqrlcrypto.EnScryptWithContext(ctx, []byte(password), b.ScryptSalt[:], int(b.IterationCount), uint(b.Log2N))
	if err != nil {
		return nil, fmt.Errorf("identity: user access kdf: %w", err)
	}

	plaintext := make([]byte, 0, 64)
	plaintext = append(plaintext, imk[:]...)
	plaintext = append(plaintext, ilk[:]...)

	// aad() folds the block's Len field, which depends on the ciphertext's
	// length, into the header it returns; size Ciphertext to its final
	// length before computing aad so the same bytes authenticate on Open.
	b.Ciphertext = make([]byte, len(plaintext))
	sealed, err := sqrlcrypto.SealGCM(key[:], b.IV[:], b.aad(), plaintext)
	if err != nil {
		return nil, fmt.Errorf("identity: user access seal: %w", err)
	}
	b.Ciphertext = sealed[:len(sealed)-sqrlcrypto.GCMTagSize]
	copy(b.Tag[:], sealed[len(sealed)-sqrlcrypto.GCMTagSize:])

	return b, nil
}

func sealRescueBlock(ctx context.Context, normalizedRescue string, iuk [32]byte, params GenerateParams) (*RescueBlock, error) {
	b := &RescueBlock{
		IterationCount: params.RescueIterations,
		Log2N:          params.Log2N,
	}
	if _, err := rand.Read(b.ScryptSalt[:]); err != nil {
		return nil, fmt.Errorf("identity: rescue salt: %w", err)
	}
	if _, err := rand.Read(b.IV[:]); err != nil {
		return nil, fmt.Errorf("identity: rescue iv: %w", err)
	}

	key, err := sqrlcrypto.EnScryptWithContext(ctx, []byte(normalizedRescue), b.ScryptSalt[:], int(b.IterationCount), uint(b.Log2N))
	if err != nil {
		return nil, fmt.Errorf("identity: rescue kdf: %w", err)
	}

	b.Ciphertext = make([]byte, len(iuk))
	sealed, err := sqrlcrypto.SealGCM(key[:], b.IV[:], b.aad(), iuk[:])
	if err != nil {
		return nil, fmt.Errorf("identity: rescue seal: %w", err)
	}
	b.Ciphertext = sealed[:len(sealed)-sqrlcrypto.GCMTagSize]
	copy(b.Tag[:], sealed[len(sealed)-sqrlcrypto.GCMTagSize:])

	return b, nil
}
