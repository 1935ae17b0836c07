// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/MKhiriev/go-sqrl/internal/sqrlcrypto"
)

// Save re-encrypts the User's Type 1 block under password with a fresh salt
// and IV, updating its EnScrypt parameters and option flags from params, and
// clears [User.SaveSuggested]. It requires a held, non-hint-locked IMK and
// ILK; callers should check [User.IsHintLocked] first. ctx is observed
// once per EnScrypt round while the block is re-sealed.
//
// The returned byte stream is the container's canonical S4 form, ready to
// be persisted by the caller.
func (u *User) Save(ctx context.Context, password string, params GenerateParams) ([]byte, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.imk == nil || u.ilk == nil {
		return nil, ErrHintLocked
	}

	block, err := sealUserAccessBlock(ctx, password, *u.imk, *u.ilk, params)
	if err != nil {
		return nil, err
	}

	u.container.UserAccess = block
	u.options = params.Options
	u.hintLength = int(params.HintLength)
	u.saveSuggested = false

	return u.container.Emit(), nil
}

// Rekey retires the User's current Identity Unlock Key, generating a fresh
// one and re-deriving IMK and ILK from it. The retired key is preserved,
// encrypted under the new IMK, in the container's Type 3 block, newest
// first, keeping at most the four most recent prior identities. It requires
// a held IUK (i.e. the User was produced by [Generate] or by [Load] with a
// rescue code); returns [ErrNoRescueBlock] otherwise, since a User loaded by
// password alone never retains IUK.
//
// On success Rekey reseals Type 1 and Type 2 blocks under newPassword and a
// freshly generated rescue code, returned once to the caller, and returns
// the container's canonical S4 byte stream. ctx is observed once per
// EnScrypt round while the replacement blocks are sealed.
func (u *User) Rekey(ctx context.Context, newIUK [32]byte, newPassword string, params GenerateParams) (rescueCode string, s4 []byte, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.iuk == nil {
		return "", nil, ErrNoRescueBlock
	}

	newIMK := sqrlcrypto.EnHash(newIUK)
	newILK, err := sqrlcrypto.GenerateIdentityLockKey(newIUK)
	if err != nil {
		return "", nil, fmt.Errorf("identity: rekey ilk: %w", err)
	}

	prev, err := pushPreviousIdentity(*u.imk, *u.iuk, newIMK, u.container.PreviousIdentities)
	if err != nil {
		return "", nil, err
	}

	rescueCode, err = GenerateRescueCode()
	if err != nil {
		return "", nil, fmt.Errorf("identity: rekey rescue code: %w", err)
	}
	normalizedRescue, err := normalizeRescueCode(rescueCode)
	if err != nil {
		return "", nil, fmt.Errorf("identity: rekey normalize rescue code: %w", err)
	}

	userAccess, err := sealUserAccessBlock(ctx, newPassword, newIMK, newILK, params)
	if err != nil {
		return "", nil, err
	}
	rescue, err := sealRescueBlock(ctx, normalizedRescue, newIUK, params)
	if err != nil {
		return "", nil, err
	}

	u.container.UserAccess = userAccess
	u.container.Rescue = rescue
	u.container.PreviousIdentities = prev

	var iuk = newIUK
	u.iuk = &iuk
	u.imk = &newIMK
	u.ilk = &newILK
	u.uniqueID = sqrlIDHash(newILK)
	u.saveSuggested = true

	return rescueCode, u.container.Emit(), nil
}

// pushPreviousIdentity decrypts any existing Type 3 block under oldIMK,
// prepends retiredIUK, keeps at most [maxPrevIdentity] entries newest
// first, and re-seals the result under newIMK.
func pushPreviousIdentity(oldIMK, retiredIUK, newIMK [32]byte, existing *PreviousIdentitiesBlock) (*PreviousIdentitiesBlock, error) {
	prior := [][32]byte{retiredIUK}

	if existing != nil {
		sealed := append(append([]byte(nil), existing.Ciphertext...), existing.Tag[:]...)
		plaintext, err := sqrlcrypto.OpenGCM(oldIMK[:], existing.IV[:], existing.aad(), sealed)
		if err != nil {
			return nil, fmt.Errorf("%w: previous identities block failed to decrypt", ErrCorrupt)
		}
		for off := 0; off+32 <= len(plaintext) && len(prior) < maxPrevIdentity; off += 32 {
			var k [32]byte
			copy(k[:], plaintext[off:off+32])
			prior = append(prior, k)
		}
	}

	if len(prior) > maxPrevIdentity {
		prior = prior[:maxPrevIdentity]
	}

	b := &PreviousIdentitiesBlock{Count: uint16(len(prior))}
	if _, err := rand.Read(b.IV[:]); err != nil {
		return nil, fmt.Errorf("identity: previous identities iv: %w", err)
	}

	plaintext := make([]byte, 0, len(prior)*32)
	for _, k := range prior {
		plaintext = append(plaintext, k[:]...)
	}

	b.Ciphertext = make([]byte, len(plaintext))
	sealed, err := sqrlcrypto.SealGCM(newIMK[:], b.IV[:], b.aad(), plaintext)
	if err != nil {
		return nil, fmt.Errorf("identity: previous identities seal: %w", err)
	}
	b.Ciphertext = sealed[:len(sealed)-sqrlcrypto.GCMTagSize]
	copy(b.Tag[:], sealed[len(sealed)-sqrlcrypto.GCMTagSize:])

	return b, nil
}
