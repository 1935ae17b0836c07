// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/MKhiriev/go-sqrl/internal/encoding"
	"github.com/MKhiriev/go-sqrl/internal/sqrlcrypto"
	"github.com/MKhiriev/go-sqrl/models"
)

// hintLock caches enough material to reconstruct a zeroised IMK from a
// correct hint, without retaining the full password or the IMK itself.
type hintLock struct {
	salt       [16]byte
	iv         [sqrlcrypto.GCMNonceSize]byte
	ciphertext []byte
	tag        [sqrlcrypto.GCMTagSize]byte
}

// User is the in-memory counterpart to an S4 [Container]: the container's
// encrypted blocks plus whatever plaintext key material is currently held.
//
// A zero-value User is not usable; construct one via [Load] or [Generate].
type User struct {
	mu sync.Mutex

	container *Container

	iuk *[32]byte
	imk *[32]byte
	ilk *[32]byte

	hint *hintLock

	uniqueID      string
	options       models.IdentityOption
	hintLength    int
	saveSuggested bool
	refCount      int
	tag           any
}

// Container returns the User's underlying S4 container. Mutating methods
// ([User.Save], [User.Rekey]) update it in place; callers that need a
// snapshot should call [Container.Emit] immediately after.
func (u *User) Container() *Container {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.container
}

// GetUniqueId returns the User's 43-character Base64URL unique identifier,
// Base64URL(SHA-256(ILK)). The value never changes for the lifetime of a
// User once its ILK is known, including across hint-lock/hint-unlock
// cycles.
func (u *User) GetUniqueId() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.uniqueID
}

// Tag returns the opaque value an embedder previously attached via
// [User.SetTag].
func (u *User) Tag() any {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.tag
}

// SetTag attaches an opaque embedder-supplied value to the User, used by
// the dispatcher's getUserByTag lookup.
func (u *User) SetTag(tag any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tag = tag
}

// SaveSuggested reports whether the User has mutated persisting state
// since it was last saved.
func (u *User) SaveSuggested() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.saveSuggested
}

// Hold increments the User's reference count. Users are destroyed only
// when their reference count returns to zero.
func (u *User) Hold() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.refCount++
}

// Release decrements the User's reference count. When the count reaches
// zero, all plaintext key material is zeroised; the User must not be used
// afterward. Returns the reference count observed after decrementing.
func (u *User) Release() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.refCount > 0 {
		u.refCount--
	}

	if u.refCount == 0 {
		u.zeroiseLocked()
	}

	return u.refCount
}

func (u *User) zeroiseLocked() {
	zero := func(p *[32]byte) {
		if p == nil {
			return
		}
		for i := range p {
			p[i] = 0
		}
	}
	zero(u.iuk)
	zero(u.imk)
	zero(u.ilk)
	u.iuk, u.imk, u.ilk = nil, nil, nil
}

// IMK returns the held Identity Master Key. ok is false if the User is
// currently hint-locked or has no plaintext key material.
func (u *User) IMK() (key [32]byte, ok bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.imk == nil {
		return key, false
	}
	return *u.imk, true
}

// ILK returns the Identity Lock Key, which is public data and remains
// available even while the User is hint-locked.
func (u *User) ILK() (key [32]byte, ok bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.ilk == nil {
		return key, false
	}
	return *u.ilk, true
}

// Options returns the identity's option bitmask, as stored in the Type 1
// block header at load/generate/save time.
func (u *User) Options() models.IdentityOption {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.options
}

// IsHintLocked reports whether the User currently holds no plaintext IMK
// and instead carries a hint-lock cache.
func (u *User) IsHintLocked() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hint != nil
}

// HintLock compresses the held IMK under a fast KDF keyed by the last
// hintLength characters of password, then zeroises the full IMK and IUK,
// retaining only enough entropy to reconstruct IMK given a correct hint.
//
// It is a no-op if the User is already hint-locked or holds no IMK.
func (u *User) HintLock(password string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.imk == nil || u.hintLength == 0 {
		return nil
	}

	hint := hintSuffix(password, u.hintLength)

	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return fmt.Errorf("identity: hint-lock salt: %w", err)
	}

	key := argon2.IDKey([]byte(hint), salt[:], 1, 64*1024, 2, sqrlcrypto.KeySize)

	var iv [sqrlcrypto.GCMNonceSize]byte
	if _, err := rand.Read(iv[:]); err != nil {
		return fmt.Errorf("identity: hint-lock iv: %w", err)
	}

	sealed, err := sqrlcrypto.SealGCM(key, iv[:], u.uniqueIDBytes(), u.imk[:])
	if err != nil {
		return fmt.Errorf("identity: hint-lock seal: %w", err)
	}

	ciphertext := sealed[:len(sealed)-sqrlcrypto.GCMTagSize]
	var tag [sqrlcrypto.GCMTagSize]byte
	copy(tag[:], sealed[len(sealed)-sqrlcrypto.GCMTagSize:])

	u.hint = &hintLock{salt: salt, iv: iv, ciphertext: ciphertext, tag: tag}
	// ILK is public and stays held; only IUK and IMK are zeroised.
	ilk := u.ilk
	u.ilk = nil
	u.zeroiseLocked()
	u.ilk = ilk

	return nil
}

// HintUnlock reconstructs the IMK from a hint-lock cache given the same
// trailing password characters used to create it. Returns [ErrBadHint] if
// the hint does not reproduce a valid IMK.
func (u *User) HintUnlock(password string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.hint == nil {
		return nil
	}

	hint := hintSuffix(password, u.hintLength)
	key := argon2.IDKey([]byte(hint), u.hint.salt[:], 1, 64*1024, 2, sqrlcrypto.KeySize)

	sealed := append(append([]byte(nil), u.hint.ciphertext...), u.hint.tag[:]...)
	plaintext, err := sqrlcrypto.OpenGCM(key, u.hint.iv[:], u.uniqueIDBytes(), sealed)
	if err != nil {
		return ErrBadHint
	}

	var imk [32]byte
	copy(imk[:], plaintext)
	u.imk = &imk
	u.hint = nil

	return nil
}

// Unlock re-derives IMK and ILK from the User's Type 1 block using
// password, observing ctx once per EnScrypt round so a caller (typically
// an authentication Action re-verifying a password after the User was
// hint-locked) can be cancelled within one round. It leaves the User's
// unique-id unchanged, since that is fixed by ILK at load/generate time.
//
// Returns [ErrBadPassword] on an AEAD tag mismatch, [ErrHintLocked] if the
// User holds no Type 1 block to verify against, or ctx.Err() if cancelled
// mid-derivation.
func (u *User) Unlock(ctx context.Context, password string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	block := u.container.UserAccess
	if block == nil {
		return ErrHintLocked
	}

	key, err := sqrlcrypto.EnScryptWithContext(ctx, []byte(password), block.ScryptSalt[:], int(block.IterationCount), uint(block.Log2N))
	if err != nil {
		return err
	}

	sealed := append(append([]byte(nil), block.Ciphertext...), block.Tag[:]...)
	plaintext, err := sqrlcrypto.OpenGCM(key[:], block.IV[:], block.aad(), sealed)
	if err != nil {
		return ErrBadPassword
	}
	if len(plaintext) != 64 {
		return ErrCorrupt
	}

	var imk, ilk [32]byte
	copy(imk[:], plaintext[:32])
	copy(ilk[:], plaintext[32:])

	u.imk = &imk
	u.ilk = &ilk
	u.hint = nil

	return nil
}

// UnlockIUK decrypts the User's Type 2 (rescue) block under rescueCode and
// holds the recovered Identity Unlock Key, without disturbing any IMK/ILK
// already held. A User produced by [Load] with a password alone never
// retains IUK; this is how a rekey transaction recovers it from the old
// rescue code before generating a replacement. ctx is observed once per
// EnScrypt round, as in [User.Unlock].
//
// Returns [ErrBadRescueCode] on an AEAD tag mismatch, or [ErrNoRescueBlock]
// if the container carries no Type 2 block.
func (u *User) UnlockIUK(ctx context.Context, rescueCode string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	block := u.container.Rescue
	if block == nil {
		return ErrNoRescueBlock
	}

	normalized, err := normalizeRescueCode(rescueCode)
	if err != nil {
		return ErrBadRescueCode
	}

	key, err := sqrlcrypto.EnScryptWithContext(ctx, []byte(normalized), block.ScryptSalt[:], int(block.IterationCount), uint(block.Log2N))
	if err != nil {
		return err
	}

	sealed := append(append([]byte(nil), block.Ciphertext...), block.Tag[:]...)
	plaintext, err := sqrlcrypto.OpenGCM(key[:], block.IV[:], block.aad(), sealed)
	if err != nil {
		return ErrBadRescueCode
	}
	if len(plaintext) != 32 {
		return ErrCorrupt
	}

	var iuk [32]byte
	copy(iuk[:], plaintext)
	u.iuk = &iuk

	return nil
}

func hintSuffix(password string, n int) string {
	if n <= 0 || n > len(password) {
		return password
	}
	return password[len(password)-n:]
}

func (u *User) uniqueIDBytes() []byte {
	return []byte(u.uniqueID)
}

// Load decrypts a freshly [Parse]d Container, deriving the User's
// plaintext key material from exactly one credential: password decrypts
// the Type 1 block, rescueCode decrypts the Type 2 block. Exactly one of
// password/rescueCode must be non-empty.
//
// Returns [ErrBadPassword]/[ErrBadRescueCode] when the credential does not
// decrypt its block (a rescue code without exactly [RescueCodeDigits]
// digits also yields [ErrBadRescueCode]), [ErrNoUserAccessBlock]/
// [ErrNoRescueBlock] if the required block is absent, or [ErrCorrupt] if
// the decrypted plaintext has the wrong length. The credential errors are
// returned as distinct sentinels for errors.Is matching by the
// dispatcher's retry logic; a caller that surfaces errors to a human
// reports [ErrBadPassword] the same way as [ErrCorrupt].
func Load(ctx context.Context, container *Container, password, rescueCode string) (*User, error) {
	switch {
	case rescueCode != "":
		return loadFromRescue(ctx, container, rescueCode)
	case password != "":
		return loadFromPassword(ctx, container, password)
	default:
		return nil, errors.New("identity: load requires a password or rescue code")
	}
}

func loadFromPassword(ctx context.Context, container *Container, password string) (*User, error) {
	block := container.UserAccess
	if block == nil {
		return nil, ErrNoUserAccessBlock
	}

	key, err := sqrlcrypto.EnScryptWithContext(ctx, []byte(password), block.ScryptSalt[:], int(block.IterationCount), uint(block.Log2N))
	if err != nil {
		return nil, err
	}

	sealed := append(append([]byte(nil), block.Ciphertext...), block.Tag[:]...)
	plaintext, err := sqrlcrypto.OpenGCM(key[:], block.IV[:], block.aad(), sealed)
	if err != nil {
		return nil, ErrBadPassword
	}
	if len(plaintext) != 64 {
		return nil, ErrCorrupt
	}

	var imk, ilk [32]byte
	copy(imk[:], plaintext[:32])
	copy(ilk[:], plaintext[32:])

	return newUser(container, nil, &imk, &ilk, block.OptionFlags, int(block.HintLength)), nil
}

func loadFromRescue(ctx context.Context, container *Container, rescueCode string) (*User, error) {
	block := container.Rescue
	if block == nil {
		return nil, ErrNoRescueBlock
	}

	normalized, err := normalizeRescueCode(rescueCode)
	if err != nil {
		return nil, ErrBadRescueCode
	}

	key, err := sqrlcrypto.EnScryptWithContext(ctx, []byte(normalized), block.ScryptSalt[:], int(block.IterationCount), uint(block.Log2N))
	if err != nil {
		return nil, err
	}

	sealed := append(append([]byte(nil), block.Ciphertext...), block.Tag[:]...)
	plaintext, err := sqrlcrypto.OpenGCM(key[:], block.IV[:], block.aad(), sealed)
	if err != nil {
		return nil, ErrBadRescueCode
	}
	if len(plaintext) != 32 {
		return nil, ErrCorrupt
	}

	var iuk [32]byte
	copy(iuk[:], plaintext)
	imk := sqrlcrypto.EnHash(iuk)
	ilk, err := sqrlcrypto.GenerateIdentityLockKey(iuk)
	if err != nil {
		return nil, fmt.Errorf("identity: %w: %w", ErrCorrupt, err)
	}

	var hintLen int
	if container.UserAccess != nil {
		hintLen = int(container.UserAccess.HintLength)
	}
	var options models.IdentityOption
	if container.UserAccess != nil {
		options = models.IdentityOption(container.UserAccess.OptionFlags)
	}

	return newUser(container, &iuk, &imk, &ilk, uint16(options), hintLen), nil
}

func newUser(container *Container, iuk, imk, ilk *[32]byte, options uint16, hintLength int) *User {
	return &User{
		container:  container,
		iuk:        iuk,
		imk:        imk,
		ilk:        ilk,
		options:    models.IdentityOption(options),
		hintLength: hintLength,
		uniqueID:   sqrlIDHash(*ilk),
		refCount:   1,
	}
}

func sqrlIDHash(ilk [32]byte) string {
	sum := sqrlcrypto.SHA256(ilk[:])
	return encoding.Base64URLEncode(sum[:])
}
