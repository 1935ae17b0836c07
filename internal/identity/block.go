// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"encoding/binary"
	"fmt"

	"github.com/MKhiriev/go-sqrl/internal/sqrlcrypto"
)

// BlockType identifies the canonical meaning of an S4 block body.
type BlockType uint16

const (
	// BlockTypeUserAccess is the Type 1 block: password-encrypted IMK+ILK.
	BlockTypeUserAccess BlockType = 1
	// BlockTypeRescue is the Type 2 block: rescue-code-encrypted IUK.
	BlockTypeRescue BlockType = 2
	// BlockTypePreviousIdentities is the Type 3 block: up to four prior
	// IUKs, encrypted under IMK, newest first.
	BlockTypePreviousIdentities BlockType = 3
)

const (
	blockHeaderLen  = 4 // Len + Type, both uint16
	ivLen           = sqrlcrypto.GCMNonceSize
	tagLen          = sqrlcrypto.GCMTagSize
	scryptSaltLen   = 16
	maxPrevIdentity = 4
)

// UserAccessBlock is the Type 1 block: the plaintext header carries the
// EnScrypt parameters and identity options; the ciphertext protects IMK||ILK
// under a key derived from the user's password.
type UserAccessBlock struct {
	// IterationCount is the EnScrypt iteration count used to derive the
	// block's decryption key from the password.
	IterationCount uint32
	// Log2N is the base-2 logarithm of the scrypt N parameter.
	Log2N uint8
	// OptionFlags is the identity's option bitmask (models.IdentityOption).
	OptionFlags uint16
	// HintLength is the number of trailing password characters retained
	// for the hint-lock fast path. Zero disables hint-lock.
	HintLength uint8
	// IdleTimeoutMinutes is how long the identity may sit unlocked before
	// the dispatcher forces a hint-lock.
	IdleTimeoutMinutes uint16
	// ScryptSalt is the random salt passed to EnScrypt.
	ScryptSalt [scryptSaltLen]byte
	// IV is the AES-GCM nonce for this block's ciphertext.
	IV [ivLen]byte
	// Ciphertext is AES-GCM(IMK||ILK), 64 bytes plaintext.
	Ciphertext []byte
	// Tag is the AES-GCM authentication tag.
	Tag [tagLen]byte
}

// RescueBlock is the Type 2 block: the IUK encrypted under a key derived
// from the user's rescue code.
type RescueBlock struct {
	// IterationCount is the EnScrypt iteration count used to derive the
	// block's decryption key from the rescue code.
	IterationCount uint32
	// Log2N is the base-2 logarithm of the scrypt N parameter.
	Log2N uint8
	// ScryptSalt is the random salt passed to EnScrypt.
	ScryptSalt [scryptSaltLen]byte
	// IV is the AES-GCM nonce for this block's ciphertext.
	IV [ivLen]byte
	// Ciphertext is AES-GCM(IUK), 32 bytes plaintext.
	Ciphertext []byte
	// Tag is the AES-GCM authentication tag.
	Tag [tagLen]byte
}

// PreviousIdentitiesBlock is the Type 3 block: up to four prior IUKs,
// newest first, encrypted together under IMK.
type PreviousIdentitiesBlock struct {
	// Count is the number of prior IUKs stored, at most 4.
	Count uint16
	// IV is the AES-GCM nonce for this block's ciphertext.
	IV [ivLen]byte
	// Ciphertext is AES-GCM(IUK_0 || IUK_1 || ... ), Count*32 bytes
	// plaintext.
	Ciphertext []byte
	// Tag is the AES-GCM authentication tag.
	Tag [tagLen]byte
}

// RawBlock preserves an unrecognized block verbatim, header and body
// together, so that [Container.Emit] can reproduce it byte-for-byte.
type RawBlock struct {
	// Type is the block's 16-bit type tag.
	Type uint16
	// Raw is the full block, including its own Len and Type fields.
	Raw []byte
}

func (b *UserAccessBlock) encode() []byte {
	body := make([]byte, 0, 4+2+1+2+1+2+scryptSaltLen+ivLen+len(b.Ciphertext)+tagLen)
	body = binary.LittleEndian.AppendUint32(body, b.IterationCount)
	body = append(body, b.Log2N)
	body = binary.LittleEndian.AppendUint16(body, b.OptionFlags)
	body = append(body, b.HintLength)
	body = binary.LittleEndian.AppendUint16(body, b.IdleTimeoutMinutes)
	body = append(body, b.ScryptSalt[:]...)

	header := make([]byte, blockHeaderLen)
	binary.LittleEndian.PutUint16(header, uint16(blockHeaderLen+len(body)+ivLen+len(b.Ciphertext)+tagLen))
	binary.LittleEndian.PutUint16(header[2:], uint16(BlockTypeUserAccess))

	out := append(header, body...)
	out = append(out, b.IV[:]...)
	out = append(out, b.Ciphertext...)
	out = append(out, b.Tag[:]...)
	return out
}

// aad returns the additional authenticated data covering this block's
// plaintext header ("everything up to the AAD terminator").
func (b *UserAccessBlock) aad() []byte {
	full := b.encode()
	return full[:blockHeaderLen+4+1+2+1+2+scryptSaltLen]
}

func decodeUserAccessBlock(body []byte) (*UserAccessBlock, error) {
	const fixedLen = 4 + 1 + 2 + 1 + 2 + scryptSaltLen + ivLen + tagLen
	if len(body) < fixedLen {
		return nil, fmt.Errorf("%w: type 1 block too short", ErrCorrupt)
	}

	b := &UserAccessBlock{}
	off := 0
	b.IterationCount = binary.LittleEndian.Uint32(body[off:])
	off += 4
	b.Log2N = body[off]
	off++
	b.OptionFlags = binary.LittleEndian.Uint16(body[off:])
	off += 2
	b.HintLength = body[off]
	off++
	b.IdleTimeoutMinutes = binary.LittleEndian.Uint16(body[off:])
	off += 2
	copy(b.ScryptSalt[:], body[off:off+scryptSaltLen])
	off += scryptSaltLen
	copy(b.IV[:], body[off:off+ivLen])
	off += ivLen

	ctLen := len(body) - off - tagLen
	if ctLen < 0 {
		return nil, fmt.Errorf("%w: type 1 ciphertext length underflow", ErrCorrupt)
	}
	b.Ciphertext = append([]byte(nil), body[off:off+ctLen]...)
	off += ctLen
	copy(b.Tag[:], body[off:off+tagLen])

	return b, nil
}

func (b *RescueBlock) encode() []byte {
	body := make([]byte, 0, 4+1+scryptSaltLen+ivLen+len(b.Ciphertext)+tagLen)
	body = binary.LittleEndian.AppendUint32(body, b.IterationCount)
	body = append(body, b.Log2N)
	body = append(body, b.ScryptSalt[:]...)

	header := make([]byte, blockHeaderLen)
	binary.LittleEndian.PutUint16(header, uint16(blockHeaderLen+len(body)+ivLen+len(b.Ciphertext)+tagLen))
	binary.LittleEndian.PutUint16(header[2:], uint16(BlockTypeRescue))

	out := append(header, body...)
	out = append(out, b.IV[:]...)
	out = append(out, b.Ciphertext...)
	out = append(out, b.Tag[:]...)
	return out
}

func (b *RescueBlock) aad() []byte {
	full := b.encode()
	return full[:blockHeaderLen+4+1+scryptSaltLen]
}

func decodeRescueBlock(body []byte) (*RescueBlock, error) {
	const fixedLen = 4 + 1 + scryptSaltLen + ivLen + tagLen
	if len(body) < fixedLen {
		return nil, fmt.Errorf("%w: type 2 block too short", ErrCorrupt)
	}

	b := &RescueBlock{}
	off := 0
	b.IterationCount = binary.LittleEndian.Uint32(body[off:])
	off += 4
	b.Log2N = body[off]
	off++
	copy(b.ScryptSalt[:], body[off:off+scryptSaltLen])
	off += scryptSaltLen
	copy(b.IV[:], body[off:off+ivLen])
	off += ivLen

	ctLen := len(body) - off - tagLen
	if ctLen < 0 {
		return nil, fmt.Errorf("%w: type 2 ciphertext length underflow", ErrCorrupt)
	}
	b.Ciphertext = append([]byte(nil), body[off:off+ctLen]...)
	off += ctLen
	copy(b.Tag[:], body[off:off+tagLen])

	return b, nil
}

func (b *PreviousIdentitiesBlock) encode() []byte {
	header := make([]byte, blockHeaderLen)
	binary.LittleEndian.PutUint16(header, uint16(blockHeaderLen+2+ivLen+len(b.Ciphertext)+tagLen))
	binary.LittleEndian.PutUint16(header[2:], uint16(BlockTypePreviousIdentities))

	out := binary.LittleEndian.AppendUint16(header, b.Count)
	out = append(out, b.IV[:]...)
	out = append(out, b.Ciphertext...)
	out = append(out, b.Tag[:]...)
	return out
}

func (b *PreviousIdentitiesBlock) aad() []byte {
	full := b.encode()
	return full[:blockHeaderLen+2]
}

func decodePreviousIdentitiesBlock(body []byte) (*PreviousIdentitiesBlock, error) {
	const fixedLen = 2 + ivLen + tagLen
	if len(body) < fixedLen {
		return nil, fmt.Errorf("%w: type 3 block too short", ErrCorrupt)
	}

	b := &PreviousIdentitiesBlock{}
	off := 0
	b.Count = binary.LittleEndian.Uint16(body[off:])
	off += 2
	if b.Count > maxPrevIdentity {
		return nil, fmt.Errorf("%w: type 3 count exceeds maximum", ErrCorrupt)
	}
	copy(b.IV[:], body[off:off+ivLen])
	off += ivLen

	ctLen := len(body) - off - tagLen
	if ctLen < 0 {
		return nil, fmt.Errorf("%w: type 3 ciphertext length underflow", ErrCorrupt)
	}
	b.Ciphertext = append([]byte(nil), body[off:off+ctLen]...)
	off += ctLen
	copy(b.Tag[:], body[off:off+tagLen])

	return b, nil
}
