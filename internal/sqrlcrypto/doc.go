// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package sqrlcrypto implements the client-side zero-knowledge cryptography
// layer for the SQRL identity engine.
//
// # Key hierarchy
//
// Every identity is rooted in one 256-bit secret, the Identity Unlock Key
// (IUK). Everything else is derived:
//
//  1. IMK  = [EnHash](IUK) — the Identity Master Key, used to derive a
//     distinct, deterministic signing keypair per authentication site via
//     [DeriveSiteKeyPair].
//  2. ILK  = [GenerateIdentityLockKey](IUK) — IUK's public counterpart on
//     Curve25519, stored in the identity container so a server can bind a
//     new unlock key on rekey.
//  3. RLK  = [GenerateRandomLockKey] — a fresh ephemeral scalar generated
//     for every authentication.
//  4. SUK  = [GenerateServerUnlockKey](RLK) — sent to, and stored by, the
//     server.
//  5. VUK  = [GenerateVerifyUnlockKey](ILK, RLK) — sent to, and stored by,
//     the server; verifies signatures made with URSK.
//  6. URSK = [GenerateUnlockRequestSigningKey](SUK, IUK) — computed locally
//     from the server's stored SUK and IUK, signs unlock/rekey requests.
//
// VUK and URSK are two ends of the same Diffie-Hellman exchange: the server
// never sees IUK, but a signature made with URSK always verifies against
// VUK, because X25519(rlk, ilk) and X25519(iuk, suk) compute the same shared
// point.
//
// # Primitives
//
// [EnHash] and [EnScrypt] are the two hash constructions unique to SQRL: a
// 16-round SHA-256 XOR-fold, and a chained, memory-hard scrypt KDF. Ed25519
// signing, Curve25519 scalar multiplication, and AES-GCM are otherwise
// standard and exposed as thin, explicit-error wrappers so the rest of the
// module never reaches past this package for raw key material handling.
package sqrlcrypto
