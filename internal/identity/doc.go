// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package identity implements the S4 typed-block identity container and the
// in-memory User type built on top of it.
//
// An S4 container is an ordered sequence of typed blocks: a password-
// encrypted Type 1 (user access) block, a rescue-code-encrypted Type 2
// (rescue) block, an IMK-encrypted Type 3 (previous identities) block, and
// any number of unrecognized block types preserved verbatim. [Parse] and
// [Container.Emit] round-trip a container byte-for-byte except for
// intentional re-encryption; [Container.Emit] always writes blocks in
// canonical order (1, 2, 3, then unknowns in the order they were parsed).
//
// [User] wraps a Container with the plaintext key material it protects. A
// loaded User holds decrypted IUK/IMK/ILK until [User.HintLock] compresses
// IMK into a fast-unlock hint (zeroising IUK and IMK, keeping the public
// ILK) or [User.Release] zeroises them entirely.
package identity
