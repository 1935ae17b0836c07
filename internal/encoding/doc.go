// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package encoding implements the textual encodings used at the SQRL
// identity engine's boundary: Base64URL (the wire and file encoding for
// binary blocks), Base56 (a checksum-free compact decimal-like alphabet),
// and Base56Check (Base56 grouped into checksummed lines, used for the
// printable rescue-code export).
package encoding
