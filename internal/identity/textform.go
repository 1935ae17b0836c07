// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"bytes"
	"fmt"

	"github.com/MKhiriev/go-sqrl/internal/encoding"
)

// textMagic is the literal prefix that marks an S4 container's textual
// (Base64URL) form, as opposed to its raw binary form.
const textMagic = "sqrldata"

// EncodeText renders a canonical S4 byte stream in its textual form: the
// "sqrldata" magic followed by the Base64URL encoding of data, the form
// used when an identity is exported to a file a user might copy by hand.
func EncodeText(data []byte) string {
	return textMagic + encoding.Base64URLEncode(data)
}

// DecodeText reverses [EncodeText], accepting either the textual form or
// raw binary bytes (detected by the absence of the magic prefix), so
// callers can load an identity file without knowing in advance which form
// it was saved in.
func DecodeText(s string) ([]byte, error) {
	if len(s) >= len(textMagic) && s[:len(textMagic)] == textMagic {
		return encoding.Base64URLDecode(s[len(textMagic):])
	}
	return []byte(s), nil
}

// EncodeRescueExport renders a rescue code (as returned by [Generate] or
// [User.Rekey]) in the Base56Check form suitable for printing or QR-encoding
// for offline storage: digits only, line-checksummed so a single
// transcription error is caught before it is ever fed back to [Load].
func EncodeRescueExport(rescueCode string) (string, error) {
	normalized, err := normalizeRescueCode(rescueCode)
	if err != nil {
		return "", err
	}
	return encoding.Base56CheckEncode([]byte(normalized)), nil
}

// DecodeRescueExport reverses [EncodeRescueExport], returning
// [ErrBadRescueCode] if the checksum fails or the decoded payload is not a
// well-formed rescue code.
func DecodeRescueExport(text string) (string, error) {
	raw, err := encoding.Base56CheckDecode(text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadRescueCode, err)
	}
	code, err := normalizeRescueCode(string(bytes.TrimSpace(raw)))
	if err != nil {
		return "", ErrBadRescueCode
	}
	return code, nil
}
