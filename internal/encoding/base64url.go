// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package encoding

import "encoding/base64"

// Base64URLEncode encodes data using unpadded, URL-safe Base64, the form
// used throughout SQRL's wire payloads and identity file format.
func Base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// Base64URLDecode decodes s, produced by [Base64URLEncode] or any compliant
// unpadded Base64URL encoder.
func Base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
