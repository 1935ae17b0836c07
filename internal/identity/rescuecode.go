// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// RescueCodeDigits is the number of decimal digits in a SQRL rescue code
// (three groups of eight, 79.7 bits of entropy).
const RescueCodeDigits = 24

// normalizeRescueCode strips any formatting (spaces, hyphens) from a
// user-entered rescue code and validates that exactly [RescueCodeDigits]
// decimal digits remain.
func normalizeRescueCode(input string) (string, error) {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) != RescueCodeDigits {
		return "", fmt.Errorf("identity: rescue code must have %d digits, got %d", RescueCodeDigits, len(digits))
	}

	return digits, nil
}

// GenerateRescueCode draws [RescueCodeDigits] cryptographically random
// decimal digits and returns them formatted as three groups of eight
// separated by spaces, the form shown to the user once at generation time.
func GenerateRescueCode() (string, error) {
	digits := make([]byte, RescueCodeDigits)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("identity: rescue code entropy: %w", err)
		}
		digits[i] = byte('0') + byte(n.Int64())
	}

	raw := string(digits)
	return raw[0:8] + " " + raw[8:16] + " " + raw[16:24], nil
}
