// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package encoding

import (
	"crypto/sha256"
	"math/big"
	"strings"
)

// LineLength is the number of Base56 content characters per line before the
// trailing check digit.
const LineLength = 19

// Base56CheckEncode encodes data as Base56 and splits the result into
// LineLength-character lines, appending one trailing check digit to each
// line: checkDigit = (lineIndex + SHA256(line ‖ previousCheckDigit)) mod 56,
// where previousCheckDigit is 0 for the first line. Lines are newline-
// separated. This is the textual form used for rescue-code export.
func Base56CheckEncode(data []byte) string {
	payload := Base56Encode(data)

	var lines []string
	prevCheck := int64(0)

	for i := 0; i < len(payload) || i == 0; i += LineLength {
		end := i + LineLength
		if end > len(payload) {
			end = len(payload)
		}
		content := payload[i:end]

		check := checkDigit(i/LineLength, content, prevCheck)
		lines = append(lines, content+string(base56Alphabet[check]))
		prevCheck = check

		if end == len(payload) {
			break
		}
	}

	return strings.Join(lines, "\n")
}

// Base56CheckDecode inverts [Base56CheckEncode]. It returns
// [ErrInvalidChecksum] if any line's check digit does not match its
// content, and [ErrEmptyLine] if a line is too short to contain a check
// digit.
func Base56CheckDecode(text string) ([]byte, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var payload strings.Builder
	prevCheck := int64(0)

	for i, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if len(line) < 1 {
			return nil, ErrEmptyLine
		}

		content := line[:len(line)-1]
		checkChar := line[len(line)-1]

		expected := checkDigit(i, content, prevCheck)
		if base56Alphabet[expected] != checkChar {
			return nil, ErrInvalidChecksum
		}

		payload.WriteString(content)
		prevCheck = expected
	}

	return Base56Decode(payload.String())
}

// checkDigit computes the Base56Check line checksum.
func checkDigit(lineIndex int, content string, previousCheck int64) int64 {
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte{byte(previousCheck)})
	digest := h.Sum(nil)

	sum := new(big.Int).SetBytes(digest)
	sum.Add(sum, big.NewInt(int64(lineIndex)))

	mod := new(big.Int).Mod(sum, base56Radix)
	return mod.Int64()
}
