// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package encoding

import "errors"

var (
	// ErrInvalidBase56Digit is returned when a decoded string contains a
	// byte that is not a member of [base56Alphabet].
	ErrInvalidBase56Digit = errors.New("invalid base56 digit")

	// ErrInvalidChecksum is returned by [Base56CheckDecode] when a line's
	// trailing check digit does not match the line's content.
	ErrInvalidChecksum = errors.New("invalid base56check line checksum")

	// ErrEmptyLine is returned by [Base56CheckDecode] when a line is too
	// short to contain a check digit.
	ErrEmptyLine = errors.New("base56check line has no check digit")
)
