// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package encoding

import "math/big"

// base56Alphabet is Bitcoin's Base58 alphabet (itself chosen to exclude the
// visually ambiguous 0/O and I/l) with the remaining ambiguous pair 1/l-like
// "1" and "o" also dropped, producing the 56-symbol alphabet SQRL calls
// for ("excluding 0,O,I,l"). Index order is significant: index 0 is the
// digit used to represent a leading zero byte.
const base56Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"

var base56Index = func() map[byte]int64 {
	m := make(map[byte]int64, len(base56Alphabet))
	for i := 0; i < len(base56Alphabet); i++ {
		m[base56Alphabet[i]] = int64(i)
	}
	return m
}()

var base56Radix = big.NewInt(int64(len(base56Alphabet)))

// Base56Encode encodes data as a Base56 string: data is treated as a
// big-endian big integer and repeatedly divided by 56, with each remainder
// mapped through [base56Alphabet]. Leading zero bytes in data are preserved
// as leading occurrences of the alphabet's zero digit, exactly as Base58
// preserves them, so Base56Encode/[Base56Decode] round-trips byte strings
// with leading zero bytes.
func Base56Encode(data []byte) string {
	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}

	value := new(big.Int).SetBytes(data)
	zero := big.NewInt(0)
	mod := new(big.Int)

	digits := make([]byte, 0, len(data)*2)
	for value.Cmp(zero) > 0 {
		value.DivMod(value, base56Radix, mod)
		digits = append(digits, base56Alphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		digits = append(digits, base56Alphabet[0])
	}

	reverse(digits)
	return string(digits)
}

// Base56Decode inverts [Base56Encode]. It returns an error if s contains a
// byte outside [base56Alphabet].
func Base56Decode(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == base56Alphabet[0] {
		zeros++
	}

	value := big.NewInt(0)
	for i := 0; i < len(s); i++ {
		digit, ok := base56Index[s[i]]
		if !ok {
			return nil, ErrInvalidBase56Digit
		}
		value.Mul(value, base56Radix)
		value.Add(value, big.NewInt(digit))
	}

	decoded := value.Bytes()
	out := make([]byte, zeros+len(decoded))
	copy(out[zeros:], decoded)
	return out, nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
