package wallet

import (
	"errors"
	"fmt"
	"strings"
)

// base58Alphabet excludes 0, O, I and l to avoid visually ambiguous
// characters in transcribed addresses.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	// ErrInvalidCharacter is returned when a string contains a character
	// outside the base58 alphabet.
	ErrInvalidCharacter = errors.New("invalid base58 character")

	// ErrInvalidLength is returned when a decoded string does not produce
	// exactly the byte width the caller expects.
	ErrInvalidLength = errors.New("invalid decoded length")
)

// EncodeBase58 encodes input as a base58 string. Leading zero bytes are
// preserved as leading '1' characters; the remainder is converted from
// base 256 by repeated long division.
func EncodeBase58(input []byte) string {
	var zeros int
	for zeros < len(input) && input[zeros] == 0 {
		zeros++
	}

	// Little-endian base-58 digit accumulator. log(256)/log(58) ~ 1.37
	// digits per input byte.
	digits := make([]byte, 0, (len(input)-zeros)*137/100+1)
	for _, b := range input[zeros:] {
		carry := int(b)
		for j := range digits {
			carry += int(digits[j]) << 8
			digits[j] = byte(carry % 58)
			carry /= 58
		}
		for carry > 0 {
			digits = append(digits, byte(carry%58))
			carry /= 58
		}
	}

	var sb strings.Builder
	sb.Grow(zeros + len(digits))
	for i := 0; i < zeros; i++ {
		sb.WriteByte('1')
	}
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteByte(base58Alphabet[digits[i]])
	}
	return sb.String()
}

// DecodeBase58 decodes s into exactly width bytes. Base58 strings do not
// self-describe their binary length, so the width is part of the caller's
// contract; a mismatch fails with ErrInvalidLength rather than silently
// truncating or zero-padding.
func DecodeBase58(s string, width int) ([]byte, error) {
	// Little-endian base-256 accumulator.
	num := make([]byte, 0, width)
	for i := 0; i < len(s); i++ {
		digit := strings.IndexByte(base58Alphabet, s[i])
		if digit < 0 {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, s[i], i)
		}
		carry := digit
		for j := range num {
			carry += int(num[j]) * 58
			num[j] = byte(carry & 0xff)
			carry >>= 8
		}
		for carry > 0 {
			num = append(num, byte(carry&0xff))
			carry >>= 8
		}
	}

	// Leading '1' characters carry leading zero bytes that the integer
	// accumulation above cannot represent.
	var zeros int
	for zeros < len(s) && s[zeros] == '1' {
		zeros++
	}

	if zeros+len(num) != width {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, zeros+len(num), width)
	}

	out := make([]byte, width)
	for i, j := zeros, len(num)-1; j >= 0; i, j = i+1, j-1 {
		out[i] = num[j]
	}
	return out, nil
}
