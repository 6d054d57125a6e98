package wallet

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SeedLength is the length of a stretched seed in bytes
	SeedLength = 64

	// seedSalt is the fixed PBKDF2 salt for a seed with no passphrase
	seedSalt = "mnemonic"

	// seedIterations is the PBKDF2 iteration count mandated by BIP39
	seedIterations = 2048
)

// DeriveSeed stretches a mnemonic phrase into a 64-byte seed using
// PBKDF2-HMAC-SHA512. The phrase is taken as-is: no wordlist or checksum
// validation is performed, so every phrase maps to some seed.
func DeriveSeed(phrase string) []byte {
	return pbkdf2.Key([]byte(phrase), []byte(seedSalt), seedIterations, SeedLength, sha512.New)
}
