package wallet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// AddressLength is 1 version byte + 20 hash160 bytes + 4 checksum bytes
	AddressLength = 25

	checksumLength = 4
)

// addressVersion is the legacy P2PKH version byte (0x00 on mainnet).
var addressVersion = chaincfg.MainNetParams.PubKeyHashAddrID

var (
	// ErrInvalidChecksum is returned when the trailing 4 bytes of a decoded
	// address do not match the double-SHA256 of the preceding 21.
	ErrInvalidChecksum = errors.New("address checksum mismatch")

	// ErrInvalidVersion is returned when a decoded address does not carry
	// the legacy P2PKH version byte.
	ErrInvalidVersion = errors.New("unexpected address version byte")
)

// Address is a legacy P2PKH address in raw form: version byte, hash160 of
// the public key, and a 4-byte double-SHA256 checksum over the first 21
// bytes.
type Address [AddressLength]byte

// NewAddress builds the legacy address for a serialized public key.
func NewAddress(pubKey []byte) Address {
	var addr Address
	addr[0] = addressVersion
	copy(addr[1:21], btcutil.Hash160(pubKey))
	checksum := chainhash.DoubleHashB(addr[:21])
	copy(addr[21:], checksum[:checksumLength])
	return addr
}

// String returns the Base58Check form of the address.
func (a Address) String() string {
	return EncodeBase58(a[:])
}

// ParseAddress decodes a Base58Check address string and validates its
// checksum and version byte. Any failure is surfaced immediately so a bad
// target aborts before a search starts.
func ParseAddress(s string) (Address, error) {
	var addr Address
	raw, err := DecodeBase58(s, AddressLength)
	if err != nil {
		return addr, err
	}
	copy(addr[:], raw)

	checksum := chainhash.DoubleHashB(addr[:21])
	if !bytes.Equal(addr[21:], checksum[:checksumLength]) {
		return addr, fmt.Errorf("%w: %s", ErrInvalidChecksum, s)
	}
	if addr[0] != addressVersion {
		return addr, fmt.Errorf("%w: 0x%02x", ErrInvalidVersion, addr[0])
	}
	return addr, nil
}
