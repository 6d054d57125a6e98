package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// HardenedKeyStart is the first hardened child index. Hardened steps mix
// the parent's private scalar into the derivation instead of its public
// key, so hardened children cannot be derived from public data alone.
const HardenedKeyStart uint32 = 0x80000000

// masterHMACKey keys the HMAC that turns a seed into the master node.
var masterHMACKey = []byte("Bitcoin seed")

var (
	// ErrInvalidMasterKey is returned when a seed maps to a scalar outside
	// the valid secp256k1 range. Probability is about 2^-127; treated as
	// fatal rather than retried.
	ErrInvalidMasterKey = errors.New("seed produces an invalid master key")

	// ErrInvalidChildKey is returned when child derivation lands outside
	// the valid scalar range. Also astronomically rare and treated as
	// fatal: the search aborts instead of skipping to the next index.
	ErrInvalidChildKey = errors.New("derived child key is invalid")
)

// Key is one node of the hierarchical-deterministic key tree: a private
// scalar, the chain code that decorrelates sibling keys, and the
// compressed public key recomputed from the scalar at construction.
//
// Nodes are immutable value objects. Child returns a fresh node with its
// own copies of all three fields and never mutates its parent, so the
// tree is materialized lazily with no shared mutable state.
type Key struct {
	scalar    [32]byte
	chainCode [32]byte
	pubKey    [33]byte
}

// NewMaster builds the root node of the key tree from a stretched seed.
func NewMaster(seed []byte) (*Key, error) {
	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	sum := mac.Sum(nil)

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(sum[:32]); overflow || scalar.IsZero() {
		return nil, ErrInvalidMasterKey
	}

	return newKey(sum[:32], sum[32:]), nil
}

// newKey assembles a node from raw scalar and chain code bytes. The
// scalar must already be a validated curve scalar.
func newKey(scalar, chainCode []byte) *Key {
	k := &Key{}
	copy(k.scalar[:], scalar)
	copy(k.chainCode[:], chainCode)

	_, pub := btcec.PrivKeyFromBytes(scalar)
	copy(k.pubKey[:], pub.SerializeCompressed())
	return k
}

// Child derives the node's child at index. Indices at or above
// HardenedKeyStart use hardened derivation.
func (k *Key) Child(index uint32) (*Key, error) {
	blob := make([]byte, 0, 37)
	if index >= HardenedKeyStart {
		blob = append(blob, 0x00)
		blob = append(blob, k.scalar[:]...)
	} else {
		blob = append(blob, k.pubKey[:]...)
	}
	blob = binary.BigEndian.AppendUint32(blob, index)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(blob)
	sum := mac.Sum(nil)

	// child = (parent + I_L) mod n. Neither I_L >= n nor a zero result
	// leaves a usable child at this index.
	var tweak btcec.ModNScalar
	if overflow := tweak.SetByteSlice(sum[:32]); overflow {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidChildKey, index)
	}

	var parent btcec.ModNScalar
	parent.SetByteSlice(k.scalar[:])
	child := tweak.Add(&parent)
	if child.IsZero() {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidChildKey, index)
	}

	childBytes := child.Bytes()
	return newKey(childBytes[:], sum[32:]), nil
}

// DerivePath derives the descendant reached by walking the given child
// indices in order from k. Derivation is non-commutative, so the order
// of the indices is significant.
func (k *Key) DerivePath(path []uint32) (*Key, error) {
	node := k
	for _, index := range path {
		var err error
		node, err = node.Child(index)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

// Address returns the legacy P2PKH address of the node's public key.
func (k *Key) Address() Address {
	return NewAddress(k.pubKey[:])
}

// Scalar returns a copy of the node's private scalar.
func (k *Key) Scalar() [32]byte {
	return k.scalar
}

// ChainCode returns a copy of the node's chain code.
func (k *Key) ChainCode() [32]byte {
	return k.chainCode
}

// PubKey returns the node's compressed public key serialization.
func (k *Key) PubKey() [33]byte {
	return k.pubKey
}
