// Package scan enumerates a fixed, finite space of derivation paths and
// searches it for the path whose address matches a target.
package scan

import (
	"fmt"
	"strings"

	"github.com/djschnei21/btcseek/wallet"
)

// Bounds of the candidate space. Each account family contributes
// AccountCount*BranchCount*IndexCount candidates; the legacy family
// contributes BranchCount*IndexCount.
const (
	AccountCount = 20
	BranchCount  = 2
	IndexCount   = 20
)

// Path is an ordered sequence of child indices from the master node.
type Path []uint32

// String renders the path in the conventional apostrophe notation, e.g.
// m/44'/0'/3'/1/7.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteByte('m')
	for _, index := range p {
		if index >= wallet.HardenedKeyStart {
			fmt.Fprintf(&sb, "/%d'", index-wallet.HardenedKeyStart)
		} else {
			fmt.Fprintf(&sb, "/%d", index)
		}
	}
	return sb.String()
}

// Family is one derivation-path convention to try.
type Family struct {
	Name string

	// Prefix holds the hardened purpose and coin-type levels; empty for
	// the legacy family.
	Prefix Path

	// HasAccount controls whether a hardened account level sits between
	// the prefix and the change/index levels. The legacy family derives
	// change/index directly under the master node, matching pre-BIP44
	// wallet behavior.
	HasAccount bool
}

// Families returns the candidate conventions in search order.
func Families() []Family {
	const h = wallet.HardenedKeyStart
	return []Family{
		{Name: "bip44", Prefix: Path{h + 44, h + 0}, HasAccount: true},
		{Name: "bip49", Prefix: Path{h + 49, h + 0}, HasAccount: true},
		{Name: "bip84", Prefix: Path{h + 84, h + 0}, HasAccount: true},
		{Name: "legacy"},
	}
}

// SpaceSize returns the total number of candidate paths.
func SpaceSize() int {
	var total int
	for _, fam := range Families() {
		if fam.HasAccount {
			total += AccountCount * BranchCount * IndexCount
		} else {
			total += BranchCount * IndexCount
		}
	}
	return total
}

// Block is one shard of the search space: a family plus, for account
// families, a single hardened account index. Every block holds
// BranchCount*IndexCount candidates, so blocks can be scanned by
// independent workers with no coordination.
type Block struct {
	Family  Family
	Account uint32 // meaningful only when Family.HasAccount
	Base    int    // ordinal of the block's first candidate
}

// Blocks partitions the whole space into blocks in enumeration order.
func Blocks() []Block {
	var blocks []Block
	base := 0
	for _, fam := range Families() {
		if !fam.HasAccount {
			blocks = append(blocks, Block{Family: fam, Base: base})
			base += BranchCount * IndexCount
			continue
		}
		for account := uint32(0); account < AccountCount; account++ {
			blocks = append(blocks, Block{Family: fam, Account: account, Base: base})
			base += BranchCount * IndexCount
		}
	}
	return blocks
}

// path assembles the full candidate path for one branch/index pair.
func (b Block) path(branch, index uint32) Path {
	p := make(Path, 0, len(b.Family.Prefix)+3)
	p = append(p, b.Family.Prefix...)
	if b.Family.HasAccount {
		p = append(p, wallet.HardenedKeyStart+b.Account)
	}
	return append(p, branch, index)
}

// Paths yields the block's candidates in order with their global
// ordinals. It stops early if fn returns false.
func (b Block) Paths(fn func(ordinal int, path Path) bool) {
	ordinal := b.Base
	for branch := uint32(0); branch < BranchCount; branch++ {
		for index := uint32(0); index < IndexCount; index++ {
			if !fn(ordinal, b.path(branch, index)) {
				return
			}
			ordinal++
		}
	}
}

// Cursor walks every candidate path in deterministic order. It is
// restartable: a fresh Cursor always replays the identical sequence, so
// two scans of the same space visit the same paths at the same ordinals.
type Cursor struct {
	blocks []Block
	bi     int
	branch uint32
	index  uint32
}

// NewCursor returns a cursor positioned at the first candidate.
func NewCursor() *Cursor {
	return &Cursor{blocks: Blocks()}
}

// Next returns the next candidate path and its ordinal, or ok=false once
// the space is exhausted.
func (c *Cursor) Next() (ordinal int, path Path, ok bool) {
	if c.bi >= len(c.blocks) {
		return 0, nil, false
	}
	b := c.blocks[c.bi]
	ordinal = b.Base + int(c.branch)*IndexCount + int(c.index)
	path = b.path(c.branch, c.index)

	c.index++
	if c.index == IndexCount {
		c.index = 0
		c.branch++
		if c.branch == BranchCount {
			c.branch = 0
			c.bi++
		}
	}
	return ordinal, path, true
}
