package scan

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/djschnei21/btcseek/wallet"
)

// Result reports the outcome of a scan.
type Result struct {
	// Found is true when some candidate path produced the target address.
	Found bool

	// Path is the matching derivation path when Found is true.
	Path Path

	// Checked counts the candidates whose address was compared against
	// the target.
	Checked int
}

// Scanner searches the candidate space for the path whose address equals
// a target. The zero value scans sequentially with no logging.
type Scanner struct {
	// Logger traces scan progress. Trace level logs every candidate.
	Logger hclog.Logger

	// Workers sets the number of concurrent shard workers. Values <= 1
	// select the sequential scan, which additionally guarantees that no
	// candidate past a match is ever examined.
	Workers int
}

func (s *Scanner) logger() hclog.Logger {
	if s.Logger == nil {
		return hclog.NewNullLogger()
	}
	return s.Logger
}

// Scan walks the candidate space in enumeration order, derives the
// terminal node for each path, and compares its address byte-for-byte
// against target. It returns the first match, or Found=false after
// exhausting the space. The result is a pure function of (master,
// target) regardless of worker count.
func (s *Scanner) Scan(master *wallet.Key, target wallet.Address) (Result, error) {
	if s.Workers > 1 {
		return s.scanSharded(master, target)
	}
	return s.scanSequential(master, target)
}

func (s *Scanner) scanSequential(master *wallet.Key, target wallet.Address) (Result, error) {
	log := s.logger()
	trace := log.IsTrace()

	checked := 0
	cursor := NewCursor()
	for {
		_, path, ok := cursor.Next()
		if !ok {
			break
		}
		node, err := master.DerivePath(path)
		if err != nil {
			return Result{Checked: checked}, fmt.Errorf("deriving %s: %w", path, err)
		}
		checked++
		addr := node.Address()
		if trace {
			log.Trace("checked candidate", "path", path.String(), "address", addr.String())
		}
		if addr == target {
			log.Debug("target matched", "path", path.String(), "checked", checked)
			return Result{Found: true, Path: path, Checked: checked}, nil
		}
	}

	log.Debug("search space exhausted", "checked", checked)
	return Result{Checked: checked}, nil
}

// scanSharded partitions the space into per-(family, account) blocks and
// scans them concurrently. Each block is scanned sequentially; the match
// with the lowest global ordinal wins, so the reported path is identical
// to the sequential result. Blocks whose entire ordinal range lies past
// an already-found match are skipped.
func (s *Scanner) scanSharded(master *wallet.Key, target wallet.Address) (Result, error) {
	log := s.logger()

	var (
		mu      sync.Mutex
		best    *Result
		bestOrd int
		checked int
	)

	var g errgroup.Group
	g.SetLimit(s.Workers)
	for _, block := range Blocks() {
		block := block
		g.Go(func() error {
			mu.Lock()
			skip := best != nil && bestOrd < block.Base
			mu.Unlock()
			if skip {
				return nil
			}

			var derr error
			blockChecked := 0
			block.Paths(func(ordinal int, path Path) bool {
				node, err := master.DerivePath(path)
				if err != nil {
					derr = fmt.Errorf("deriving %s: %w", path, err)
					return false
				}
				blockChecked++
				if node.Address() != target {
					return true
				}
				mu.Lock()
				if best == nil || ordinal < bestOrd {
					best = &Result{Found: true, Path: path}
					bestOrd = ordinal
				}
				mu.Unlock()
				return false
			})

			mu.Lock()
			checked += blockChecked
			mu.Unlock()
			return derr
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Checked: checked}, err
	}

	if best != nil {
		best.Checked = checked
		log.Debug("target matched", "path", best.Path.String(), "workers", s.Workers)
		return *best, nil
	}
	log.Debug("search space exhausted", "checked", checked, "workers", s.Workers)
	return Result{Checked: checked}, nil
}
