// btcseek recovers which derivation path under a known mnemonic phrase
// produces a target legacy Bitcoin address. It regenerates the BIP32 key
// tree from the phrase and checks the common BIP44/49/84 path families
// plus direct-from-master legacy paths against the target.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	flags "github.com/jessevdk/go-flags"

	"github.com/djschnei21/btcseek/scan"
	"github.com/djschnei21/btcseek/wallet"
)

// Exit codes: 0 when a path matched, 1 when the space was exhausted
// without a match, 2 on setup or derivation failure.
const (
	exitFound     = 0
	exitExhausted = 1
	exitError     = 2
)

type options struct {
	Mnemonic string `long:"mnemonic" description:"Space-separated mnemonic phrase to search under" default:"rescue account rookie remember dose ice donor organ head eyebrow obvious seven"`
	Address  string `long:"address" description:"Target legacy (P2PKH) address in Base58Check form" default:"1Lme4nrYHRChHwrpVHJTajEXGQjZv72GyS"`
	Workers  int    `long:"workers" description:"Concurrent scan workers; 1 scans strictly in order" default:"1"`
	LogLevel string `long:"log-level" description:"Log level; trace logs every candidate" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if ferr, ok := err.(*flags.Error); ok && ferr.Type == flags.ErrHelp {
			return exitFound
		}
		return exitError
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "btcseek",
		Level: hclog.LevelFromString(opts.LogLevel),
	})

	target, err := wallet.ParseAddress(opts.Address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid target address: %v\n", err)
		return exitError
	}

	seed := wallet.DeriveSeed(opts.Mnemonic)
	master, err := wallet.NewMaster(seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "master key derivation failed: %v\n", err)
		return exitError
	}

	logger.Debug("scanning", "target", opts.Address, "candidates", scan.SpaceSize(), "workers", opts.Workers)

	scanner := &scan.Scanner{Logger: logger, Workers: opts.Workers}
	result, err := scanner.Scan(master, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		return exitError
	}

	if !result.Found {
		logger.Info("no derivation path matched", "checked", result.Checked)
		return exitExhausted
	}

	fmt.Printf("%s %s\n", opts.Mnemonic, result.Path)
	return exitFound
}
