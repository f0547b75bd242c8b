// Command aliquot computes the aliquot sequence of N, printing each step.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/kryc/aliquot/config"
	"github.com/kryc/aliquot/cpuinfo"
	"github.com/kryc/aliquot/factorcache"
	"github.com/kryc/aliquot/ledger"
	"github.com/kryc/aliquot/primality"
	"github.com/kryc/aliquot/primegap"
	"github.com/kryc/aliquot/sequence"

	"github.com/rs/zerolog"
)

func main() {
	gapFile := flag.String("p", "", "prime gap table path (default: generated in memory)")
	cachePath := flag.String("c", "", "factor cache directory (default: no cache)")
	threads := flag.Int("t", 0, "worker threads (default: physical core count)")
	ledgerPath := flag.String("l", "", "sequence ledger sqlite path (default: no ledger)")
	verbose := flag.Bool("v", false, "print each step of the sequence")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: aliquot [-p gapfile] [-c cachepath] [-t threads] [-l ledgerpath] <N>")
		os.Exit(1)
	}

	n, ok := new(big.Int).SetString(flag.Arg(0), 10)
	if !ok || n.Sign() <= 0 {
		fmt.Fprintf(os.Stderr, "aliquot: invalid N %q\n", flag.Arg(0))
		os.Exit(1)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Error().Err(err).Msg("loading configuration")
		os.Exit(1)
	}
	if *gapFile == "" {
		*gapFile = cfg.GapTable
	}
	if *cachePath == "" {
		*cachePath = cfg.CachePath
	}
	if *threads == 0 {
		*threads = cfg.Threads
	}
	if *threads == 0 {
		*threads = cpuinfo.Threads()
	}
	if *ledgerPath == "" {
		*ledgerPath = cfg.LedgerPath
	}

	if *verbose {
		fmt.Fprintln(os.Stderr, cpuinfo.Banner())
	}

	table := primegap.Default()
	table.SetLogger(log)
	if *gapFile != "" {
		if err := table.Load(*gapFile); err != nil {
			log.Error().Err(err).Str("path", *gapFile).Msg("loading prime gap table")
			os.Exit(1)
		}
	}
	oracle := primality.From(table)

	cache, err := factorcache.New(*cachePath)
	if err != nil {
		log.Error().Err(err).Msg("opening factor cache")
		os.Exit(1)
	}
	cache.SetLogger(log)

	var led *ledger.Ledger
	if *ledgerPath != "" {
		led, err = ledger.Open(*ledgerPath)
		if err != nil {
			log.Error().Err(err).Msg("opening sequence ledger")
			os.Exit(1)
		}
		defer led.Close()
	}

	driver := &sequence.Driver{
		Table:   table,
		Oracle:  oracle,
		Cache:   cache,
		Ledger:  led,
		Threads: *threads,
		Log:     log,
	}

	history, err := driver.AliquotSequence(n, *verbose, func(index int, s *big.Int) {
		fmt.Printf("%d: %s\n", index, s.String())
	})
	if err != nil {
		log.Error().Err(err).Msg("computing aliquot sequence")
		os.Exit(1)
	}

	if !*verbose {
		for _, s := range history {
			fmt.Println(s.String())
		}
	}
}
