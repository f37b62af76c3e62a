// Command argus is the offline block storage-hazard profiler's CLI
// entrypoint: a single `analyze` subcommand wired the way the teacher's
// cmd/evm wires its subcommands — urfave/cli/v2 for command structure and
// exit-code propagation — while the flag values themselves are parsed and
// validated by internal/argusconfig (the teacher's cmd/simulator stack:
// spf13/pflag + spf13/viper). The two coexist in the teacher's own
// tree for different commands; we do the same for the same reason: cli.App
// gives us argv[0]-style help/usage for free, while pflag/viper gives us
// typed env-var overlay for a single subcommand's flags.
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/urfave/cli/v2"

	"github.com/argus-chain/argus/internal/argusconfig"
	"github.com/argus-chain/argus/internal/argusmetrics"
	"github.com/argus-chain/argus/internal/arguserrors"
	"github.com/argus-chain/argus/internal/arguslog"
	"github.com/argus-chain/argus/internal/conflict"
	"github.com/argus-chain/argus/internal/executor"
	"github.com/argus-chain/argus/internal/prefetch"
	"github.com/argus-chain/argus/internal/report"
	"github.com/argus-chain/argus/internal/rpcsource"
	"github.com/argus-chain/argus/internal/sink"
	"github.com/argus-chain/argus/internal/sink/ndjson"
	"github.com/argus-chain/argus/internal/statecache"
)

func main() {
	app := &cli.App{
		Name:  "argus",
		Usage: "offline storage-hazard profiler for a single Ethereum block",
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "fetch, execute, and report storage conflicts for one block",
				ArgsUsage: " ",
				// The analyze flags belong to argusconfig's pflag set, so
				// urfave/cli hands every argument after "analyze" through
				// untouched instead of rejecting them as undefined flags.
				SkipFlagParsing: true,
				Action:          runAnalyze,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		var argusErr *arguserrors.Error
		if arguserrors.As(err, &argusErr) {
			fmt.Fprintln(os.Stderr, argusErr.Error())
			os.Exit(argusErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runAnalyze is the analyze subcommand's cli.ActionFunc. It re-parses
// ctx.Args() (everything after "analyze") through argusconfig so the two
// flag libraries never see the same argv slice twice.
func runAnalyze(ctx *cli.Context) error {
	cfg, err := argusconfig.Load(ctx.Args().Slice())
	if err != nil {
		return err
	}

	arguslog.SetDefault(arguslog.New(arguslog.Options{
		Format:  arguslog.Format(cfg.LogFormat),
		Level:   cfg.LogLevel,
		LogFile: cfg.LogFile,
	}))

	metrics := argusmetrics.New()
	cache := statecache.New(defaultCodeCacheSize)
	chainConfig := params.MainnetChainConfig

	// A SIGINT/SIGTERM during phase 1 cancels the prefetcher's shared
	// context (spec.md §5's user-abort path), unblocking errgroup's
	// in-flight RPC tasks instead of waiting them out.
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := analyzeBlock(sigCtx, cfg, cache, chainConfig, metrics)
	if err != nil {
		return err
	}

	var out sink.Sink
	if cfg.JSON {
		out = ndjson.NewWriter(os.Stdout)
	} else {
		out, err = sink.New(cfg.Sink, metrics)
		if err != nil {
			return arguserrors.Configuration(err)
		}
	}
	defer out.Close()

	if err := out.Write(rep); err != nil {
		return arguserrors.Sink(err)
	}

	metrics.CacheHits.Add(float64(cache.Hits()))
	metrics.CacheMisses.Add(float64(cache.Misses()))

	arguslog.Info("analysis complete",
		"block", rep.Summary.Block,
		"tx_count", rep.Summary.TxCount,
		"conflicts", rep.Summary.TotalConflicts,
		"cache_hits", cache.Hits(),
		"cache_misses", cache.Misses(),
	)
	return nil
}

const defaultCodeCacheSize = 4096

// analyzeBlock runs phase 1 (prefetch, skipped under --dry-run) and phase
// 2 (execute + analyze) per spec.md §5's two-phase design, returning the
// assembled report.
func analyzeBlock(ctx context.Context, cfg *argusconfig.Config, cache *statecache.Cache, chainConfig *params.ChainConfig, metrics *argusmetrics.Metrics) (report.Report, error) {
	var (
		block *types.Block
		err   error
	)

	if cfg.DryRun {
		block = types.NewBlockWithHeader(&types.Header{Number: new(big.Int).SetUint64(cfg.Block), Time: 0, Difficulty: new(big.Int)})
	} else {
		src, dialErr := rpcsource.Dial(ctx, cfg.RPCURL)
		if dialErr != nil {
			return report.Report{}, arguserrors.Transport(dialErr)
		}

		pf := prefetch.New(prefetch.Config{
			Parallelism:    cfg.Parallelism,
			RequestTimeout: cfg.RequestTimeout,
			RetryCap:       cfg.RetryCap,
			RetryBaseDelay: cfg.RetryBaseDelay,
		}, src, metrics)

		block, err = pf.Warm(ctx, cache, chainConfig, cfg.Block)
		if err != nil {
			return report.Report{}, arguserrors.Transport(err)
		}
	}

	driver := executor.New(cache)
	getHash := func(n uint64) common.Hash {
		h, _ := cache.GetBlockHash(n)
		return h
	}

	sets, err := driver.Run(executor.BlockInput{
		ChainConfig: chainConfig,
		Header:      block.Header(),
		Txs:         block.Transactions(),
		GetHash:     getHash,
	})
	if err != nil {
		return report.Report{}, arguserrors.Execution(err).WithBlock(cfg.Block)
	}

	result, err := conflict.Analyze(cfg.Block, sets)
	if err != nil {
		return report.Report{}, arguserrors.Internal(err).WithBlock(cfg.Block)
	}

	return report.Assemble(result), nil
}
