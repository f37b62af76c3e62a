// Package prefetch implements Component B from spec.md §4.B: before
// execution starts, it concurrently warms a state cache from an RPC
// endpoint given a block number, so the execution driver never blocks
// on network I/O (spec.md §5, "Phase 1").
//
// Grounded on _examples/other_examples/e7c5afd9_tos-network-gtos__core-
// parallel-executor.go.go's bounded-parallelism task fan-out shape
// (though that file parallelizes EVM execution itself, not RPC I/O, the
// same "bounded goroutines over a shared, cancellable work list" pattern
// applies here), combined with the teacher's direct dependencies on
// golang.org/x/sync (errgroup, semaphore) and golang.org/x/time/rate for
// the scheduling primitives themselves.
package prefetch

import (
	"context"
	"fmt"
	"math/big"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/argus-chain/argus/internal/argusmetrics"
	"github.com/argus-chain/argus/internal/backoff"
	"github.com/argus-chain/argus/internal/labels"
	"github.com/argus-chain/argus/internal/rpcsource"
	"github.com/argus-chain/argus/internal/statecache"
)

// DefaultParallelism is the prefetcher's default bounded concurrency, per
// spec.md §4.B ("default small — 8 — to respect rate-limited public
// RPCs").
const DefaultParallelism = 8

// hotSlotCount is how many low-index storage slots to speculatively seed
// for contracts the label registry recognizes as well-known DeFi
// primitives (spec.md §4.B's "AMM reserve slots" example) — a coarse,
// best-effort heuristic, not a reliable storage-layout decoder.
const hotSlotCount = 3

// Config controls the prefetcher's concurrency and retry behavior.
type Config struct {
	Parallelism    int
	RequestTimeout time.Duration
	RetryCap       int
	RetryBaseDelay time.Duration
	// RequestsPerSecond limits the rate of outbound RPC calls; zero means
	// unlimited.
	RequestsPerSecond rate.Limit
}

// DefaultConfig returns the spec's recommended defaults.
func DefaultConfig() Config {
	return Config{
		Parallelism:    DefaultParallelism,
		RequestTimeout: 10 * time.Second,
		RetryCap:       3,
		RetryBaseDelay: 200 * time.Millisecond,
	}
}

// Prefetcher fans RPC reads out against src to warm a statecache.Cache.
type Prefetcher struct {
	cfg     Config
	src     rpcsource.Source
	limiter *rate.Limiter
	metrics *argusmetrics.Metrics
}

// New returns a Prefetcher reading from src according to cfg. metrics may
// be nil (spec.md §4.0c: metrics are optional instrumentation).
func New(cfg Config, src rpcsource.Source, metrics *argusmetrics.Metrics) *Prefetcher {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = DefaultParallelism
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(cfg.RequestsPerSecond, cfg.Parallelism)
	}
	return &Prefetcher{cfg: cfg, src: src, limiter: limiter, metrics: metrics}
}

// Warm fetches the block at blockNumber, then concurrently seeds cache
// with every account/code/slot spec.md §4.B names as "required fetches",
// bounded to cfg.Parallelism in-flight requests. It returns the fetched
// block (D needs its transaction list and header) or the first fatal
// error; a fatal error cancels every other in-flight task (spec.md §4.B,
// §5).
func (p *Prefetcher) Warm(ctx context.Context, cache *statecache.Cache, chainConfig *params.ChainConfig, blockNumber uint64) (*types.Block, error) {
	block, err := p.fetchBlock(ctx, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("prefetch: fetch block %d: %w", blockNumber, err)
	}
	cache.SetBlockHash(blockNumber, block.Hash())

	addrs, slots := seedSet(chainConfig, block)

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(p.cfg.Parallelism))

	for _, addr := range addrs.ToSlice() {
		addr := addr
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return p.fetchAccount(gctx, cache, addr, blockNumber)
		})
	}
	for _, s := range slots.ToSlice() {
		s := s
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return p.fetchSlot(gctx, cache, s.addr, s.slot, blockNumber)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("prefetch: block %d: %w", blockNumber, err)
	}
	return block, nil
}

type slotSeed struct {
	addr common.Address
	slot common.Hash
}

// seedSet computes the deduplicated set of addresses and (address, slot)
// pairs to fetch, coalescing duplicates before any RPC call is issued
// (spec.md §4.B: "coalesce duplicate requests").
func seedSet(chainConfig *params.ChainConfig, block *types.Block) (mapset.Set[common.Address], mapset.Set[slotSeed]) {
	addrs := mapset.NewThreadUnsafeSet[common.Address]()
	slots := mapset.NewThreadUnsafeSet[slotSeed]()

	signer := types.MakeSigner(chainConfig, block.Number(), block.Time())
	for _, tx := range block.Transactions() {
		if from, err := types.Sender(signer, tx); err == nil {
			addrs.Add(from)
		}
		if to := tx.To(); to != nil {
			addrs.Add(*to)
			if _, known := labels.Label(*to); known {
				for i := 0; i < hotSlotCount; i++ {
					slots.Add(slotSeed{addr: *to, slot: common.BigToHash(big.NewInt(int64(i)))})
				}
			}
		}
		for _, entry := range tx.AccessList() {
			addrs.Add(entry.Address)
			for _, key := range entry.StorageKeys {
				slots.Add(slotSeed{addr: entry.Address, slot: key})
			}
		}
	}
	return addrs, slots
}

func (p *Prefetcher) fetchBlock(ctx context.Context, blockNumber uint64) (*types.Block, error) {
	var block *types.Block
	err := p.retry(ctx, func(ctx context.Context) error {
		var err error
		block, err = p.src.BlockByNumber(ctx, new(big.Int).SetUint64(blockNumber))
		return err
	})
	return block, err
}

func (p *Prefetcher) fetchAccount(ctx context.Context, cache *statecache.Cache, addr common.Address, blockNumber uint64) error {
	num := new(big.Int).SetUint64(blockNumber)
	var (
		balance *big.Int
		nonce   uint64
		code    []byte
	)
	err := p.retry(ctx, func(ctx context.Context) error {
		var err error
		if balance, err = p.src.BalanceAt(ctx, addr, num); err != nil {
			return err
		}
		if nonce, err = p.src.NonceAt(ctx, addr, num); err != nil {
			return err
		}
		if code, err = p.src.CodeAt(ctx, addr, num); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("account %s: %w", addr, err)
	}

	info := statecache.AccountInfo{Balance: balance, Nonce: nonce}
	if len(code) > 0 {
		info.CodeHash = crypto.Keccak256Hash(code)
		cache.SetCode(info.CodeHash, code)
	}
	cache.SetAccount(addr, info)
	return nil
}

func (p *Prefetcher) fetchSlot(ctx context.Context, cache *statecache.Cache, addr common.Address, slot common.Hash, blockNumber uint64) error {
	num := new(big.Int).SetUint64(blockNumber)
	var raw []byte
	err := p.retry(ctx, func(ctx context.Context) error {
		var err error
		raw, err = p.src.StorageAt(ctx, addr, slot, num)
		return err
	})
	if err != nil {
		return fmt.Errorf("slot %s/%s: %w", addr, slot, err)
	}
	cache.SetStorage(addr, slot, common.BytesToHash(raw))
	return nil
}

// retry runs fn under the prefetcher's shared backoff.Policy (spec.md §5:
// "retried with exponential backoff up to a configured cap"; spec.md §7
// kind 2 "Transport"), rate-limiting and applying a per-request timeout
// to each attempt. The whole task, retries included, is observed in the
// prefetch task-duration histogram.
func (p *Prefetcher) retry(ctx context.Context, fn func(context.Context) error) error {
	start := time.Now()
	policy := backoff.Policy{Cap: p.cfg.RetryCap, Base: p.cfg.RetryBaseDelay}
	attempts := 0
	err := backoff.Retry(ctx, policy, nil, func(ctx context.Context) error {
		if attempts > 0 && p.metrics != nil {
			p.metrics.PrefetchRetries.Inc()
		}
		attempts++

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer cancel()
		return fn(attemptCtx)
	})
	if p.metrics != nil {
		p.metrics.PrefetchTaskDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			p.metrics.PrefetchFailures.Inc()
		}
	}
	return err
}
