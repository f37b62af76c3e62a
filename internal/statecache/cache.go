// Package statecache implements Component A from spec.md §4.A: a
// block-scoped, write-through keyed store of accounts, code, storage
// slots, and block hashes. It is populated concurrently by the prefetcher
// (Phase 1) and read (and written-through by executed transactions)
// single-threadedly during execution (Phase 2).
//
// Grounded on core/state/statedb.go's wrap-go-ethereum-state shape and
// core/vm/interface.go's StateDB contract: lookups of an absent key behave
// as the EVM zero value, never initiate I/O, and record a miss.
package statecache

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/argus-chain/argus/internal/argustypes"
)

// AccountInfo is the subset of account state the cache tracks: balance,
// nonce, and a pointer to its code via CodeHash (empty hash == EOA or
// not-yet-fetched).
type AccountInfo struct {
	Balance  *big.Int
	Nonce    uint64
	CodeHash common.Hash
}

const shardCount = 16

type storageShard struct {
	mu sync.RWMutex
	m  map[argustypes.Slot]argustypes.Word
}

// Cache is the block-scoped state store. It is created empty per block,
// concurrently populated by the prefetcher, read (and write-through
// updated) during single-threaded execution, and discarded after the
// report is assembled. It is never shared across blocks.
type Cache struct {
	accountsMu sync.RWMutex
	accounts   map[common.Address]AccountInfo

	code *lru.Cache[common.Hash, []byte]

	storageShards [shardCount]storageShard

	blockHashesMu sync.RWMutex
	blockHashes   map[uint64]common.Hash

	misses atomic.Int64
	hits   atomic.Int64
}

// New returns an empty cache. codeCacheSize bounds the bytecode LRU; pass
// 0 for the default (4096 distinct code hashes, comfortably above any
// single block's distinct-contract count in practice).
func New(codeCacheSize int) *Cache {
	if codeCacheSize <= 0 {
		codeCacheSize = 4096
	}
	codeCache, err := lru.New[common.Hash, []byte](codeCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which we've
		// already guarded against above.
		panic(err)
	}

	shards := [shardCount]storageShard{}
	for i := range shards {
		shards[i].m = make(map[argustypes.Slot]argustypes.Word)
	}

	return &Cache{
		accounts:      make(map[common.Address]AccountInfo),
		code:          codeCache,
		storageShards: shards,
		blockHashes:   make(map[uint64]common.Hash),
	}
}

func (c *Cache) shardFor(s argustypes.Slot) *storageShard {
	h := s.Address[len(s.Address)-1] ^ s.Key[len(s.Key)-1]
	return &c.storageShards[int(h)%shardCount]
}

// GetAccount returns the cached account info, or the zero account info and
// false if absent (the EVM zero value: zero balance, zero nonce, empty
// code hash).
func (c *Cache) GetAccount(addr common.Address) (AccountInfo, bool) {
	c.accountsMu.RLock()
	info, ok := c.accounts[addr]
	c.accountsMu.RUnlock()
	c.recordLookup(ok)
	return info, ok
}

// SetAccount stages account info into the cache. Commutative across
// distinct addresses; last write wins for a given address (the prefetcher
// guarantees all fetches of one address return the same canonical value,
// and an executed transaction's write-through always reflects the newest
// state).
func (c *Cache) SetAccount(addr common.Address, info AccountInfo) {
	c.accountsMu.Lock()
	c.accounts[addr] = info
	c.accountsMu.Unlock()
}

// GetCode returns cached bytecode for a code hash, or nil and false if
// absent.
func (c *Cache) GetCode(hash common.Hash) ([]byte, bool) {
	code, ok := c.code.Get(hash)
	c.recordLookup(ok)
	return code, ok
}

// SetCode stages bytecode into the cache, keyed by its hash.
func (c *Cache) SetCode(hash common.Hash, code []byte) {
	c.code.Add(hash, code)
}

// GetStorage returns the cached word for (address, slot), or the zero word
// and false if absent.
func (c *Cache) GetStorage(addr common.Address, slot common.Hash) (argustypes.Word, bool) {
	key := argustypes.Slot{Address: addr, Key: slot}
	shard := c.shardFor(key)
	shard.mu.RLock()
	w, ok := shard.m[key]
	shard.mu.RUnlock()
	c.recordLookup(ok)
	return w, ok
}

// SetStorage stages a word into the cache for (address, slot). This is how
// both the prefetcher's seeded reads and an executing transaction's
// committed writes become visible to later reads in the same block —
// required for correct cross-transaction RAW/WAW semantics (spec.md §9).
func (c *Cache) SetStorage(addr common.Address, slot common.Hash, word argustypes.Word) {
	key := argustypes.Slot{Address: addr, Key: slot}
	shard := c.shardFor(key)
	shard.mu.Lock()
	shard.m[key] = word
	shard.mu.Unlock()
}

// GetBlockHash returns the cached hash for a block number, or the zero
// hash and false if absent.
func (c *Cache) GetBlockHash(number uint64) (common.Hash, bool) {
	c.blockHashesMu.RLock()
	h, ok := c.blockHashes[number]
	c.blockHashesMu.RUnlock()
	c.recordLookup(ok)
	return h, ok
}

// SetBlockHash stages a block hash into the cache.
func (c *Cache) SetBlockHash(number uint64, hash common.Hash) {
	c.blockHashesMu.Lock()
	c.blockHashes[number] = hash
	c.blockHashesMu.Unlock()
}

func (c *Cache) recordLookup(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

// Misses returns the number of lookups against an absent key so far. A
// high miss count is reported for diagnostics but never aborts analysis
// (spec.md §4.B).
func (c *Cache) Misses() int64 { return c.misses.Load() }

// Hits returns the number of lookups that found a populated key so far.
func (c *Cache) Hits() int64 { return c.hits.Load() }
