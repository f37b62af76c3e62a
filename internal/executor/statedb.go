// Package executor implements Component D from spec.md §4.D: it drives a
// single go-ethereum EVM instance through a block's transactions in order,
// with an inspector attached, writing successful state diffs back to the
// state cache so later transactions observe them.
//
// statedb.go is the vm.StateDB adapter over our state cache — grounded on
// core/vm/statedb_adapter.go's adapter-over-an-interface pattern, adapted
// here to adapt a concrete *statecache.Cache directly to go-ethereum's
// vm.StateDB rather than to the teacher's own precompile-contract
// interface, since our EVM comes straight from upstream go-ethereum.
package executor

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/argus-chain/argus/internal/statecache"
)

// StateDB adapts a block-scoped statecache.Cache to go-ethereum's
// vm.StateDB. It is single-owner and used only during Phase 2 (spec.md
// §5): no internal locking beyond what the cache itself already does for
// the (unused, by this point) Phase 1 concurrency contract.
//
// Call-frame reverts are handled with a journal of undo closures, the same
// shape as go-ethereum's own StateDB journal: Snapshot records the journal
// length, RevertToSnapshot replays undo closures back to that length. This
// makes nested-frame reverts behave correctly from the EVM's point of view
// (a reverted sub-call's writes do not persist) independent of what the
// inspector chooses to keep in its access log (see SPEC_FULL.md §10).
type StateDB struct {
	cache *statecache.Cache

	journal []func()

	balances map[common.Address]*uint256.Int
	nonces   map[common.Address]uint64
	codes    map[common.Address][]byte

	selfDestructed map[common.Address]bool

	transient map[transientKey]common.Hash

	accessListAddrs map[common.Address]bool
	accessListSlots map[common.Address]map[common.Hash]bool

	refund uint64

	thash   common.Hash
	txIndex int
	logs    []*types.Log
}

type transientKey struct {
	addr common.Address
	key  common.Hash
}

// NewStateDB returns a StateDB backed by cache. One StateDB instance is
// reused across every transaction in the block (spec.md §4.D: "a single
// EVM instance... the state cache as the backing database").
func NewStateDB(cache *statecache.Cache) *StateDB {
	return &StateDB{
		cache:           cache,
		balances:        make(map[common.Address]*uint256.Int),
		nonces:          make(map[common.Address]uint64),
		codes:           make(map[common.Address][]byte),
		selfDestructed:  make(map[common.Address]bool),
		transient:       make(map[transientKey]common.Hash),
		accessListAddrs: make(map[common.Address]bool),
		accessListSlots: make(map[common.Address]map[common.Hash]bool),
	}
}

// SetTxContext resets per-transaction-only state (transient storage,
// EIP-2930 access list, logs, refund counter) ahead of executing tx ti.
// Account/storage state carries over — that's the whole point of running
// one StateDB across the block (spec.md §4.D, §9).
func (s *StateDB) SetTxContext(thash common.Hash, ti int) {
	s.thash = thash
	s.txIndex = ti
	s.transient = make(map[transientKey]common.Hash)
	s.accessListAddrs = make(map[common.Address]bool)
	s.accessListSlots = make(map[common.Address]map[common.Hash]bool)
	s.logs = nil
	s.refund = 0
	s.journal = s.journal[:0]
}

func (s *StateDB) record(undo func()) {
	s.journal = append(s.journal, undo)
}

// Snapshot returns a revert point for the current journal.
func (s *StateDB) Snapshot() int { return len(s.journal) }

// RevertToSnapshot undoes every journaled change made since id was
// returned by Snapshot, in reverse order.
func (s *StateDB) RevertToSnapshot(id int) {
	for i := len(s.journal) - 1; i >= id; i-- {
		s.journal[i]()
	}
	s.journal = s.journal[:id]
}

func (s *StateDB) balanceOf(addr common.Address) *uint256.Int {
	if b, ok := s.balances[addr]; ok {
		return b
	}
	info, ok := s.cache.GetAccount(addr)
	var b *uint256.Int
	if ok && info.Balance != nil {
		b, _ = uint256.FromBig(info.Balance)
	} else {
		b = new(uint256.Int)
	}
	s.balances[addr] = b
	return b
}

// GetBalance implements vm.StateDB.
func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	return new(uint256.Int).Set(s.balanceOf(addr))
}

// AddBalance implements vm.StateDB.
func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason) uint256.Int {
	prev := *s.balanceOf(addr)
	next := new(uint256.Int).Add(&prev, amount)
	s.balances[addr] = next
	s.record(func() { s.balances[addr] = &prev })
	return prev
}

// SubBalance implements vm.StateDB.
func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason) uint256.Int {
	prev := *s.balanceOf(addr)
	next := new(uint256.Int).Sub(&prev, amount)
	s.balances[addr] = next
	s.record(func() { s.balances[addr] = &prev })
	return prev
}

// GetNonce implements vm.StateDB.
func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if n, ok := s.nonces[addr]; ok {
		return n
	}
	info, ok := s.cache.GetAccount(addr)
	n := uint64(0)
	if ok {
		n = info.Nonce
	}
	s.nonces[addr] = n
	return n
}

// SetNonce implements vm.StateDB.
func (s *StateDB) SetNonce(addr common.Address, nonce uint64, reason tracing.NonceChangeReason) {
	prev := s.GetNonce(addr)
	s.nonces[addr] = nonce
	s.record(func() { s.nonces[addr] = prev })
}

// GetCodeHash implements vm.StateDB.
func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	code := s.GetCode(addr)
	if len(code) == 0 {
		return common.Hash{}
	}
	return crypto.Keccak256Hash(code)
}

// GetCode implements vm.StateDB.
func (s *StateDB) GetCode(addr common.Address) []byte {
	if c, ok := s.codes[addr]; ok {
		return c
	}
	info, ok := s.cache.GetAccount(addr)
	if !ok || info.CodeHash == (common.Hash{}) {
		return nil
	}
	code, _ := s.cache.GetCode(info.CodeHash)
	s.codes[addr] = code
	return code
}

// SetCode implements vm.StateDB.
func (s *StateDB) SetCode(addr common.Address, code []byte) []byte {
	prev := s.GetCode(addr)
	s.codes[addr] = code
	s.record(func() { s.codes[addr] = prev })
	return prev
}

// GetCodeSize implements vm.StateDB.
func (s *StateDB) GetCodeSize(addr common.Address) int { return len(s.GetCode(addr)) }

// GetState implements vm.StateDB: reads (and write-through writes from
// earlier transactions in this block) come from the shared cache.
func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	w, _ := s.cache.GetStorage(addr, key)
	return w
}

// GetCommittedState returns the same value as GetState. We do not keep a
// separate per-transaction "value at tx start" snapshot distinct from the
// cache, since argus only needs read/write set membership, not dirty-vs-
// clean value diffing (spec.md §1 non-goal: no byte-identical EVM
// semantics beyond what the interpreter needs to run).
func (s *StateDB) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	return s.GetState(addr, key)
}

// SetState implements vm.StateDB. The write is staged into the shared
// cache immediately (not buffered until end-of-tx) so a Snapshot/
// RevertToSnapshot pair can roll it back correctly even mid-transaction;
// the undo closure restores the cache's previous value.
func (s *StateDB) SetState(addr common.Address, key, value common.Hash) common.Hash {
	prev := s.GetState(addr, key)
	s.cache.SetStorage(addr, key, value)
	s.record(func() { s.cache.SetStorage(addr, key, prev) })
	return prev
}

// GetStorageRoot is unused by argus (no trie is ever computed) and returns
// the zero hash.
func (s *StateDB) GetStorageRoot(addr common.Address) common.Hash { return common.Hash{} }

// GetTransientState implements vm.StateDB (EIP-1153).
func (s *StateDB) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	return s.transient[transientKey{addr, key}]
}

// SetTransientState implements vm.StateDB (EIP-1153). Transient storage is
// cleared at the start of every transaction (SetTxContext) and is never
// staged into the cache, matching its EVM semantics.
func (s *StateDB) SetTransientState(addr common.Address, key, value common.Hash) {
	s.transient[transientKey{addr, key}] = value
}

// SelfDestruct implements vm.StateDB.
func (s *StateDB) SelfDestruct(addr common.Address) uint256.Int {
	prev := *s.balanceOf(addr)
	s.selfDestructed[addr] = true
	s.balances[addr] = new(uint256.Int)
	s.record(func() {
		delete(s.selfDestructed, addr)
		s.balances[addr] = &prev
	})
	return prev
}

// Selfdestruct6780 implements vm.StateDB. Whether addr was created in the
// current transaction is not tracked: addr is always self-destructed as by
// SelfDestruct, and the second result is always true.
func (s *StateDB) Selfdestruct6780(addr common.Address) (uint256.Int, bool) {
	bal, wasDestructed := s.SelfDestruct(addr), true
	return bal, wasDestructed
}

// HasSelfDestructed implements vm.StateDB.
func (s *StateDB) HasSelfDestructed(addr common.Address) bool { return s.selfDestructed[addr] }

// CreateAccount implements vm.StateDB.
func (s *StateDB) CreateAccount(addr common.Address) {
	if _, ok := s.balances[addr]; !ok {
		s.balances[addr] = new(uint256.Int)
	}
}

// CreateContract implements vm.StateDB.
func (s *StateDB) CreateContract(addr common.Address) {}

// Exist implements vm.StateDB.
func (s *StateDB) Exist(addr common.Address) bool {
	if _, ok := s.cache.GetAccount(addr); ok {
		return true
	}
	_, ok := s.balances[addr]
	return ok
}

// Empty implements vm.StateDB.
func (s *StateDB) Empty(addr common.Address) bool {
	return s.GetBalance(addr).IsZero() && s.GetNonce(addr) == 0 && s.GetCodeSize(addr) == 0
}

// AddRefund implements vm.StateDB.
func (s *StateDB) AddRefund(gas uint64) {
	prev := s.refund
	s.refund += gas
	s.record(func() { s.refund = prev })
}

// SubRefund implements vm.StateDB.
func (s *StateDB) SubRefund(gas uint64) {
	prev := s.refund
	s.refund -= gas
	s.record(func() { s.refund = prev })
}

// GetRefund implements vm.StateDB.
func (s *StateDB) GetRefund() uint64 { return s.refund }

// AddressInAccessList implements vm.StateDB.
func (s *StateDB) AddressInAccessList(addr common.Address) bool { return s.accessListAddrs[addr] }

// SlotInAccessList implements vm.StateDB.
func (s *StateDB) SlotInAccessList(addr common.Address, slot common.Hash) (bool, bool) {
	addrOK := s.accessListAddrs[addr]
	slots, ok := s.accessListSlots[addr]
	if !ok {
		return addrOK, false
	}
	return addrOK, slots[slot]
}

// AddAddressToAccessList implements vm.StateDB.
func (s *StateDB) AddAddressToAccessList(addr common.Address) { s.accessListAddrs[addr] = true }

// AddSlotToAccessList implements vm.StateDB.
func (s *StateDB) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	s.accessListAddrs[addr] = true
	if s.accessListSlots[addr] == nil {
		s.accessListSlots[addr] = make(map[common.Hash]bool)
	}
	s.accessListSlots[addr][slot] = true
}

// AddLog implements vm.StateDB.
func (s *StateDB) AddLog(log *types.Log) {
	log.TxHash = s.thash
	log.TxIndex = uint(s.txIndex)
	s.logs = append(s.logs, log)
}

// Logs returns the logs recorded for the current transaction.
func (s *StateDB) Logs() []*types.Log { return s.logs }

// AddPreimage implements vm.StateDB. Preimages are not needed by argus
// (no trie is ever built) and are dropped.
func (s *StateDB) AddPreimage(hash common.Hash, preimage []byte) {}

// PointCache, Witness, AccessEvents back verkle-tree bookkeeping in
// go-ethereum's newer StateDB. Argus never builds a trie or a verkle
// witness, so these are not wired; a vm.Config that requests witness
// collection is outside analyze's scope (spec.md §1 non-goal).

// CommitAccount writes this adapter's in-memory account fields (balance,
// nonce, code) for addr back into the shared cache, making them visible
// to subsequent transactions in the block. Called by the execution driver
// after a transaction completes successfully (spec.md §4.D: "commits
// successful state diffs back to the cache").
func (s *StateDB) CommitAccount(addr common.Address) {
	bal := s.balanceOf(addr)
	info, _ := s.cache.GetAccount(addr)
	info.Balance = bal.ToBig()
	info.Nonce = s.GetNonce(addr)
	if code, ok := s.codes[addr]; ok && len(code) > 0 {
		hash := crypto.Keccak256Hash(code)
		s.cache.SetCode(hash, code)
		info.CodeHash = hash
	}
	s.cache.SetAccount(addr, info)
}
