// driver.go drives the block's transactions through the EVM in order.
//
// Grounded on _examples/other_examples' state_processor.go (processSync):
// build one vm.BlockContext for the header, one vm.EVM reused across every
// transaction, convert each types.Transaction to a message, SetTxContext
// before each call, and apply it through the shared EVM.
package executor

import (
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"

	"github.com/argus-chain/argus/internal/argustypes"
	"github.com/argus-chain/argus/internal/arguslog"
	"github.com/argus-chain/argus/internal/inspector"
	"github.com/argus-chain/argus/internal/statecache"
)

// BlockInput is everything the driver needs to execute one block.
type BlockInput struct {
	ChainConfig *params.ChainConfig
	Header      *types.Header
	Txs         types.Transactions
	// GetHash resolves a BLOCKHASH lookup against the state cache's
	// block_hashes map (spec.md §4.A); absent entries return the zero
	// hash, matching the cache's miss contract.
	GetHash vm.GetHashFunc
}

// Driver executes a block's transactions in order through a single EVM
// instance, per spec.md §4.D.
type Driver struct {
	cache *statecache.Cache
}

// New returns a Driver backed by cache.
func New(cache *statecache.Cache) *Driver {
	return &Driver{cache: cache}
}

// Run executes every transaction in in.Txs, in order, through one EVM
// instance, and returns one normalized TxAccessSet per transaction —
// including transactions that fail interpreter-level validation, which get
// an empty access set and do not abort the block (spec.md §4.D, §7).
func (d *Driver) Run(in BlockInput) ([]*argustypes.TxAccessSet, error) {
	statedb := NewStateDB(d.cache)
	// An explicit author keeps NewEVMBlockContext from asking a (nil)
	// chain's consensus engine for the coinbase.
	blockCtx := core.NewEVMBlockContext(in.Header, nil, &in.Header.Coinbase)
	blockCtx.GetHash = in.GetHash

	signer := types.MakeSigner(in.ChainConfig, in.Header.Number, in.Header.Time)

	sets := make([]*argustypes.TxAccessSet, 0, len(in.Txs))
	insp := inspector.New()
	evm := vm.NewEVM(blockCtx, vm.TxContext{}, statedb, in.ChainConfig, vm.Config{Tracer: insp.Hooks()})

	for i, tx := range in.Txs {
		idx := argustypes.TxIndex(i)
		insp.Reset()

		msg, err := core.TransactionToMessage(tx, signer, in.Header.BaseFee)
		if err != nil {
			arguslog.Warn("transaction failed to decode into a message, recording empty access set",
				"block", in.Header.Number.Uint64(), "tx", i, "err", err)
			sets = append(sets, argustypes.NewTxAccessSet(idx))
			continue
		}

		statedb.SetTxContext(tx.Hash(), i)
		evm.Reset(core.NewEVMTxContext(msg), statedb)

		gp := new(core.GasPool).AddGas(msg.GasLimit)
		result, err := core.ApplyMessage(evm, msg, gp)
		if err != nil {
			arguslog.Warn("transaction failed interpreter-level validation, recording empty access set",
				"block", in.Header.Number.Uint64(), "tx", i, "err", err)
			sets = append(sets, argustypes.NewTxAccessSet(idx))
			continue
		}

		reverted := result.Failed()
		set := insp.Normalize(idx, tx.Hash(), reverted)
		if !reverted {
			commitTouchedAccounts(statedb, msg, tx)
		}
		sets = append(sets, set)
	}

	return sets, nil
}

// commitTouchedAccounts writes back the sender, recipient, and (for a
// contract-creation transaction) the deployed address, so later
// transactions in the block observe nonce/balance/code changes (spec.md
// §4.D: "commits successful state diffs back to the cache"). A full
// implementation would walk every account the EVM touched; argus only
// needs senders/recipients/created-contract addresses to be accurate,
// since balance and nonce never feed conflict classification — only
// storage slots do, and those are committed immediately by
// StateDB.SetState.
func commitTouchedAccounts(statedb *StateDB, msg *core.Message, tx *types.Transaction) {
	statedb.CommitAccount(msg.From)
	if msg.To != nil {
		statedb.CommitAccount(*msg.To)
		return
	}
	statedb.CommitAccount(crypto.CreateAddress(msg.From, tx.Nonce()))
}
