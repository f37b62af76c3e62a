// Package inspector implements Component C from spec.md §4.C: it hooks
// the EVM interpreter's SLOAD/SSTORE opcodes, buffers the observed access
// records for one transaction, and normalizes them into a deduplicated
// TxAccessSet once the transaction completes.
//
// Grounded on core/vm/interface.go's EVMLogger (CaptureState called per
// opcode with the live stack/scope) and how _examples/other_examples'
// interpreter.go invokes its tracer from the opcode loop. We target
// go-ethereum's newer core/tracing.Hooks (OnOpcode) rather than the
// deprecated EVMLogger interface, since that's what a current
// go-ethereum-based EVM actually wires through vm.Config.
package inspector

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"

	"github.com/argus-chain/argus/internal/argustypes"
)

const (
	opSLOAD  = 0x54
	opSSTORE = 0x55

	// inlineCapacity is the pre-allocation target for the per-tx buffer.
	// The design target (spec.md §9) is that the common case of <=16
	// accesses never grows the backing slice.
	inlineCapacity = 16
)

// Inspector accumulates AccessRecords for a single transaction and
// normalizes them once the transaction returns (success or revert).
type Inspector struct {
	records []argustypes.AccessRecord
}

// New returns an Inspector with its buffer pre-sized to inlineCapacity.
func New() *Inspector {
	return &Inspector{records: make([]argustypes.AccessRecord, 0, inlineCapacity)}
}

// Hooks returns a tracing.Hooks wired to this inspector, for attaching to
// a vm.Config before each transaction's execution.
func (ins *Inspector) Hooks() *tracing.Hooks {
	return &tracing.Hooks{OnOpcode: ins.onOpcode}
}

func (ins *Inspector) onOpcode(pc uint64, op byte, gas, cost uint64, scope tracing.OpContext, rData []byte, depth int, err error) {
	switch op {
	case opSLOAD:
		ins.record(scope, argustypes.Read)
	case opSSTORE:
		ins.record(scope, argustypes.Write)
	}
}

func (ins *Inspector) record(scope tracing.OpContext, kind argustypes.AccessKind) {
	stack := scope.StackData()
	if len(stack) < 1 {
		return
	}
	slotWord := stack[len(stack)-1].Bytes32()
	ins.records = append(ins.records, argustypes.AccessRecord{
		Address: scope.Address(),
		Slot:    common.Hash(slotWord),
		Kind:    kind,
	})
}

// Reset clears the buffer for reuse across transactions, keeping the
// backing array's capacity (no allocation on the common path).
func (ins *Inspector) Reset() {
	ins.records = ins.records[:0]
}

// Normalize implements spec.md §4.C's three-step contract: stable sort by
// (address, slot, kind), adjacent dedupe, then split into Reads/Writes. A
// reverted transaction's writes are discarded — the EVM rolled them back,
// so they cannot cause downstream RAW/WAW — while its reads are kept
// (spec.md §4.C, decision in SPEC_FULL.md §10: a top-level revert discards
// all writes regardless of inner-frame outcome).
func (ins *Inspector) Normalize(idx argustypes.TxIndex, txHash common.Hash, reverted bool) *argustypes.TxAccessSet {
	records := append([]argustypes.AccessRecord(nil), ins.records...)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Address != b.Address {
			return lessBytes(a.Address[:], b.Address[:])
		}
		if a.Slot != b.Slot {
			return lessBytes(a.Slot[:], b.Slot[:])
		}
		return a.Kind < b.Kind
	})
	records = dedupeAdjacent(records)

	out := argustypes.NewTxAccessSet(idx)
	out.TxHash = txHash
	out.Reverted = reverted
	for _, r := range records {
		slot := argustypes.Slot{Address: r.Address, Key: r.Slot}
		switch r.Kind {
		case argustypes.Read:
			out.Reads[slot] = struct{}{}
		case argustypes.Write:
			if !reverted {
				out.Writes[slot] = struct{}{}
			}
		}
	}
	return out
}

// dedupeAdjacent requires records to already be sorted; it is idempotent —
// applying it twice yields the same result as applying it once (spec.md §8).
func dedupeAdjacent(records []argustypes.AccessRecord) []argustypes.AccessRecord {
	if len(records) == 0 {
		return records
	}
	out := records[:1]
	for _, r := range records[1:] {
		if r == out[len(out)-1] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
