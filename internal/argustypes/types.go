// Package argustypes holds the data model shared by every stage of the
// pipeline: prefetch, execution, conflict analysis, and reporting.
package argustypes

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Address identifies an account. SlotKey identifies a storage slot within
// an account. Word is a raw 32-byte EVM word. All three share the same
// underlying representation as go-ethereum's common.Hash / common.Address.
type (
	Address = common.Address
	SlotKey = common.Hash
	Word    = common.Hash
)

// TxIndex is the 0-based, monotonic position of a transaction in its block.
type TxIndex int

// AccessKind distinguishes a storage read from a storage write.
type AccessKind uint8

const (
	Read AccessKind = iota
	Write
)

func (k AccessKind) String() string {
	if k == Write {
		return "write"
	}
	return "read"
}

// AccessRecord is one observed SLOAD or SSTORE, in execution order within
// its transaction. Order is used only to collapse duplicates during
// normalization, never for cross-transaction reasoning.
type AccessRecord struct {
	Address Address
	Slot    SlotKey
	Kind    AccessKind
}

// Slot identifies a single storage slot within an account, used as a map
// key throughout the conflict analyzer.
type Slot struct {
	Address Address
	Key     SlotKey
}

func (s Slot) String() string {
	return fmt.Sprintf("%s/%s", s.Address.Hex(), s.Key.Hex())
}

// TxAccessSet is the normalized, deduplicated read and write sets observed
// for one transaction. If a slot was both read and written, it appears in
// both Reads and Writes (set membership drives conflict classification,
// not first/last-wins).
type TxAccessSet struct {
	Index    TxIndex
	TxHash   common.Hash
	Reverted bool
	Reads    map[Slot]struct{}
	Writes   map[Slot]struct{}
}

// NewTxAccessSet returns an access set with initialized, empty maps.
func NewTxAccessSet(idx TxIndex) *TxAccessSet {
	return &TxAccessSet{
		Index:  idx,
		Reads:  make(map[Slot]struct{}),
		Writes: make(map[Slot]struct{}),
	}
}

// HazardKind classifies a cross-transaction dependency on a shared slot.
type HazardKind uint8

const (
	RAW HazardKind = iota // Read-After-Write
	WAW                   // Write-After-Write
	WAR                   // Write-After-Read
)

func (h HazardKind) String() string {
	switch h {
	case RAW:
		return "RAW"
	case WAW:
		return "WAW"
	case WAR:
		return "WAR"
	default:
		return "UNKNOWN"
	}
}

// Conflict is one hazard between an earlier and a later transaction on a
// shared slot. Invariant: Earlier < Later.
type Conflict struct {
	Slot    Slot
	Earlier TxIndex
	Later   TxIndex
	Kind    HazardKind
}

// Severity buckets a ContentionEvent's density.
type Severity uint8

const (
	Low Severity = iota
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	case Critical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// SeverityFromDensity buckets a density value per spec.md §3:
// < 1.0 Low, [1.0, 3.0) Medium, [3.0, 5.0) High, >= 5.0 Critical.
func SeverityFromDensity(density float64) Severity {
	switch {
	case density >= 5.0:
		return Critical
	case density >= 3.0:
		return High
	case density >= 1.0:
		return Medium
	default:
		return Low
	}
}

// ContentionEvent aggregates all conflicts touching one contract address.
type ContentionEvent struct {
	Address          Address
	ConflictCount    int
	AffectedTxCount  int
	Density          float64
	Severity         Severity
	DominantHazard   HazardKind
}

// BlockSummary is the per-block aggregate row emitted alongside conflicts
// and contention events.
type BlockSummary struct {
	BlockNumber            uint64
	TxCount                int
	TouchedEntriesCount    int
	DistinctTouchedTxCount int
	TotalConflicts         int
}
