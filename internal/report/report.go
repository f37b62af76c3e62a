// Package report implements Component F from spec.md §4.F: it converts
// the conflict analyzer's output into the three row shapes spec.md §6
// documents for sinks — BlockSummaryRow, ConflictRow, ContentionRow — in
// the analyzer's deterministic ordering. It performs no I/O; writing rows
// out is the sink's job.
package report

import (
	"github.com/argus-chain/argus/internal/argustypes"
	"github.com/argus-chain/argus/internal/conflict"
	"github.com/argus-chain/argus/internal/labels"
)

// BlockSummaryRow mirrors spec.md §6's `{ kind: "block", ... }` shape.
type BlockSummaryRow struct {
	Block          uint64 `json:"block"`
	TxCount        int    `json:"tx_count"`
	TouchedEntries int    `json:"touched_entries"`
	TouchedTxs     int    `json:"touched_txs"`
	TotalConflicts int    `json:"total_conflicts"`
}

// ConflictRow mirrors spec.md §6's `{ kind: "conflict", ... }` shape.
// Slot is rendered as a fixed-width 32-byte hex word via common.Hash.Hex,
// the same format go-ethereum itself uses for a storage key.
type ConflictRow struct {
	Block   uint64 `json:"block"`
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
	SlotHex string `json:"slot_hex"`
	Earlier int    `json:"earlier_tx"`
	Later   int    `json:"later_tx"`
	Hazard  string `json:"hazard"`
}

// ContentionRow mirrors spec.md §6's `{ kind: "contention", ... }` shape.
type ContentionRow struct {
	Block           uint64  `json:"block"`
	Address         string  `json:"address"`
	Label           string  `json:"label,omitempty"`
	ConflictCount   int     `json:"conflict_count"`
	AffectedTxCount int     `json:"affected_tx_count"`
	Density         float64 `json:"density"`
	Severity        string  `json:"severity"`
	DominantHazard  string  `json:"dominant_hazard"`
}

// Report bundles all three row collections for one block, in the
// analyzer's deterministic order (spec.md §4.E "Ordering").
type Report struct {
	Summary     BlockSummaryRow
	Conflicts   []ConflictRow
	Contentions []ContentionRow
}

// Assemble builds a Report from one block's conflict analysis result.
// Row order is exactly the order conflict.Analyze produced — this
// function introduces no reordering, preserving spec.md §8's
// determinism property end to end.
func Assemble(result conflict.Result) Report {
	r := Report{
		Summary: BlockSummaryRow{
			Block:          result.Summary.BlockNumber,
			TxCount:        result.Summary.TxCount,
			TouchedEntries: result.Summary.TouchedEntriesCount,
			TouchedTxs:     result.Summary.DistinctTouchedTxCount,
			TotalConflicts: result.Summary.TotalConflicts,
		},
		Conflicts:   make([]ConflictRow, 0, len(result.Conflicts)),
		Contentions: make([]ContentionRow, 0, len(result.Events)),
	}

	for _, c := range result.Conflicts {
		r.Conflicts = append(r.Conflicts, ConflictRow{
			Block:   result.Summary.BlockNumber,
			Address: c.Slot.Address.Hex(),
			Label:   labelOf(c.Slot.Address),
			SlotHex: c.Slot.Key.Hex(),
			Earlier: int(c.Earlier),
			Later:   int(c.Later),
			Hazard:  c.Kind.String(),
		})
	}

	for _, ev := range result.Events {
		r.Contentions = append(r.Contentions, ContentionRow{
			Block:           result.Summary.BlockNumber,
			Address:         ev.Address.Hex(),
			Label:           labelOf(ev.Address),
			ConflictCount:   ev.ConflictCount,
			AffectedTxCount: ev.AffectedTxCount,
			Density:         ev.Density,
			Severity:        ev.Severity.String(),
			DominantHazard:  ev.DominantHazard.String(),
		})
	}

	return r
}

func labelOf(addr argustypes.Address) string {
	name, ok := labels.Label(addr)
	if !ok {
		return ""
	}
	return name
}
