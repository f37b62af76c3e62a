// Package conflict implements Component E from spec.md §4.E: it turns the
// ordered per-transaction access sets produced by the execution driver
// into a slot-keyed conflict index, classifies each conflict as
// RAW/WAW/WAR, aggregates per-contract contention, and scores density.
package conflict

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/argus-chain/argus/internal/argustypes"
	"github.com/argus-chain/argus/internal/arguserrors"
)

// flags records, for one transaction touching one slot, whether it read
// and/or wrote that slot.
type flags struct {
	tx         argustypes.TxIndex
	read       bool
	write      bool
}

// Result is the analyzer's complete output for one block.
type Result struct {
	Conflicts []argustypes.Conflict
	Events    []argustypes.ContentionEvent
	Summary   argustypes.BlockSummary
}

// Analyze builds the conflict graph for a block from its ordered
// transaction access sets. txs must be in block order (ascending Index);
// the inverted slot index is built in a single pass over txs.
func Analyze(blockNumber uint64, txs []*argustypes.TxAccessSet) (Result, error) {
	slotIndex := make(map[argustypes.Slot][]flags)
	touchedTxs := mapset.NewThreadUnsafeSet[argustypes.TxIndex]()

	for _, tx := range txs {
		for s := range tx.Reads {
			slotIndex[s] = appendFlag(slotIndex[s], tx.Index, true, false)
			touchedTxs.Add(tx.Index)
		}
		for s := range tx.Writes {
			slotIndex[s] = appendFlag(slotIndex[s], tx.Index, false, true)
			touchedTxs.Add(tx.Index)
		}
	}

	var conflicts []argustypes.Conflict
	for slot, entries := range slotIndex {
		if len(entries) < 2 {
			continue
		}
		// entries were appended in tx-iteration order, which is ascending
		// TxIndex order since txs is in block order.
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				earlier, later := entries[i], entries[j]
				if earlier.tx >= later.tx {
					return Result{}, arguserrors.Internal(
						fmt.Errorf("slot %s: non-increasing tx pair (%d, %d)", slot, earlier.tx, later.tx),
					).WithBlock(blockNumber)
				}
				if earlier.write && later.read {
					conflicts = append(conflicts, argustypes.Conflict{Slot: slot, Earlier: earlier.tx, Later: later.tx, Kind: argustypes.RAW})
				}
				if earlier.write && later.write {
					conflicts = append(conflicts, argustypes.Conflict{Slot: slot, Earlier: earlier.tx, Later: later.tx, Kind: argustypes.WAW})
				}
				if earlier.read && later.write {
					conflicts = append(conflicts, argustypes.Conflict{Slot: slot, Earlier: earlier.tx, Later: later.tx, Kind: argustypes.WAR})
				}
			}
		}
	}

	for _, c := range conflicts {
		if c.Earlier >= c.Later {
			return Result{}, arguserrors.Internal(fmt.Errorf("conflict invariant violated: earlier=%d later=%d", c.Earlier, c.Later)).WithBlock(blockNumber)
		}
	}

	// slotIndex is a Go map: iterating it above visits slots in randomized
	// order, so conflicts must be sorted into a canonical order before
	// anything downstream (report rows, every sink) observes them —
	// otherwise two runs over the identical block could emit the same
	// conflicts in different orders, violating spec.md §8's determinism
	// property.
	sort.SliceStable(conflicts, func(i, j int) bool {
		a, b := conflicts[i], conflicts[j]
		if a.Earlier != b.Earlier {
			return a.Earlier < b.Earlier
		}
		if a.Later != b.Later {
			return a.Later < b.Later
		}
		return lessSlot(a.Slot, b.Slot)
	})

	events := aggregate(conflicts)

	summary := argustypes.BlockSummary{
		BlockNumber:            blockNumber,
		TxCount:                len(txs),
		TouchedEntriesCount:    len(slotIndex),
		DistinctTouchedTxCount: touchedTxs.Cardinality(),
		TotalConflicts:         len(conflicts),
	}

	return Result{Conflicts: conflicts, Events: events, Summary: summary}, nil
}

func appendFlag(entries []flags, tx argustypes.TxIndex, read, write bool) []flags {
	for i := range entries {
		if entries[i].tx == tx {
			entries[i].read = entries[i].read || read
			entries[i].write = entries[i].write || write
			return entries
		}
	}
	return append(entries, flags{tx: tx, read: read, write: write})
}

type group struct {
	address         argustypes.Address
	conflictCount   int
	affectedTxs     mapset.Set[argustypes.TxIndex]
	kindCounts      [3]int // indexed by HazardKind
}

// aggregate groups conflicts by contract address per spec.md §4.E and
// orders the resulting ContentionEvents by severity desc, density desc,
// conflict_count desc, address asc — so the report is deterministic for a
// fixed block (spec.md §8's determinism property).
func aggregate(conflicts []argustypes.Conflict) []argustypes.ContentionEvent {
	groups := make(map[argustypes.Address]*group)
	var order []argustypes.Address

	for _, c := range conflicts {
		addr := c.Slot.Address
		g, ok := groups[addr]
		if !ok {
			g = &group{address: addr, affectedTxs: mapset.NewThreadUnsafeSet[argustypes.TxIndex]()}
			groups[addr] = g
			order = append(order, addr)
		}
		g.conflictCount++
		g.affectedTxs.Add(c.Earlier)
		g.affectedTxs.Add(c.Later)
		g.kindCounts[c.Kind]++
	}

	events := make([]argustypes.ContentionEvent, 0, len(order))
	for _, addr := range order {
		g := groups[addr]
		affected := g.affectedTxs.Cardinality()
		denom := affected
		if denom < 1 {
			denom = 1
		}
		density := float64(g.conflictCount) / float64(denom)
		events = append(events, argustypes.ContentionEvent{
			Address:         addr,
			ConflictCount:   g.conflictCount,
			AffectedTxCount: affected,
			Density:         density,
			Severity:        argustypes.SeverityFromDensity(density),
			DominantHazard:  dominantHazard(g.kindCounts),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Density != b.Density {
			return a.Density > b.Density
		}
		if a.ConflictCount != b.ConflictCount {
			return a.ConflictCount > b.ConflictCount
		}
		return lessAddress(a.Address, b.Address)
	})

	return events
}

// dominantHazard picks whichever of RAW/WAW/WAR has the highest count,
// ties broken in the order WAW > RAW > WAR (spec.md §4.E: WAW most
// severely defeats parallel execution).
func dominantHazard(counts [3]int) argustypes.HazardKind {
	order := []argustypes.HazardKind{argustypes.WAW, argustypes.RAW, argustypes.WAR}
	best := order[0]
	bestCount := counts[order[0]]
	for _, k := range order[1:] {
		if counts[k] > bestCount {
			bestCount = counts[k]
			best = k
		}
	}
	return best
}

func lessAddress(a, b argustypes.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// lessSlot orders slots by address, then by key, both byte-wise.
func lessSlot(a, b argustypes.Slot) bool {
	if a.Address != b.Address {
		return lessAddress(a.Address, b.Address)
	}
	for i := range a.Key {
		if a.Key[i] != b.Key[i] {
			return a.Key[i] < b.Key[i]
		}
	}
	return false
}
