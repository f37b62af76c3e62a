// Package stdouttable implements the default `--sink stdout` sink from
// spec.md §6: a pretty-printed table of the block summary, conflicts,
// and contention events. Grounded on `erigontech/erigon`'s go.mod, the
// only repo in the pack that depends on a table-rendering library —
// exactly this need.
package stdouttable

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/argus-chain/argus/internal/report"
)

// Sink renders one table per Write call to its configured writer
// (os.Stdout by default).
type Sink struct {
	out io.Writer
}

// New returns a Sink writing to os.Stdout.
func New() *Sink {
	return &Sink{out: os.Stdout}
}

// NewWithWriter returns a Sink writing to w, for tests.
func NewWithWriter(w io.Writer) *Sink {
	return &Sink{out: w}
}

// Write renders rep as three tables: a one-row block summary, a
// conflicts table, and a contention-events table (omitted if empty).
func (s *Sink) Write(rep report.Report) error {
	fmt.Fprintf(s.out, "block %d\n", rep.Summary.Block)

	summary := table.NewWriter()
	summary.SetOutputMirror(s.out)
	summary.AppendHeader(table.Row{"tx_count", "touched_entries", "touched_txs", "total_conflicts"})
	summary.AppendRow(table.Row{rep.Summary.TxCount, rep.Summary.TouchedEntries, rep.Summary.TouchedTxs, rep.Summary.TotalConflicts})
	summary.Render()

	if len(rep.Conflicts) > 0 {
		fmt.Fprintln(s.out)
		conflicts := table.NewWriter()
		conflicts.SetOutputMirror(s.out)
		conflicts.AppendHeader(table.Row{"address", "label", "slot", "earlier_tx", "later_tx", "hazard"})
		for _, c := range rep.Conflicts {
			conflicts.AppendRow(table.Row{c.Address, c.Label, c.SlotHex, c.Earlier, c.Later, c.Hazard})
		}
		conflicts.Render()
	}

	if len(rep.Contentions) > 0 {
		fmt.Fprintln(s.out)
		events := table.NewWriter()
		events.SetOutputMirror(s.out)
		events.AppendHeader(table.Row{"address", "label", "conflicts", "affected_txs", "density", "severity", "dominant"})
		for _, ev := range rep.Contentions {
			events.AppendRow(table.Row{ev.Address, ev.Label, ev.ConflictCount, ev.AffectedTxCount, fmt.Sprintf("%.3f", ev.Density), ev.Severity, ev.DominantHazard})
		}
		events.Render()
	}

	return nil
}

// Close is a no-op: stdout is never closed.
func (s *Sink) Close() error { return nil }
