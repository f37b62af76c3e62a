package stdouttable

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-chain/argus/internal/report"
)

func TestWriteRendersSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter(&buf)

	err := s.Write(report.Report{
		Summary: report.BlockSummaryRow{Block: 42, TxCount: 3, TouchedEntries: 5, TouchedTxs: 2, TotalConflicts: 1},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "block 42")
	require.Contains(t, out, "TX_COUNT")
	require.Contains(t, out, "3")
}

func TestWriteOmitsConflictAndContentionTablesWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter(&buf)

	err := s.Write(report.Report{Summary: report.BlockSummaryRow{Block: 1}})
	require.NoError(t, err)

	out := buf.String()
	require.NotContains(t, out, "EARLIER_TX")
	require.NotContains(t, out, "DOMINANT")
}

func TestWriteRendersConflictAndContentionRows(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter(&buf)

	rep := report.Report{
		Summary: report.BlockSummaryRow{Block: 7, TxCount: 2, TotalConflicts: 1},
		Conflicts: []report.ConflictRow{
			{Block: 7, Address: "0xAA", SlotHex: "0x01", Earlier: 0, Later: 1, Hazard: "WAW"},
		},
		Contentions: []report.ContentionRow{
			{Block: 7, Address: "0xAA", ConflictCount: 1, AffectedTxCount: 2, Density: 0.5, Severity: "Low", DominantHazard: "WAW"},
		},
	}
	err := s.Write(rep)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "0xAA")
	require.Contains(t, out, "WAW")
	require.Contains(t, out, "0.500")
}

func TestCloseIsANoop(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter(&buf)
	require.NoError(t, s.Close())
}
