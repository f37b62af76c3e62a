package ndjson

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-chain/argus/internal/report"
)

func TestWriteEmitsOneLinePerRowTaggedByKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	s, err := Open(path)
	require.NoError(t, err)

	rep := report.Report{
		Summary:     report.BlockSummaryRow{Block: 1, TxCount: 2, TotalConflicts: 1},
		Conflicts:   []report.ConflictRow{{Block: 1, Address: "0xAA", SlotHex: "0x01", Earlier: 0, Later: 1, Hazard: "WAW"}},
		Contentions: []report.ContentionRow{{Block: 1, Address: "0xAA", ConflictCount: 1, AffectedTxCount: 2, Density: 0.5, Severity: "Low", DominantHazard: "WAW"}},
	}
	require.NoError(t, s.Write(rep))
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var kinds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var row map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		kinds = append(kinds, row["kind"].(string))
	}
	require.Equal(t, []string{"block", "conflict", "contention"}, kinds)
}

func TestWriteProducesValidJSONPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(report.Report{Summary: report.BlockSummaryRow{Block: 5}}))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, byte('\n'), data[len(data)-1])

	var row map[string]any
	require.NoError(t, json.Unmarshal(data[:len(data)-1], &row))
	require.Equal(t, "block", row["kind"])
	require.EqualValues(t, 5, row["block"])
}
