// Package sink defines the Sink interface every output writer
// implements and a factory parsing the `--sink <spec>` CLI flag from
// spec.md §6 into a concrete Sink. The sinks themselves (ndjson,
// starrocks, stdouttable) live in subpackages; this package only
// specifies the seam and wires the flag grammar.
package sink

import (
	"fmt"
	"strings"

	"github.com/argus-chain/argus/internal/argusmetrics"
	"github.com/argus-chain/argus/internal/report"
	"github.com/argus-chain/argus/internal/sink/ndjson"
	"github.com/argus-chain/argus/internal/sink/starrocks"
	"github.com/argus-chain/argus/internal/sink/stdouttable"
)

// Sink writes one block's assembled report out. Write is called exactly
// once per analyzed block; Close flushes and releases any resource the
// sink holds open (spec.md §7 kind 5, "flushed rows already delivered
// are kept" on a write failure).
type Sink interface {
	Write(rep report.Report) error
	Close() error
}

// New parses a `--sink` spec (spec.md §6: "stdout" | "ndjson:<path>" |
// "starrocks:<config>") into a concrete Sink. metrics may be nil.
func New(spec string, metrics *argusmetrics.Metrics) (Sink, error) {
	kind, arg, _ := strings.Cut(spec, ":")
	switch kind {
	case "", "stdout":
		return stdouttable.New(), nil
	case "ndjson":
		if arg == "" {
			return nil, fmt.Errorf("sink: ndjson requires a path, got %q", spec)
		}
		return ndjson.Open(arg)
	case "starrocks":
		if arg == "" {
			return nil, fmt.Errorf("sink: starrocks requires a config, got %q", spec)
		}
		cfg, err := starrocks.ParseConfig(arg)
		if err != nil {
			return nil, fmt.Errorf("sink: %w", err)
		}
		return starrocks.New(cfg, metrics), nil
	default:
		return nil, fmt.Errorf("sink: unknown kind %q", kind)
	}
}
