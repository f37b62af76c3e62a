// Package starrocks implements the OLAP bulk-load sink from spec.md §6:
// an HTTP PUT of an NDJSON body per write, idempotency-keyed on
// (block, table), retried on 5xx with the same capped backoff policy the
// prefetcher uses against transient RPC failures.
//
// Grounded on the teacher's utils/rpc/json.go: a context-based HTTP
// request built with http.NewRequestWithContext, headers set explicitly,
// and CleanlyCloseBody draining the response body before Close so the
// underlying connection can be reused.
package starrocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/argus-chain/argus/internal/argusmetrics"
	"github.com/argus-chain/argus/internal/backoff"
	"github.com/argus-chain/argus/internal/report"
)

// errServerError marks a 5xx response as retriable, per spec.md §6
// ("retried on 5xx up to a cap"). Any other non-2xx status is treated as
// a fatal sink error (spec.md §7 kind 5).
var errServerError = errors.New("starrocks: server error")

// Config is the parsed `--sink starrocks:<config>` argument: a
// comma-separated `key=value` list, e.g.
// "endpoint=http://host:8030,table=argus_conflicts".
type Config struct {
	Endpoint string
	Table    string
	Timeout  time.Duration
	RetryCap int
}

// ParseConfig parses the comma-separated key=value form of the
// `--sink starrocks:<config>` spec (spec.md §6).
func ParseConfig(raw string) (Config, error) {
	cfg := Config{Timeout: 10 * time.Second, RetryCap: 3}
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return Config{}, fmt.Errorf("malformed key=value pair %q", pair)
		}
		switch k {
		case "endpoint":
			cfg.Endpoint = v
		case "table":
			cfg.Table = v
		case "timeout":
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("timeout: %w", err)
			}
			cfg.Timeout = d
		case "retry_cap":
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, fmt.Errorf("retry_cap: %w", err)
			}
			cfg.RetryCap = n
		}
	}
	if cfg.Endpoint == "" || cfg.Table == "" {
		return Config{}, fmt.Errorf("starrocks config requires endpoint and table, got %q", raw)
	}
	return cfg, nil
}

// Sink PUTs one NDJSON-encoded batch per Write call to cfg.Endpoint.
type Sink struct {
	cfg     Config
	client  *http.Client
	metrics *argusmetrics.Metrics
}

// New returns a Sink for cfg. metrics may be nil.
func New(cfg Config, metrics *argusmetrics.Metrics) *Sink {
	return &Sink{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, metrics: metrics}
}

// Write encodes rep as NDJSON and PUTs it to the configured endpoint,
// retrying 5xx responses with capped backoff (spec.md §6 "retried on 5xx
// up to a cap"). The idempotency key is derived from (block, table) so a
// retried PUT after a partially-applied failure does not double-load.
func (s *Sink) Write(rep report.Report) error {
	start := time.Now()
	body, err := encodeNDJSON(rep)
	if err != nil {
		return fmt.Errorf("starrocks: encode: %w", err)
	}
	idempotencyKey := fmt.Sprintf("%d:%s", rep.Summary.Block, s.cfg.Table)

	policy := backoff.Policy{Cap: s.cfg.RetryCap, Base: 200 * time.Millisecond}
	err = backoff.Retry(context.Background(), policy, isRetriable, func(ctx context.Context) error {
		return s.put(ctx, body, idempotencyKey)
	})
	if s.metrics != nil {
		s.metrics.SinkWriteDuration.WithLabelValues("starrocks").Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.SinkWriteErrors.WithLabelValues("starrocks").Inc()
		}
	}
	if err != nil {
		return fmt.Errorf("starrocks: put: %w", err)
	}
	return nil
}

func (s *Sink) put(ctx context.Context, body []byte, idempotencyKey string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	req.Header.Set("Idempotency-Key", idempotencyKey)
	req.Header.Set("X-StarRocks-Table", s.cfg.Table)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("issue request: %w", err)
	}
	defer cleanlyCloseBody(resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", errServerError, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("received status code: %d", resp.StatusCode)
	}
	return nil
}

// cleanlyCloseBody drains and closes body to allow connection reuse and
// avoid HTTP/2 GOAWAY errors from closing a body with unread data —
// matching the teacher's utils/rpc.CleanlyCloseBody.
func cleanlyCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func isRetriable(err error) bool {
	return errors.Is(err, errServerError)
}

func encodeNDJSON(rep report.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(rep.Summary); err != nil {
		return nil, err
	}
	for _, c := range rep.Conflicts {
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
	}
	for _, ev := range rep.Contentions {
		if err := enc.Encode(ev); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
