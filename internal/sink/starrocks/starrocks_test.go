package starrocks

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-chain/argus/internal/report"
)

func TestParseConfigExtractsEndpointAndTable(t *testing.T) {
	cfg, err := ParseConfig("endpoint=http://localhost:8030,table=argus_conflicts,retry_cap=1")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8030", cfg.Endpoint)
	require.Equal(t, "argus_conflicts", cfg.Table)
	require.Equal(t, 1, cfg.RetryCap)
}

func TestParseConfigRejectsMissingTable(t *testing.T) {
	_, err := ParseConfig("endpoint=http://localhost:8030")
	require.Error(t, err)
}

func TestWritePutsNDJSONBodyWithIdempotencyKey(t *testing.T) {
	var gotMethod, gotKey, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotKey = r.Header.Get("Idempotency-Key")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg, err := ParseConfig("endpoint=" + srv.URL + ",table=argus_conflicts")
	require.NoError(t, err)
	s := New(cfg, nil)

	err = s.Write(report.Report{Summary: report.BlockSummaryRow{Block: 7}})
	require.NoError(t, err)

	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "7:argus_conflicts", gotKey)
	require.Equal(t, "application/x-ndjson", gotContentType)
	require.Contains(t, string(gotBody), `"block":7`)
}

func TestWriteRetries5xxThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg, err := ParseConfig("endpoint=" + srv.URL + ",table=t,retry_cap=2")
	require.NoError(t, err)
	s := New(cfg, nil)

	err = s.Write(report.Report{Summary: report.BlockSummaryRow{Block: 1}})
	require.NoError(t, err)
	require.EqualValues(t, 2, attempts.Load())
}

func TestWriteDoesNotRetryA4xx(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg, err := ParseConfig("endpoint=" + srv.URL + ",table=t,retry_cap=3")
	require.NoError(t, err)
	s := New(cfg, nil)

	err = s.Write(report.Report{Summary: report.BlockSummaryRow{Block: 1}})
	require.Error(t, err)
	require.EqualValues(t, 1, attempts.Load())
}
