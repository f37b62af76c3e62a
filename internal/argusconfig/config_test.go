package argusconfig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-chain/argus/internal/arguserrors"
)

func TestLoadParsesRequiredFlags(t *testing.T) {
	cfg, err := Load([]string{"--rpc-url=http://localhost:8545", "--block=100"})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8545", cfg.RPCURL)
	require.EqualValues(t, 100, cfg.Block)
	require.Equal(t, "stdout", cfg.Sink)
	require.Equal(t, defaultParallelism, cfg.Parallelism)
}

func TestLoadRequiresRPCURLUnlessDryRun(t *testing.T) {
	_, err := Load([]string{"--block=1"})
	require.Error(t, err)

	cfg, err := Load([]string{"--block=1", "--dry-run"})
	require.NoError(t, err)
	require.True(t, cfg.DryRun)
}

func TestLoadRequiresBlock(t *testing.T) {
	_, err := Load([]string{"--rpc-url=http://localhost:8545"})
	require.Error(t, err)
}

func TestLoadRejectsParallelismOutOfRange(t *testing.T) {
	_, err := Load([]string{"--rpc-url=http://x", "--block=1", "--parallelism=1000"})
	require.Error(t, err)
	var argusErr *arguserrors.Error
	require.True(t, arguserrors.As(err, &argusErr))
	require.Equal(t, arguserrors.KindConfiguration, argusErr.Kind)

	_, err = Load([]string{"--rpc-url=http://x", "--block=1", "--parallelism=0"})
	require.Error(t, err)
	require.True(t, arguserrors.As(err, &argusErr))
	require.Equal(t, arguserrors.KindConfiguration, argusErr.Kind)
}

func TestLoadAcceptsParallelismAtBounds(t *testing.T) {
	cfg, err := Load([]string{"--rpc-url=http://x", "--block=1", "--parallelism=1"})
	require.NoError(t, err)
	require.Equal(t, minParallelism, cfg.Parallelism)

	cfg, err = Load([]string{"--rpc-url=http://x", "--block=1", "--parallelism=64"})
	require.NoError(t, err)
	require.Equal(t, maxParallelism, cfg.Parallelism)
}

func TestLoadRejectsNegativeRetryCap(t *testing.T) {
	_, err := Load([]string{"--rpc-url=http://x", "--block=1", "--retry-cap=-1"})
	require.Error(t, err)
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	_, err := Load([]string{"--rpc-url=http://x", "--block=1", "--log-format=xml"})
	require.Error(t, err)
}

func TestLoadReadsEnvRPCURL(t *testing.T) {
	t.Setenv("ARGUS_RPC_URL", "http://env-host:8545")
	cfg, err := Load([]string{"--block=1"})
	require.NoError(t, err)
	require.Equal(t, "http://env-host:8545", cfg.RPCURL)
}

func TestLoadParsesJSONAndSinkFlags(t *testing.T) {
	cfg, err := Load([]string{"--rpc-url=http://x", "--block=1", "--sink=ndjson:/tmp/out.ndjson", "--json"})
	require.NoError(t, err)
	require.Equal(t, "ndjson:/tmp/out.ndjson", cfg.Sink)
	require.True(t, cfg.JSON)
}
