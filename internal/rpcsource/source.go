// Package rpcsource is the thin JSON-RPC transport the prefetcher fans
// requests out against. Its interface brackets the out-of-scope "RPC
// transport" collaborator (spec.md §1) at exactly the methods the
// prefetcher needs.
//
// Grounded on the teacher's utils/rpc/json.go (context-based HTTP
// requests, draining and closing response bodies to allow connection
// reuse) adapted here to wrap go-ethereum's own batch-capable rpc.Client
// and ethclient.Client rather than a hand-rolled gorilla/rpc codec —
// go-ethereum's client already speaks the same JSON-RPC wire format a
// real Ethereum node serves. Retry/backoff is a property of how the
// prefetcher schedules tasks (spec.md §4.B, §5), not of the transport
// itself, so it lives in internal/prefetch rather than here.
package rpcsource

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Source is everything the prefetcher needs from an Ethereum JSON-RPC
// endpoint. *ethclient.Client already implements it; a hand-maintained,
// mockgen-style mock (mock_source.go) stands in for it in prefetcher unit tests without a
// live RPC endpoint (spec.md §4.0e).
type Source interface {
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
}

var _ Source = (*ethclient.Client)(nil)

// Dial connects to rawurl (http(s):// or ws(s)://) and returns the
// resulting ethclient.Client as a Source. Grounded on the teacher's
// single shared client used across every prefetch task (spec.md §5:
// "The RPC client: shared across prefetch tasks; must be safe for
// concurrent use" — ethclient.Client is goroutine-safe).
func Dial(ctx context.Context, rawurl string) (*ethclient.Client, error) {
	rc, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("rpcsource: dial %s: %w", rawurl, err)
	}
	return ethclient.NewClient(rc), nil
}
