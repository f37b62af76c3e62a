package prefetch

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/argus-chain/argus/internal/rpcsource"
	"github.com/argus-chain/argus/internal/statecache"
)

// TestMain verifies that a cancelled or completed prefetch never leaks a
// goroutine, matching the teacher's core/main_test.go idiom.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testKey, _ = crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")

func signedTx(nonce uint64, to common.Address) *types.Transaction {
	signer := types.LatestSigner(params.TestChainConfig)
	tx, err := types.SignTx(types.NewTransaction(nonce, to, big.NewInt(0), 21_000, big.NewInt(1), nil), signer, testKey)
	if err != nil {
		panic(err)
	}
	return tx
}

func testBlock(number uint64, txs ...*types.Transaction) *types.Block {
	header := &types.Header{Number: big.NewInt(int64(number)), Time: 1700000000}
	return types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: txs})
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryBaseDelay = time.Millisecond
	cfg.RequestTimeout = time.Second
	return cfg
}

func TestWarmFetchesSenderAndRecipientAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := rpcsource.NewMockSource(ctrl)

	to := common.HexToAddress("0xBB")
	tx := signedTx(0, to)
	block := testBlock(1, tx)
	from, err := types.Sender(types.LatestSigner(params.TestChainConfig), tx)
	require.NoError(t, err)

	mock.EXPECT().BlockByNumber(gomock.Any(), big.NewInt(1)).Return(block, nil)
	for _, addr := range []common.Address{from, to} {
		mock.EXPECT().BalanceAt(gomock.Any(), addr, big.NewInt(1)).Return(big.NewInt(5), nil)
		mock.EXPECT().NonceAt(gomock.Any(), addr, big.NewInt(1)).Return(uint64(0), nil)
		mock.EXPECT().CodeAt(gomock.Any(), addr, big.NewInt(1)).Return(nil, nil)
	}

	p := New(fastConfig(), mock, nil)
	cache := statecache.New(0)
	got, err := p.Warm(context.Background(), cache, params.TestChainConfig, 1)
	require.NoError(t, err)
	require.Equal(t, block.Hash(), got.Hash())

	info, ok := cache.GetAccount(from)
	require.True(t, ok)
	require.EqualValues(t, 5, info.Balance.Uint64())
}

func TestWarmSeedsAccessListSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := rpcsource.NewMockSource(ctrl)

	contract := common.HexToAddress("0xCC")
	slot := common.HexToHash("0x07")
	signer := types.LatestSigner(params.TestChainConfig)
	tx, err := types.SignTx(types.NewTx(&types.AccessListTx{
		ChainID:  params.TestChainConfig.ChainID,
		Nonce:    0,
		To:       &contract,
		Gas:      21_000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(0),
		AccessList: types.AccessList{
			{Address: contract, StorageKeys: []common.Hash{slot}},
		},
	}), signer, testKey)
	require.NoError(t, err)
	block := testBlock(1, tx)
	from, err := types.Sender(signer, tx)
	require.NoError(t, err)

	mock.EXPECT().BlockByNumber(gomock.Any(), big.NewInt(1)).Return(block, nil)
	for _, addr := range []common.Address{from, contract} {
		mock.EXPECT().BalanceAt(gomock.Any(), addr, big.NewInt(1)).Return(big.NewInt(0), nil)
		mock.EXPECT().NonceAt(gomock.Any(), addr, big.NewInt(1)).Return(uint64(0), nil)
		mock.EXPECT().CodeAt(gomock.Any(), addr, big.NewInt(1)).Return(nil, nil)
	}
	mock.EXPECT().StorageAt(gomock.Any(), contract, slot, big.NewInt(1)).Return(common.HexToHash("0x42").Bytes(), nil)

	p := New(fastConfig(), mock, nil)
	cache := statecache.New(0)
	_, err = p.Warm(context.Background(), cache, params.TestChainConfig, 1)
	require.NoError(t, err)

	word, ok := cache.GetStorage(contract, slot)
	require.True(t, ok)
	require.Equal(t, common.HexToHash("0x42"), word)
}

func TestWarmRetriesTransientErrorsThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := rpcsource.NewMockSource(ctrl)

	block := testBlock(1)
	mock.EXPECT().BlockByNumber(gomock.Any(), big.NewInt(1)).Return(nil, errors.New("timeout"))
	mock.EXPECT().BlockByNumber(gomock.Any(), big.NewInt(1)).Return(block, nil)

	p := New(fastConfig(), mock, nil)
	cache := statecache.New(0)
	got, err := p.Warm(context.Background(), cache, params.TestChainConfig, 1)
	require.NoError(t, err)
	require.Equal(t, block.Hash(), got.Hash())
}

func TestWarmAbortsAfterExhaustingRetryCap(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := rpcsource.NewMockSource(ctrl)

	cfg := fastConfig()
	cfg.RetryCap = 1
	mock.EXPECT().BlockByNumber(gomock.Any(), big.NewInt(1)).Return(nil, errors.New("rate limited")).Times(2)

	p := New(cfg, mock, nil)
	cache := statecache.New(0)
	_, err := p.Warm(context.Background(), cache, params.TestChainConfig, 1)
	require.Error(t, err)
}

func TestWarmCancelsOnContextCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := rpcsource.NewMockSource(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock.EXPECT().BlockByNumber(gomock.Any(), big.NewInt(1)).Return(nil, context.Canceled).AnyTimes()

	p := New(fastConfig(), mock, nil)
	cache := statecache.New(0)
	_, err := p.Warm(ctx, cache, params.TestChainConfig, 1)
	require.Error(t, err)
}
