package executor

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/argus-chain/argus/internal/statecache"
)

func newTestStateDB() *StateDB {
	return NewStateDB(statecache.New(0))
}

func TestSetStateWriteThroughIsVisibleImmediately(t *testing.T) {
	s := newTestStateDB()
	addr := common.HexToAddress("0xAA")
	slot := common.HexToHash("0x01")
	val := common.HexToHash("0x42")

	s.SetState(addr, slot, val)
	require.Equal(t, val, s.GetState(addr, slot))
}

func TestRevertToSnapshotUndoesStorageWrite(t *testing.T) {
	s := newTestStateDB()
	addr := common.HexToAddress("0xAA")
	slot := common.HexToHash("0x01")

	s.SetState(addr, slot, common.HexToHash("0x01"))
	id := s.Snapshot()
	s.SetState(addr, slot, common.HexToHash("0x02"))
	require.Equal(t, common.HexToHash("0x02"), s.GetState(addr, slot))

	s.RevertToSnapshot(id)
	require.Equal(t, common.HexToHash("0x01"), s.GetState(addr, slot))
}

func TestRevertToSnapshotUndoesBalanceAndNonce(t *testing.T) {
	s := newTestStateDB()
	addr := common.HexToAddress("0xAA")

	id := s.Snapshot()
	s.AddBalance(addr, uint256.NewInt(100), tracing.BalanceChangeTransfer)
	s.SetNonce(addr, 7, tracing.NonceChangeEoACall)
	require.EqualValues(t, 100, s.GetBalance(addr).Uint64())
	require.EqualValues(t, 7, s.GetNonce(addr))

	s.RevertToSnapshot(id)
	require.True(t, s.GetBalance(addr).IsZero())
	require.EqualValues(t, 0, s.GetNonce(addr))
}

func TestNestedSnapshotsRevertIndependently(t *testing.T) {
	s := newTestStateDB()
	addr := common.HexToAddress("0xAA")
	slot := common.HexToHash("0x01")

	s.SetState(addr, slot, common.HexToHash("0x01"))
	outer := s.Snapshot()
	s.SetState(addr, slot, common.HexToHash("0x02"))
	inner := s.Snapshot()
	s.SetState(addr, slot, common.HexToHash("0x03"))

	s.RevertToSnapshot(inner)
	require.Equal(t, common.HexToHash("0x02"), s.GetState(addr, slot))

	s.RevertToSnapshot(outer)
	require.Equal(t, common.HexToHash("0x01"), s.GetState(addr, slot))
}

func TestSetTxContextClearsTransientAndAccessListButNotStorage(t *testing.T) {
	s := newTestStateDB()
	addr := common.HexToAddress("0xAA")
	slot := common.HexToHash("0x01")

	s.SetState(addr, slot, common.HexToHash("0x42"))
	s.SetTransientState(addr, slot, common.HexToHash("0x99"))
	s.AddAddressToAccessList(addr)

	s.SetTxContext(common.HexToHash("0xBEEF"), 1)

	require.Equal(t, common.Hash{}, s.GetTransientState(addr, slot))
	require.False(t, s.AddressInAccessList(addr))
	require.Equal(t, common.HexToHash("0x42"), s.GetState(addr, slot), "storage must survive across transactions in the same block")
}

func TestCommitAccountPersistsBalanceNonceCode(t *testing.T) {
	cache := statecache.New(0)
	s := NewStateDB(cache)
	addr := common.HexToAddress("0xAA")

	s.AddBalance(addr, uint256.NewInt(50), tracing.BalanceChangeTransfer)
	s.SetNonce(addr, 3, tracing.NonceChangeEoACall)
	s.SetCode(addr, []byte{0x60, 0x00})
	s.CommitAccount(addr)

	s2 := NewStateDB(cache)
	require.EqualValues(t, 50, s2.GetBalance(addr).Uint64())
	require.EqualValues(t, 3, s2.GetNonce(addr))
	require.Equal(t, []byte{0x60, 0x00}, s2.GetCode(addr))
}

func TestSelfDestructZeroesBalanceAndMarksDestructed(t *testing.T) {
	s := newTestStateDB()
	addr := common.HexToAddress("0xAA")
	s.AddBalance(addr, uint256.NewInt(10), tracing.BalanceChangeTransfer)

	prev := s.SelfDestruct(addr)
	require.EqualValues(t, 10, prev.Uint64())
	require.True(t, s.HasSelfDestructed(addr))
	require.True(t, s.GetBalance(addr).IsZero())
}

func TestEmptyAccountHasZeroBalanceNonceAndNoCode(t *testing.T) {
	s := newTestStateDB()
	addr := common.HexToAddress("0xAA")
	require.True(t, s.Empty(addr))

	s.SetNonce(addr, 1, tracing.NonceChangeEoACall)
	require.False(t, s.Empty(addr))
}
