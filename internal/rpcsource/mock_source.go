// Code generated in the style of go.uber.org/mock/mockgen for Source.
// Hand-maintained here rather than `go generate`-produced since the
// interface is small and stable; keep it in sync with source.go.

package rpcsource

import (
	"context"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/mock/gomock"
)

// MockSource is a mock of the Source interface.
type MockSource struct {
	ctrl     *gomock.Controller
	recorder *MockSourceMockRecorder
}

// MockSourceMockRecorder is the mock recorder for MockSource.
type MockSourceMockRecorder struct {
	mock *MockSource
}

// NewMockSource returns a new mock bound to ctrl.
func NewMockSource(ctrl *gomock.Controller) *MockSource {
	m := &MockSource{ctrl: ctrl}
	m.recorder = &MockSourceMockRecorder{m}
	return m
}

// EXPECT returns the recorder used to set expectations.
func (m *MockSource) EXPECT() *MockSourceMockRecorder {
	return m.recorder
}

func (m *MockSource) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockByNumber", ctx, number)
	block, _ := ret[0].(*types.Block)
	err, _ := ret[1].(error)
	return block, err
}

func (mr *MockSourceMockRecorder) BlockByNumber(ctx, number interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockByNumber", reflect.TypeOf((*MockSource)(nil).BlockByNumber), ctx, number)
}

func (m *MockSource) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BalanceAt", ctx, account, blockNumber)
	bal, _ := ret[0].(*big.Int)
	err, _ := ret[1].(error)
	return bal, err
}

func (mr *MockSourceMockRecorder) BalanceAt(ctx, account, blockNumber interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BalanceAt", reflect.TypeOf((*MockSource)(nil).BalanceAt), ctx, account, blockNumber)
}

func (m *MockSource) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NonceAt", ctx, account, blockNumber)
	nonce, _ := ret[0].(uint64)
	err, _ := ret[1].(error)
	return nonce, err
}

func (mr *MockSourceMockRecorder) NonceAt(ctx, account, blockNumber interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NonceAt", reflect.TypeOf((*MockSource)(nil).NonceAt), ctx, account, blockNumber)
}

func (m *MockSource) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CodeAt", ctx, account, blockNumber)
	code, _ := ret[0].([]byte)
	err, _ := ret[1].(error)
	return code, err
}

func (mr *MockSourceMockRecorder) CodeAt(ctx, account, blockNumber interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CodeAt", reflect.TypeOf((*MockSource)(nil).CodeAt), ctx, account, blockNumber)
}

func (m *MockSource) StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "StorageAt", ctx, account, key, blockNumber)
	word, _ := ret[0].([]byte)
	err, _ := ret[1].(error)
	return word, err
}

func (mr *MockSourceMockRecorder) StorageAt(ctx, account, key, blockNumber interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "StorageAt", reflect.TypeOf((*MockSource)(nil).StorageAt), ctx, account, key, blockNumber)
}

var _ Source = (*MockSource)(nil)
