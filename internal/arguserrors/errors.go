// Package arguserrors defines the error taxonomy from spec.md §7 and maps
// each kind to the process exit code a caller should use.
package arguserrors

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Kind identifies one of the six error categories from spec.md §7.
type Kind uint8

const (
	// KindConfiguration covers missing/invalid CLI flags or env vars.
	KindConfiguration Kind = iota
	// KindTransport covers RPC unreachable/non-2xx/timeout, after retries
	// are exhausted.
	KindTransport
	// KindDecoding covers a malformed RPC response; never retried.
	KindDecoding
	// KindExecution covers an interpreter setup failure for a single
	// transaction. Reverted transactions are NOT this kind.
	KindExecution
	// KindSink covers an output sink write failure.
	KindSink
	// KindInternal covers an internal invariant violation (e.g.
	// Earlier >= Later on a Conflict); always indicates a bug.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindDecoding:
		return "decoding"
	case KindExecution:
		return "execution"
	case KindSink:
		return "sink"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ExitCode maps a Kind to the process exit code documented in spec.md §6/§7.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration:
		return 1
	case KindTransport, KindDecoding:
		return 2
	case KindExecution, KindInternal:
		return 3
	case KindSink:
		return 4
	default:
		return 1
	}
}

// Error carries a Kind plus the optional block/tx/address context spec.md
// §7 requires user-visible failures to include.
type Error struct {
	Kind    Kind
	Block   *uint64
	TxIndex *int
	Address *common.Address
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Kind)
	if e.Block != nil {
		msg += fmt.Sprintf(" block=%d", *e.Block)
	}
	if e.TxIndex != nil {
		msg += fmt.Sprintf(" tx=%d", *e.TxIndex)
	}
	if e.Address != nil {
		msg += fmt.Sprintf(" address=%s", e.Address.Hex())
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// ExitCode satisfies a common "exit coder" convention used by the CLI layer.
func (e *Error) ExitCode() int { return e.Kind.ExitCode() }

// New wraps cause as an Error of the given kind with no extra context.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// WithBlock attaches a block number to an Error, returning a new value.
func (e *Error) WithBlock(block uint64) *Error {
	cp := *e
	cp.Block = &block
	return &cp
}

// WithTx attaches a transaction index to an Error, returning a new value.
func (e *Error) WithTx(tx int) *Error {
	cp := *e
	cp.TxIndex = &tx
	return &cp
}

// WithAddress attaches an address to an Error, returning a new value.
func (e *Error) WithAddress(addr common.Address) *Error {
	cp := *e
	cp.Address = &addr
	return &cp
}

// Configuration wraps cause as a KindConfiguration Error.
func Configuration(cause error) *Error { return New(KindConfiguration, cause) }

// Transport wraps cause as a KindTransport Error.
func Transport(cause error) *Error { return New(KindTransport, cause) }

// Decoding wraps cause as a KindDecoding Error.
func Decoding(cause error) *Error { return New(KindDecoding, cause) }

// Execution wraps cause as a KindExecution Error.
func Execution(cause error) *Error { return New(KindExecution, cause) }

// Sink wraps cause as a KindSink Error.
func Sink(cause error) *Error { return New(KindSink, cause) }

// Internal wraps cause as a KindInternal Error. Internal errors indicate a
// bug in this program, not bad input.
func Internal(cause error) *Error { return New(KindInternal, cause) }

// As is a thin re-export of errors.As for callers that only import this
// package, matching the teacher's vmerrors convenience wrappers.
func As(err error, target interface{}) bool { return errors.As(err, target) }
