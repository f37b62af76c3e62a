// Package backoff implements the capped exponential backoff retry policy
// spec.md §5/§7 describes once, shared by every caller that retries a
// transient failure against an external collaborator: the prefetcher
// against its RPC endpoint and the starrocks sink against its OLAP HTTP
// endpoint (SPEC_FULL.md §6).
package backoff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/argus-chain/argus/internal/arguslog"
)

// Policy is a capped exponential backoff: attempt n (1-based) waits
// Base<<  (n-1), up to Cap additional attempts after the first.
type Policy struct {
	Cap  int
	Base time.Duration
}

// Retry calls fn, retrying while isTransient(err) reports true, waiting
// longer between each attempt, until either fn succeeds, isTransient
// reports false, ctx is cancelled, or the cap is exhausted. isTransient
// nil treats every non-nil error as transient.
func Retry(ctx context.Context, p Policy, isTransient func(error) bool, fn func(context.Context) error) error {
	if isTransient == nil {
		isTransient = func(error) bool { return true }
	}

	var lastErr error
	for attempt := 0; attempt <= p.Cap; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || !isTransient(err) {
			return err
		}
		if attempt == p.Cap {
			break
		}

		delay := p.Base << attempt
		arguslog.Warn("retrying after transient error", "attempt", attempt+1, "delay", delay, "err", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("exceeded retry cap (%d): %w", p.Cap, lastErr)
}
