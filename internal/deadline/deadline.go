// Package deadline bounds an operation with external settlement by racing
// it against a timer. Whichever settles first wins; the loser's eventual
// result is discarded. Cancellation does not propagate into the operation
// beyond the context the caller supplied, so a timed-out ledger submission
// may still finalize on chain. Callers treat that as a documented
// limitation, not something this package reconciles.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExpired is returned when the deadline fires before the operation
// settles.
var ErrExpired = errors.New("deadline expired")

type result[T any] struct {
	value T
	err   error
}

// Run invokes fn and waits at most d for it to settle. The result channel
// is buffered so the losing goroutine never leaks.
func Run[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	ch := make(chan result[T], 1)
	go func() {
		v, err := fn(ctx)
		ch <- result[T]{value: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-timer.C:
		return zero, fmt.Errorf("%w after %s", ErrExpired, d)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
