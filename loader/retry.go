// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Retry runs op until it succeeds or maxAttempts is reached, waiting
// delay*attempt between attempts. It gives up early when the context ends or
// op reports ErrPageNotFound, since neither improves on a second try.
// Returns the error from the last attempt if all attempts fail.
func Retry[T any](ctx context.Context, op func(context.Context) (T, error), maxAttempts int, delay time.Duration) (T, error) {
	var zero T
	if maxAttempts <= 0 {
		return zero, ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, err := op(ctx)
		if err == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return value, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, errors.Join(ctxErr, err)
		}
		if errors.Is(err, ErrPageNotFound) {
			return zero, err
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", maxAttempts, "err", err)

		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// WithTimeout runs op with a deadline of timeout. If op has not returned by
// then, WithTimeout returns an ErrTimeout naming the operation; op's context is
// canceled so it can stop on its own.
func WithTimeout[T any](ctx context.Context, name string, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := op(ctx)
		done <- outcome{value, err}
	}()

	timedOut := func() error {
		return fmt.Errorf("%w: %s timed out after %s", ErrTimeout, name, timeout)
	}

	select {
	case out := <-done:
		if out.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, timedOut()
		}
		return out.value, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, timedOut()
		}
		return zero, ctx.Err()
	}
}
