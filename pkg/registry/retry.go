// Copyright 2026 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxAttempts is the number of attempts made per query, including
	// the first one.
	DefaultMaxAttempts = 3
	// DefaultBackoff is the wait after a 429 response without a usable
	// Retry-After header.
	DefaultBackoff = time.Second
)

// verdict is the outcome of a single attempt.
type verdict struct {
	// retry indicates that the attempt failed in a retryable way.
	retry bool
	// wait is the delay before the next attempt.
	wait time.Duration
}

// retryPolicy runs attempts of one query. The state (the attempt counter) is
// local to a single run call, queries do not share a budget.
type retryPolicy struct {
	maxAttempts int
	sleep       func(context.Context, time.Duration) error
	// onRetry is called before every retry with the attempt that failed.
	onRetry func(attempt int, wait time.Duration)
}

// run calls attempt until it returns a verdict that is not retryable, or the
// attempt budget is spent. The error of the last attempt is returned.
func (p retryPolicy) run(ctx context.Context, attempt func(n int) (verdict, error)) error {
	for n := 1; ; n++ {
		v, err := attempt(n)
		if !v.retry || n >= p.maxAttempts {
			return err
		}
		if p.onRetry != nil {
			p.onRetry(n, v.wait)
		}
		if v.wait > 0 {
			if err := p.sleep(ctx, v.wait); err != nil {
				return err
			}
		}
	}
}

// retryAfter returns the delay requested by the Retry-After header in
// seconds, or def if the header is absent or not a non-negative number.
func retryAfter(h http.Header, def time.Duration) time.Duration {
	raw := strings.TrimSpace(h.Get("Retry-After"))
	if raw == "" {
		return def
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(secs >= 0) || math.IsInf(secs, 1) {
		return def
	}
	return time.Duration(secs * float64(time.Second))
}

// sleepCtx blocks for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
