// Copyright 2024 - See NOTICE file for copyright holders.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package poll implements fixed-interval retrying with a bounded number of
// attempts. There is no backoff and no jitter.
package poll // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/poll"

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"
)

type (
	// Options configures a poll.
	Options struct {
		// Retries is the maximum number of attempts. Values below one are
		// treated as one.
		Retries int
		// Interval is the pause between two attempts.
		Interval time.Duration
	}

	// Func is a single attempt.
	Func[T any] func(ctx context.Context) (T, error)
)

const (
	// DefaultRetries is the default number of attempts.
	DefaultRetries = 15
	// DefaultInterval is the default pause between attempts.
	DefaultInterval = 1 * time.Second
)

// ErrNotDone is returned by Until when no attempt produced an accepted value.
var ErrNotDone = errors.New("condition not met")

// DefaultOptions returns the default poll options.
func DefaultOptions() Options {
	return Options{Retries: DefaultRetries, Interval: DefaultInterval}
}

func (o Options) attempts() int {
	if o.Retries < 1 {
		return 1
	}
	return o.Retries
}

// Do calls fn until it succeeds or opts.Retries attempts failed. It returns
// the first successful value, or the last error.
func Do[T any](ctx context.Context, opts Options, fn Func[T]) (T, error) {
	return Until(ctx, opts, fn, nil)
}

// Until calls fn until it returns a value accepted by done, or opts.Retries
// attempts were made. Failed attempts and rejected values both count as an
// attempt. A nil done accepts every value. If the attempts are exhausted, the
// last value is returned together with the last error, or ErrNotDone if the
// last attempt did not fail.
func Until[T any](ctx context.Context, opts Options, fn Func[T], done func(T) bool) (T, error) {
	var (
		val     T
		err     error
		retries = opts.attempts()
		logger  = log.WithField("retries", retries)
	)

	for attempt := 1; ; attempt++ {
		val, err = fn(ctx)
		if err == nil && (done == nil || done(val)) {
			return val, nil
		}
		if err != nil {
			logger.WithError(err).Debugf("Poll attempt %d failed", attempt)
		}
		if attempt >= retries {
			break
		}
		if werr := wait(ctx, opts.Interval); werr != nil {
			return val, werr
		}
	}

	if err != nil {
		return val, errors.WithMessagef(err, "giving up after %d attempts", retries)
	}
	return val, errors.Wrapf(ErrNotDone, "giving up after %d attempts", retries)
}

// wait waits for d or until the context is cancelled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
