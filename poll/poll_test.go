// SPDX-License-Identifier: Apache-2.0

package poll_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/poll"
)

var errQuery = errors.New("query failed")

func failing(n int, calls *int) poll.Func[string] {
	return func(context.Context) (string, error) {
		*calls++
		if *calls < n {
			return "", errQuery
		}
		return "42u64", nil
	}
}

func TestDo_SucceedsOnLastAttempt(t *testing.T) {
	const n = 5
	calls := 0
	v, err := poll.Do(context.Background(), poll.Options{Retries: n, Interval: time.Millisecond}, failing(n, &calls))
	require.NoError(t, err)
	assert.Equal(t, "42u64", v)
	assert.Equal(t, n, calls)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	const n = 4
	calls := 0
	_, err := poll.Do(context.Background(), poll.Options{Retries: n, Interval: time.Millisecond}, failing(n+1, &calls))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errQuery))
	assert.Equal(t, n, calls, "exactly n attempts")
}

func TestDo_AtLeastOneAttempt(t *testing.T) {
	calls := 0
	_, err := poll.Do(context.Background(), poll.Options{}, failing(2, &calls))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_FixedInterval(t *testing.T) {
	const n, interval = 3, 20 * time.Millisecond
	calls := 0
	start := time.Now()
	_, err := poll.Do(context.Background(), poll.Options{Retries: n, Interval: interval}, failing(n+1, &calls))
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), (n-1)*interval)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errQuery
	}
	_, err := poll.Do(ctx, poll.Options{Retries: 10, Interval: time.Hour}, fn)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}

func TestUntil(t *testing.T) {
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}
	v, err := poll.Until(context.Background(), poll.Options{Retries: 10, Interval: time.Millisecond}, fn,
		func(v int) bool { return v == 3 })
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	calls = 0
	v, err = poll.Until(context.Background(), poll.Options{Retries: 2, Interval: time.Millisecond}, fn,
		func(int) bool { return false })
	assert.True(t, errors.Is(err, poll.ErrNotDone))
	assert.Equal(t, 2, v)
}

func TestDefaultOptions(t *testing.T) {
	o := poll.DefaultOptions()
	assert.Equal(t, poll.DefaultRetries, o.Retries)
	assert.Equal(t, poll.DefaultInterval, o.Interval)
}
