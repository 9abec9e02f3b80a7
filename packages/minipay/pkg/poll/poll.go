package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrTimeout is returned when the probe did not succeed before the deadline.
	ErrTimeout = errors.New("deadline exceeded")
)

// Options configures a bounded poll.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration

	// Clock and NewTimer default to the system clock and a real timer, tests
	// inject fakes to drive time manually.
	Clock    backoff.Clock
	NewTimer func() backoff.Timer

	// Notify, when set, is called after every failed attempt that will be retried.
	Notify func(err error, next time.Duration)
}

// Validate checks the poll options.
func (o Options) Validate() error {
	if o.Interval <= 0 {
		return fmt.Errorf("invalid poll interval: %s", o.Interval)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("invalid poll timeout: %s", o.Timeout)
	}
	if o.Interval > o.Timeout {
		return fmt.Errorf("poll interval %s exceeds timeout %s", o.Interval, o.Timeout)
	}
	return nil
}

// Abort marks a probe error as permanent, Until stops polling and returns it unchanged.
func Abort(err error) error {
	return backoff.Permanent(err)
}

// Until runs probe immediately and then every opts.Interval until it succeeds or
// opts.Timeout elapses. A timeout is reported as ErrTimeout wrapping the last
// probe error, a cancelled ctx as ctx.Err().
func Until[T any](ctx context.Context, probe func(ctx context.Context) (T, error), opts Options) (T, error) {
	var zero T

	if err := opts.Validate(); err != nil {
		return zero, err
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	clock := opts.Clock
	if clock == nil {
		clock = backoff.SystemClock
	}

	var timer backoff.Timer
	if opts.NewTimer != nil {
		timer = opts.NewTimer()
	}

	// A constant interval with a hard elapsed-time budget.
	b := &backoff.ExponentialBackOff{
		InitialInterval:     opts.Interval,
		RandomizationFactor: 0,
		Multiplier:          1,
		MaxInterval:         opts.Interval,
		MaxElapsedTime:      opts.Timeout,
		Stop:                backoff.Stop,
		Clock:               clock,
	}
	b.Reset()

	var (
		lastErr error
		aborted bool
	)

	op := func() (T, error) {
		v, err := probe(ctx)
		if err != nil {
			var permanent *backoff.PermanentError
			if errors.As(err, &permanent) {
				aborted = true
			}
			lastErr = err
		}
		return v, err
	}

	v, err := backoff.RetryNotifyWithTimerAndData[T](op, backoff.WithContext(b, ctx), opts.Notify, timer)
	if err == nil {
		return v, nil
	}

	switch {
	case aborted:
		return zero, err
	case parent.Err() != nil:
		return zero, parent.Err()
	default:
		return zero, fmt.Errorf("%w after %s: %w", ErrTimeout, opts.Timeout, lastErr)
	}
}
