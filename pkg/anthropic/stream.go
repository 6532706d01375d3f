package anthropic

import (
	"context"
	"sync/atomic"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
)

// defaultIdleTimeout is the inactivity window for streaming calls. Each
// received chunk resets the clock; only a fully stalled stream is aborted.
const defaultIdleTimeout = 30 * time.Second

// watchdog cancels the attached context when Reset is not called within the
// idle window. Safe for use from a single consumer goroutine; the timer
// callback runs concurrently and only transitions fired once.
type watchdog struct {
	timer *time.Timer
	idle  time.Duration
	fired atomic.Bool
}

// newWatchdog starts a watchdog that invokes cancel after idle inactivity.
func newWatchdog(idle time.Duration, cancel context.CancelFunc) *watchdog {
	w := &watchdog{idle: idle}
	w.timer = time.AfterFunc(idle, func() {
		w.fired.Store(true)
		cancel()
	})
	return w
}

// Reset pushes the deadline out by the idle window. No-op once fired.
func (w *watchdog) Reset() {
	if w.fired.Load() {
		return
	}
	w.timer.Reset(w.idle)
}

// Stop disarms the watchdog.
func (w *watchdog) Stop() {
	w.timer.Stop()
}

// Fired reports whether the idle deadline elapsed.
func (w *watchdog) Fired() bool {
	return w.fired.Load()
}

func (c *sdkClient) StreamMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wd := newWatchdog(c.idleTimeout, cancel)
	defer wd.Stop()

	stream := c.client.Messages.NewStreaming(streamCtx, toSDKParams(req))

	var acc sdk.Message
	for stream.Next() {
		wd.Reset()
		event := stream.Current()
		if err := acc.Accumulate(event); err != nil {
			return nil, wrapSDKErr(err, "anthropic: accumulate stream event")
		}
	}

	if err := stream.Err(); err != nil {
		if wd.Fired() {
			return nil, ErrIdleTimeout
		}
		return nil, wrapSDKErr(err, "anthropic: stream message")
	}

	return fromSDKMessage(&acc), nil
}
