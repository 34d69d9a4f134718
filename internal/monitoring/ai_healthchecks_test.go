package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type toggleChecker struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (c *toggleChecker) HealthCheck(context.Context) error {
	c.calls.Add(1)
	if c.fail.Load() {
		return errors.New("model unavailable")
	}
	return nil
}

func TestMonitorCapabilityHealth(t *testing.T) {
	t.Run("Should check immediately and track transitions", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		checker := &toggleChecker{}
		checker.fail.Store(true)
		healthy := &atomic.Bool{}
		healthy.Store(true)

		done := make(chan struct{})
		go func() {
			MonitorCapabilityHealth(ctx, "huggingface", checker, healthy, 10*time.Millisecond)
			close(done)
		}()

		assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, 5*time.Millisecond)

		checker.fail.Store(false)
		assert.Eventually(t, healthy.Load, time.Second, 5*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("monitor did not stop after cancellation")
		}
		assert.GreaterOrEqual(t, checker.calls.Load(), int32(2))
	})
}
