package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// publishTimeout is the max time allowed for a single async publish.
const publishTimeout = 5 * time.Second

// ShutdownDrainDuration bounds how long Drain waits for in-flight async publishes before the publisher is
// closed. Must be >= publishTimeout.
const ShutdownDrainDuration = publishTimeout

// inflight counts publishes started by PublishAsync that have not returned yet.
var inflight sync.WaitGroup

// Drain blocks until every in-flight async publish has returned or timeout elapses, and reports whether
// they all finished. It returns immediately when nothing is in flight.
func Drain(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// PublishAsync runs Publish in a goroutine with a short timeout so the caller is not blocked.
// publisher and event may be nil; PublishAsync then returns without starting a goroutine.
// The goroutine uses context.Background() so request cancellation does not abort an in-flight publish.
func PublishAsync(log *zap.Logger, publisher Publisher, event *ItemEvent) {
	if publisher == nil || event == nil {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}
	inflight.Add(1)
	go func() {
		defer inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := publisher.Publish(ctx, event); err != nil {
			log.Warn("events: async publish failed",
				zap.String("event_type", event.EventType),
				zap.String("item_id", event.ItemID),
				zap.Error(err),
			)
		}
	}()
}
