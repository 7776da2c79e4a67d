package analytics

import (
	"context"
	"log/slog"
	"sync"

	"companion/pkg/platform/ringbuffer"
)

const asyncBatchSize = 100

// delivery is one queued sink call.
type delivery struct {
	ctx   context.Context
	event *Event
	key   string
	value string
}

// Async queues calls in a bounded buffer and delivers them to the wrapped
// sink from a background worker, so slow remote sinks do not hold up
// requests. When the buffer is full the oldest calls are dropped. Calls
// queued before Start are delivered once it runs.
type Async struct {
	next   Sink
	buf    *ringbuffer.Buffer[delivery]
	notify chan struct{}
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewAsync(next Sink, capacity int, logger *slog.Logger) *Async {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Async{
		next:   next,
		buf:    ringbuffer.New[delivery](capacity),
		notify: make(chan struct{}, 1),
		logger: logger,
	}
}

func (a *Async) SetUserProperty(ctx context.Context, key, value string) error {
	a.enqueue(delivery{ctx: context.WithoutCancel(ctx), key: key, value: value})
	return nil
}

func (a *Async) Log(ctx context.Context, event Event) error {
	a.enqueue(delivery{ctx: context.WithoutCancel(ctx), event: &event})
	return nil
}

func (a *Async) enqueue(d delivery) {
	a.buf.Enqueue(d)
	select {
	case a.notify <- struct{}{}:
	default:
	}
}

// Start runs the worker until ctx is done; whatever is still queued then is
// flushed before the worker exits.
func (a *Async) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-ctx.Done():
				a.flush()
				return
			case <-a.notify:
				a.flush()
			}
		}
	}()
}

// Wait blocks until the worker started by Start has exited.
func (a *Async) Wait() {
	a.wg.Wait()
}

// Dropped reports how many calls were discarded because the buffer was full.
func (a *Async) Dropped() int64 {
	return a.buf.Dropped()
}

func (a *Async) flush() {
	for {
		batch := a.buf.DequeueBatch(asyncBatchSize)
		if len(batch) == 0 {
			return
		}
		for _, d := range batch {
			var err error
			if d.event != nil {
				err = a.next.Log(d.ctx, *d.event)
			} else {
				err = a.next.SetUserProperty(d.ctx, d.key, d.value)
			}
			if err != nil {
				a.logger.WarnContext(d.ctx, "async analytics delivery failed", "error", err)
			}
		}
	}
}
