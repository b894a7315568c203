package eventbus

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"research-assistant/internal/domain"
)

// subscription delivers events to one handler, in publish order, from its
// own goroutine. The queue is unbounded so Publish never blocks on a slow
// handler.
type subscription struct {
	id      uint64
	types   []domain.EventType // empty matches every event
	handler domain.EventHandler

	mu      sync.Mutex
	queue   []delivery
	stopped bool
	wake    chan struct{}
}

type delivery struct {
	ctx   context.Context
	event domain.Event
}

func (s *subscription) matches(t domain.EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

func (s *subscription) enqueue(d delivery) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, d)
	s.mu.Unlock()
	s.signal()
}

// stop lets the worker drain what is already queued, then exit.
func (s *subscription) stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.signal()
}

func (s *subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) loop(logger *slog.Logger) {
	for range s.wake {
		for {
			s.mu.Lock()
			batch := s.queue
			s.queue = nil
			stopped := s.stopped
			s.mu.Unlock()

			if len(batch) == 0 {
				if stopped {
					return
				}
				break
			}
			for _, d := range batch {
				s.deliver(d, logger)
			}
		}
	}
}

func (s *subscription) deliver(d delivery, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked",
				"event", string(d.event.Type),
				"panic", r,
			)
		}
	}()
	s.handler(d.ctx, d.event)
}

// Bus is an in-process, goroutine-safe event bus. Each subscriber sees
// events in the order they were published.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	nextID atomic.Uint64
	logger *slog.Logger
	closed atomic.Bool

	// workers counts subscription goroutines, including unsubscribed ones
	// still draining their queue.
	workers sync.WaitGroup
}

// New creates an event bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Publish queues event for every matching subscriber. Handlers run
// asynchronously; cancelling ctx after Publish returns does not cancel them.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	if b.closed.Load() {
		return
	}
	d := delivery{ctx: context.WithoutCancel(ctx), event: event}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if sub.matches(event.Type) {
			sub.enqueue(d)
		}
	}
}

// Subscribe registers handler for the given event types, or for every event
// when none are given. Returns an unsubscribe function; events already queued
// for the handler are still delivered.
func (b *Bus) Subscribe(handler domain.EventHandler, types ...domain.EventType) func() {
	sub := &subscription{
		id:      b.nextID.Add(1),
		types:   slices.Clone(types),
		handler: handler,
		wake:    make(chan struct{}, 1),
	}

	b.mu.Lock()
	if b.closed.Load() {
		b.mu.Unlock()
		return func() {}
	}
	b.subs = append(b.subs, sub)
	b.workers.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.workers.Done()
		sub.loop(b.logger)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.subs = slices.DeleteFunc(b.subs, func(s *subscription) bool { return s.id == sub.id })
			b.mu.Unlock()
			sub.stop()
		})
	}
}

// Close prevents new publishes and waits until every queued event has been
// handled, including events queued for handlers that have since
// unsubscribed. Close is idempotent.
func (b *Bus) Close() {
	if b.closed.Swap(true) {
		return
	}

	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	b.workers.Wait()
}

var _ domain.EventBus = (*Bus)(nil)
