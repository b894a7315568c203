package conversation

import (
	"context"
	"sync"

	"research-assistant/internal/domain"
)

// TurnGate admits one turn at a time.
type TurnGate struct {
	slot chan struct{}
}

// NewTurnGate creates an open gate.
func NewTurnGate() *TurnGate {
	return &TurnGate{slot: make(chan struct{}, 1)}
}

// TryAcquire takes the gate without waiting. It returns
// domain.ErrTurnInFlight when a turn already holds it.
func (g *TurnGate) TryAcquire() (release func(), err error) {
	select {
	case g.slot <- struct{}{}:
		return g.releaser(), nil
	default:
		return nil, domain.ErrTurnInFlight
	}
}

// Acquire waits for the gate or for ctx to be done.
func (g *TurnGate) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case g.slot <- struct{}{}:
		return g.releaser(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Busy reports whether the gate is held.
func (g *TurnGate) Busy() bool {
	return len(g.slot) > 0
}

func (g *TurnGate) releaser() func() {
	var once sync.Once
	return func() {
		once.Do(func() { <-g.slot })
	}
}
