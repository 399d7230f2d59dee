// Package clocktest provides a manually driven Clock for deterministic
// tests of timers and delays.
package clocktest

import (
	"sync"

	"embtime/clock"
	"embtime/duration"
	"embtime/timeint"
)

// Manual is a virtual clock. Time moves only when Set or Advance is called,
// or by a fixed step on every read when SetStep is used, which lets a
// polling loop under test make progress without a goroutine.
type Manual[T timeint.TimeInt, U duration.Unit] struct {
	mu    sync.Mutex
	now   T
	step  T
	err   error
	reads int
}

// NewManual returns a clock of unit U stopped at start.
func NewManual[U duration.Unit, T timeint.TimeInt](start T) *Manual[T, U] {
	return &Manual[T, U]{now: start}
}

// TryNow implements clock.Clock. It returns the current tick, then applies
// the auto-advance step.
func (m *Manual[T, U]) TryNow() (clock.Instant[T, U], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if m.err != nil {
		return clock.Instant[T, U]{}, m.err
	}
	now := m.now
	m.now += m.step
	return clock.NewInstant[U](now), nil
}

// Now returns the current tick without counting as a read.
func (m *Manual[T, U]) Now() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set jumps the clock to ticks.
func (m *Manual[T, U]) Set(ticks T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = ticks
}

// Advance moves the clock forward, wrapping at the counter width.
func (m *Manual[T, U]) Advance(ticks T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += ticks
}

// SetStep makes every TryNow advance the clock by ticks after reading.
func (m *Manual[T, U]) SetStep(ticks T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = ticks
}

// Fail makes TryNow return err until Fail(nil) is called.
func (m *Manual[T, U]) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reads returns how many times TryNow has been called.
func (m *Manual[T, U]) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
