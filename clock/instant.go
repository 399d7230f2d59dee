package clock

import (
	"embtime/duration"
	"embtime/fixedpoint"
	"embtime/timeint"
)

// Instant is a tick count captured from a clock with counter type T and
// tick unit U.
//
// Tick counts are modular: ordering treats a as later than b when a-b,
// computed with wraparound, is at most half the counter range. Comparisons
// are only meaningful between Instants of the same clock instance.
type Instant[T timeint.TimeInt, U duration.Unit] struct {
	ticks T
}

// NewInstant wraps a raw tick count. It is meant for Clock implementations;
// application code gets Instants from TryNow or Instant arithmetic.
func NewInstant[U duration.Unit, T timeint.TimeInt](ticks T) Instant[T, U] {
	return Instant[T, U]{ticks: ticks}
}

// Ticks returns the raw tick count.
func (i Instant[T, U]) Ticks() T {
	return i.ticks
}

// Compare returns -1, 0 or 1 as i is before, equal to or after o. Instants
// exactly half the counter range apart order by raw tick count.
func (i Instant[T, U]) Compare(o Instant[T, U]) int {
	if i.ticks == o.ticks {
		return 0
	}
	half := timeint.Max[T]() / 2
	diff := timeint.WrappingSub(i.ticks, o.ticks)
	if diff <= half || (diff == half+1 && i.ticks > o.ticks) {
		return 1
	}
	return -1
}

// Before reports whether i is before o.
func (i Instant[T, U]) Before(o Instant[T, U]) bool {
	return i.Compare(o) < 0
}

// After reports whether i is after o.
func (i Instant[T, U]) After(o Instant[T, U]) bool {
	return i.Compare(o) > 0
}

// Equal reports whether i and o are the same tick.
func (i Instant[T, U]) Equal(o Instant[T, U]) bool {
	return i.ticks == o.ticks
}

// DurationSince returns the time elapsed from earlier to i. It reports
// false if earlier is actually after i.
func (i Instant[T, U]) DurationSince(earlier Instant[T, U]) (duration.Duration[T, U], bool) {
	if i.Compare(earlier) < 0 {
		return duration.Duration[T, U]{}, false
	}
	return duration.New[U](timeint.WrappingSub(i.ticks, earlier.ticks)), true
}

// DurationUntil returns the time from i to later. It reports false if
// later is actually before i.
func (i Instant[T, U]) DurationUntil(later Instant[T, U]) (duration.Duration[T, U], bool) {
	return later.DurationSince(i)
}

// SinceEpoch returns the span from tick zero to i.
func (i Instant[T, U]) SinceEpoch() duration.Duration[T, U] {
	return duration.New[U](i.ticks)
}

// CheckedAdd returns i+d. It reports false when d exceeds half the counter
// range, rather than producing an Instant that compares as earlier than i.
func (i Instant[T, U]) CheckedAdd(d duration.Duration[T, U]) (Instant[T, U], bool) {
	if d.Ticks() > timeint.Max[T]()/2 {
		return Instant[T, U]{}, false
	}
	return Instant[T, U]{ticks: timeint.WrappingAdd(i.ticks, d.Ticks())}, true
}

// CheckedSub returns i-d, with the same limit as CheckedAdd.
func (i Instant[T, U]) CheckedSub(d duration.Duration[T, U]) (Instant[T, U], bool) {
	if d.Ticks() > timeint.Max[T]()/2 {
		return Instant[T, U]{}, false
	}
	return Instant[T, U]{ticks: timeint.WrappingSub(i.ticks, d.Ticks())}, true
}

// Add returns i plus a duration of any unit, rounded up to whole clock
// ticks. It fails with a conversion error or ErrInstantOverflow.
func (i Instant[T, U]) Add(d fixedpoint.Fixed) (Instant[T, U], error) {
	ticks, err := clockTicks[T, U](d)
	if err != nil {
		return Instant[T, U]{}, err
	}
	out, ok := i.CheckedAdd(duration.New[U](ticks))
	if !ok {
		return Instant[T, U]{}, ErrInstantOverflow
	}
	return out, nil
}

// String formats i as its tick count since the clock epoch.
func (i Instant[T, U]) String() string {
	return "@" + i.SinceEpoch().String()
}
