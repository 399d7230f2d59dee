package clock

import (
	"embtime/core"
	"embtime/duration"
	"embtime/fixedpoint"
	"embtime/timeint"
)

// Timer states are distinct types. Each transition consumes a value and
// returns the next state, so starting an armed timer or polling a disarmed
// one does not compile:
//
//	OneShot --Start--> ArmedOneShot --Wait--> ExpiredOneShot --Start--> ArmedOneShot
//	Periodic --Start--> ArmedPeriodic --Wait/PeriodComplete--> ArmedPeriodic
//
// Timers are plain values. A failed transition returns an error and leaves
// the receiver as it was.

// OneShot is a disarmed one-shot timer.
type OneShot[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed] struct {
	clock    Clock[T, U]
	duration D
}

// NewOneShot returns a disarmed one-shot timer. It does not read the clock.
func NewOneShot[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed](c Clock[T, U], d D) OneShot[T, U, D] {
	return OneShot[T, U, D]{clock: c, duration: d}
}

// Duration returns the requested timer duration.
func (t OneShot[T, U, D]) Duration() D {
	return t.duration
}

// Start arms the timer with a deadline of now plus its duration.
func (t OneShot[T, U, D]) Start() (ArmedOneShot[T, U, D], error) {
	a, err := arm(t.clock, t.duration)
	if err != nil {
		return ArmedOneShot[T, U, D]{}, err
	}
	return ArmedOneShot[T, U, D]{armed: a}, nil
}

// ArmedOneShot is a running one-shot timer.
type ArmedOneShot[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed] struct {
	armed[T, U, D]
}

// Wait polls until the timer expires, calling spin between polls. spin may
// be nil for a pure busy-wait.
func (t ArmedOneShot[T, U, D]) Wait(spin func()) (ExpiredOneShot[T, U, D], error) {
	if err := t.spinUntilExpired(spin); err != nil {
		return ExpiredOneShot[T, U, D]{}, err
	}
	return ExpiredOneShot[T, U, D]{clock: t.clock, duration: t.duration, deadline: t.Deadline()}, nil
}

// Restart re-arms the timer from the current time.
func (t ArmedOneShot[T, U, D]) Restart() (ArmedOneShot[T, U, D], error) {
	return t.Cancel().Start()
}

// Cancel disarms the timer.
func (t ArmedOneShot[T, U, D]) Cancel() OneShot[T, U, D] {
	return OneShot[T, U, D]{clock: t.clock, duration: t.duration}
}

// ExpiredOneShot is a one-shot timer whose expiry has been observed.
type ExpiredOneShot[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed] struct {
	clock    Clock[T, U]
	duration D
	deadline Instant[T, U]
}

// Duration returns the requested timer duration.
func (t ExpiredOneShot[T, U, D]) Duration() D {
	return t.duration
}

// Deadline returns the Instant the timer expired at.
func (t ExpiredOneShot[T, U, D]) Deadline() Instant[T, U] {
	return t.deadline
}

// Start re-arms the timer from the current time.
func (t ExpiredOneShot[T, U, D]) Start() (ArmedOneShot[T, U, D], error) {
	return t.Cancel().Start()
}

// Cancel returns the timer to the disarmed state.
func (t ExpiredOneShot[T, U, D]) Cancel() OneShot[T, U, D] {
	return OneShot[T, U, D]{clock: t.clock, duration: t.duration}
}

// Periodic is a disarmed periodic timer.
type Periodic[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed] struct {
	clock    Clock[T, U]
	duration D
}

// NewPeriodic returns a disarmed periodic timer. It does not read the clock.
func NewPeriodic[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed](c Clock[T, U], d D) Periodic[T, U, D] {
	return Periodic[T, U, D]{clock: c, duration: d}
}

// Duration returns the timer period.
func (t Periodic[T, U, D]) Duration() D {
	return t.duration
}

// Start arms the first period.
func (t Periodic[T, U, D]) Start() (ArmedPeriodic[T, U, D], error) {
	a, err := arm(t.clock, t.duration)
	if err != nil {
		return ArmedPeriodic[T, U, D]{}, err
	}
	return ArmedPeriodic[T, U, D]{armed: a}, nil
}

// ArmedPeriodic is a running periodic timer.
type ArmedPeriodic[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed] struct {
	armed[T, U, D]
}

// PeriodComplete checks for expiry of the current period. When it has
// expired it returns the timer advanced by exactly one period, measured
// from the previous deadline so periods do not drift, and true. Otherwise
// it returns t unchanged and false.
func (t ArmedPeriodic[T, U, D]) PeriodComplete() (ArmedPeriodic[T, U, D], bool, error) {
	expired, err := t.IsExpired()
	if err != nil || !expired {
		return t, false, err
	}
	return t.next(), true, nil
}

// Wait polls until the current period expires, calling spin between polls,
// and returns the timer armed for the following period.
func (t ArmedPeriodic[T, U, D]) Wait(spin func()) (ArmedPeriodic[T, U, D], error) {
	if err := t.spinUntilExpired(spin); err != nil {
		return t, err
	}
	return t.next(), nil
}

// Restart re-arms the timer from the current time, discarding phase.
func (t ArmedPeriodic[T, U, D]) Restart() (ArmedPeriodic[T, U, D], error) {
	return t.Cancel().Start()
}

// Cancel disarms the timer.
func (t ArmedPeriodic[T, U, D]) Cancel() Periodic[T, U, D] {
	return Periodic[T, U, D]{clock: t.clock, duration: t.duration}
}

func (t ArmedPeriodic[T, U, D]) next() ArmedPeriodic[T, U, D] {
	n := t
	n.start = t.Deadline()
	core.RecordTiming(core.EvtTimerPeriod, uint32(t.start.ticks), uint32(n.Deadline().ticks), uint32(t.period))
	return n
}

// armed is the state shared by running and expired timers.
type armed[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed] struct {
	clock    Clock[T, U]
	duration D
	start    Instant[T, U]
	period   T // duration in clock ticks, rounded up
}

func arm[T timeint.TimeInt, U duration.Unit, D fixedpoint.Fixed](c Clock[T, U], d D) (armed[T, U, D], error) {
	period, err := clockTicks[T, U](d)
	if err != nil {
		return armed[T, U, D]{}, err
	}
	if period > timeint.Max[T]()/2 {
		return armed[T, U, D]{}, ErrInstantOverflow
	}

	now, err := c.TryNow()
	if err != nil {
		recordClockError(err)
		return armed[T, U, D]{}, err
	}

	a := armed[T, U, D]{clock: c, duration: d, start: now, period: period}
	core.RecordTiming(core.EvtTimerArm, uint32(now.ticks), uint32(a.Deadline().ticks), uint32(period))
	return a, nil
}

// Duration returns the requested timer duration.
func (a armed[T, U, D]) Duration() D {
	return a.duration
}

// Deadline returns the Instant at which the timer expires.
func (a armed[T, U, D]) Deadline() Instant[T, U] {
	return Instant[T, U]{ticks: timeint.WrappingAdd(a.start.ticks, a.period)}
}

// IsExpired reports whether the deadline has been reached. It reads the
// clock and changes nothing; periodic timers are advanced by
// PeriodComplete or Wait.
func (a armed[T, U, D]) IsExpired() (bool, error) {
	elapsed, err := a.elapsedTicks()
	if err != nil {
		return false, err
	}
	return elapsed >= a.period, nil
}

// Elapsed returns the time since the timer was armed.
func (a armed[T, U, D]) Elapsed() (duration.Duration[T, U], error) {
	elapsed, err := a.elapsedTicks()
	if err != nil {
		return duration.Duration[T, U]{}, err
	}
	return duration.New[U](elapsed), nil
}

// Remaining returns the time until the deadline, or zero once expired.
func (a armed[T, U, D]) Remaining() (duration.Duration[T, U], error) {
	elapsed, err := a.elapsedTicks()
	if err != nil {
		return duration.Duration[T, U]{}, err
	}
	left, ok := timeint.CheckedSub(a.period, elapsed)
	if !ok {
		left = 0
	}
	return duration.New[U](left), nil
}

// elapsedTicks measures from the start in modular arithmetic, which stays
// correct across a single counter wrap.
func (a armed[T, U, D]) elapsedTicks() (T, error) {
	now, err := a.clock.TryNow()
	if err != nil {
		recordClockError(err)
		return 0, err
	}
	return timeint.WrappingSub(now.ticks, a.start.ticks), nil
}

func (a armed[T, U, D]) spinUntilExpired(spin func()) error {
	for {
		elapsed, err := a.elapsedTicks()
		if err != nil {
			return err
		}
		if elapsed >= a.period {
			core.RecordTiming(core.EvtTimerExpire, uint32(a.start.ticks+elapsed), uint32(a.Deadline().ticks), uint32(elapsed-a.period))
			return nil
		}
		if spin != nil {
			spin()
		}
	}
}
