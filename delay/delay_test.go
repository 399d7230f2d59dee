package delay

import (
	"errors"
	"math"
	"testing"

	"embtime/clock"
	"embtime/clock/clocktest"
	"embtime/core"
	"embtime/duration"
	"embtime/fixedpoint"
	"embtime/fraction"
)

// tick3us is a clock tick that does not divide a millisecond evenly.
type tick3us struct{}

func (tick3us) ScalingFactor() fraction.Fraction { return fraction.New(3, 1000000) }
func (tick3us) Symbol() string                   { return "ticks" }

// countTicks runs fn with a wait callback that advances clk one tick per
// poll, and returns how many ticks passed.
func countTicks[T uint32 | uint64, U duration.Unit](clk *clocktest.Manual[T, U], fn func(d *Delay[T, U]) error) (T, error) {
	start := clk.Now()
	d := New[T, U](clk, func() { clk.Advance(1) })
	err := fn(d)
	return clk.Now() - start, err
}

func TestDelayMs1kHzWaitsTwoTicks(t *testing.T) {
	clk := clocktest.NewManual[duration.Millisecond](uint32(0))

	ticks, err := countTicks(clk, func(d *Delay[uint32, duration.Millisecond]) error {
		return d.DelayMs(1)
	})
	if err != nil {
		t.Fatalf("DelayMs() error = %v", err)
	}
	if ticks != 2 {
		t.Errorf("DelayMs(1) on 1kHz clock waited %d ticks, want 2", ticks)
	}
}

func TestDelayNeverShort(t *testing.T) {
	clk := clocktest.NewManual[tick3us](uint32(0))

	for _, ms := range []uint32{1, 2, 3, 10, 250} {
		ticks, err := countTicks(clk, func(d *Delay[uint32, tick3us]) error {
			return d.DelayMs(ms)
		})
		if err != nil {
			t.Fatalf("DelayMs(%d) error = %v", ms, err)
		}
		// Worst case a tick is almost over at the start, so only ticks-1
		// full ticks are guaranteed to have passed.
		if us := (ticks - 1) * 3; us < ms*1000 {
			t.Errorf("DelayMs(%d) guaranteed only %dus", ms, us)
		}
		// And at most one tick of rounding plus one of phase beyond that
		if us := (ticks - 2) * 3; us >= ms*1000 {
			t.Errorf("DelayMs(%d) waited %d ticks, more than needed", ms, ticks)
		}
	}
}

func TestDelayUs(t *testing.T) {
	clk := clocktest.NewManual[tick3us](uint32(100))

	ticks, err := countTicks(clk, func(d *Delay[uint32, tick3us]) error {
		return d.DelayUs(10)
	})
	if err != nil {
		t.Fatalf("DelayUs() error = %v", err)
	}
	// floor(10/3)=3, inexact so +2
	if ticks != 5 {
		t.Errorf("DelayUs(10) waited %d ticks, want 5", ticks)
	}
}

func TestDelayNs(t *testing.T) {
	clk := clocktest.NewManual[duration.Microsecond](uint64(0))

	ticks, err := countTicks(clk, func(d *Delay[uint64, duration.Microsecond]) error {
		return d.DelayNs(2000)
	})
	if err != nil || ticks != 3 {
		t.Errorf("DelayNs(2000) = %d ticks, %v; want 3", ticks, err)
	}
}

func TestSleepAnyUnit(t *testing.T) {
	clk := clocktest.NewManual[duration.Millisecond](uint32(0))

	ticks, err := countTicks(clk, func(d *Delay[uint32, duration.Millisecond]) error {
		return d.Sleep(duration.Seconds[uint32](2))
	})
	if err != nil || ticks != 2001 {
		t.Errorf("Sleep(2s) = %d ticks, %v; want 2001", ticks, err)
	}

	// 64-bit source that only fits after scaling
	ticks, err = countTicks(clk, func(d *Delay[uint32, duration.Millisecond]) error {
		return d.Sleep(duration.Nanoseconds[uint64](math.MaxUint32 + 1))
	})
	if err != nil || ticks != 4296 {
		t.Errorf("Sleep(2^32ns) = %d ticks, %v; want 4296", ticks, err)
	}
}

func TestDelayOverflow(t *testing.T) {
	clk := clocktest.NewManual[duration.Microsecond](uint32(0))
	d := New(clk, nil)

	if err := d.DelayMs(math.MaxUint32); !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("DelayMs(max) error = %v, want ErrOverflow", err)
	}
	if err := d.Sleep(duration.Hours[uint64](math.MaxUint32)); !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("Sleep(huge) error = %v, want ErrOverflow", err)
	}
	if err := d.DelayMs(3000000); !errors.Is(err, clock.ErrInstantOverflow) {
		t.Errorf("DelayMs(past half range) error = %v, want ErrInstantOverflow", err)
	}
}

func TestDelayClockError(t *testing.T) {
	clk := clocktest.NewManual[duration.Millisecond](uint32(0))
	clk.Fail(clock.ErrNotRunning)

	var logged []string
	core.SetDebugWriter(func(s string) { logged = append(logged, s) })
	core.SetDebugEnabled(true)
	defer func() {
		core.SetDebugEnabled(false)
		core.SetDebugWriter(func(string) {})
	}()

	err := New(clk, nil).DelayMs(5)
	if !errors.Is(err, clock.ErrNotRunning) {
		t.Fatalf("DelayMs() error = %v, want ErrNotRunning", err)
	}
	if len(logged) != 1 || logged[0] != "delay: start failed: clock: not running" {
		t.Errorf("logged %q", logged)
	}
}

func TestDelayClockErrorWhileWaiting(t *testing.T) {
	clk := clocktest.NewManual[duration.Millisecond](uint32(0))
	polls := 0
	d := New(clk, func() {
		polls++
		if polls == 3 {
			clk.Fail(clock.ErrUnspecified)
		}
	})

	if err := d.DelayMs(10); !errors.Is(err, clock.ErrUnspecified) {
		t.Errorf("DelayMs() error = %v, want ErrUnspecified", err)
	}
}

func TestDelayRecordsTiming(t *testing.T) {
	core.ClearTimingRing()
	clk := clocktest.NewManual[duration.Millisecond](uint32(0))
	clk.SetStep(1)

	if err := New(clk, nil).DelayMs(3); err != nil {
		t.Fatalf("DelayMs() error = %v", err)
	}

	var start, done bool
	for _, evt := range core.TimingEvents() {
		switch evt.EventType {
		case core.EvtDelayStart:
			start = evt.Value1 == 3 && evt.Value2 == 4
		case core.EvtDelayDone:
			done = true
		}
	}
	if !start || !done {
		t.Errorf("timing ring missing delay events: %+v", core.TimingEvents())
	}
}
