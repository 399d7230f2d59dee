package clock_test

import (
	"errors"
	"math"
	"testing"

	"embtime/clock"
	"embtime/duration"
	"embtime/fixedpoint"
)

type ms32 = clock.Instant[uint32, duration.Millisecond]

func at(ticks uint32) ms32 {
	return clock.NewInstant[duration.Millisecond](ticks)
}

func TestInstantCompare(t *testing.T) {
	tests := []struct {
		a, b ms32
		want int
	}{
		{at(5), at(5), 0},
		{at(6), at(5), 1},
		{at(5), at(6), -1},
		// wrapped: 2 is after max-2
		{at(2), at(math.MaxUint32 - 2), 1},
		{at(math.MaxUint32 - 2), at(2), -1},
	}
	for _, tc := range tests {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}

	// half the range apart: still antisymmetric
	lo, hi := at(7), at(7+1<<31)
	if !hi.After(lo) || !lo.Before(hi) || lo.After(hi) || hi.Before(lo) {
		t.Errorf("half-range Compare: %d, %d", hi.Compare(lo), lo.Compare(hi))
	}
	if d, ok := hi.DurationSince(lo); !ok || d.Ticks() != 1<<31 {
		t.Errorf("half-range DurationSince = %v, %v", d, ok)
	}
	if _, ok := lo.DurationSince(hi); ok {
		t.Error("half-range DurationSince succeeded in both directions")
	}

	if !at(1).Before(at(2)) || !at(2).After(at(1)) || !at(3).Equal(at(3)) {
		t.Error("Before/After/Equal disagree with Compare")
	}
}

func TestDurationSince(t *testing.T) {
	d, ok := at(15).DurationSince(at(10))
	if !ok || d.Ticks() != 5 {
		t.Errorf("DurationSince = %v, %v; want 5ms", d, ok)
	}

	// Across the counter wrap
	d, ok = at(3).DurationSince(at(math.MaxUint32 - 1))
	if !ok || d.Ticks() != 5 {
		t.Errorf("wrapped DurationSince = %v, %v; want 5ms", d, ok)
	}

	if _, ok = at(10).DurationSince(at(15)); ok {
		t.Error("DurationSince a later instant should fail")
	}

	d, ok = at(10).DurationUntil(at(12))
	if !ok || d.Ticks() != 2 {
		t.Errorf("DurationUntil = %v, %v; want 2ms", d, ok)
	}
}

func TestDurationSinceMonotonic(t *testing.T) {
	t1 := at(1000)
	for step := uint32(0); step < 100000; step += 997 {
		t2, ok := t1.CheckedAdd(duration.Milliseconds(step))
		if !ok {
			t.Fatalf("CheckedAdd(%d) failed", step)
		}
		d, ok := t2.DurationSince(t1)
		if !ok || d.Ticks() != step {
			t.Errorf("DurationSince after %d = %v, %v", step, d, ok)
		}
	}
}

func TestCheckedAddOverflow(t *testing.T) {
	if _, ok := at(0).CheckedAdd(duration.Milliseconds[uint32](math.MaxUint32/2 + 1)); ok {
		t.Error("CheckedAdd beyond half range should fail")
	}
	if _, ok := at(0).CheckedSub(duration.Milliseconds[uint32](math.MaxUint32)); ok {
		t.Error("CheckedSub beyond half range should fail")
	}

	i, ok := at(math.MaxUint32).CheckedAdd(duration.Milliseconds[uint32](2))
	if !ok || i.Ticks() != 1 {
		t.Errorf("CheckedAdd across wrap = %v, %v; want @1", i, ok)
	}
	if !i.After(at(math.MaxUint32)) {
		t.Error("wrapped sum should still be after the original")
	}
}

func TestInstantAddMixedUnits(t *testing.T) {
	i, err := at(100).Add(duration.Seconds[uint32](2))
	if err != nil || i.Ticks() != 2100 {
		t.Errorf("Add(2s) = %v, %v; want @2100", i, err)
	}

	// 1500us rounds up to 2ms
	i, err = at(100).Add(duration.Microseconds[uint32](1500))
	if err != nil || i.Ticks() != 102 {
		t.Errorf("Add(1500us) = %v, %v; want @102", i, err)
	}

	_, err = at(0).Add(duration.Hours[uint64](math.MaxUint32))
	if !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("error = %v, want ErrOverflow", err)
	}

	_, err = at(0).Add(duration.Seconds[uint32](3000000))
	if !errors.Is(err, clock.ErrInstantOverflow) {
		t.Errorf("error = %v, want ErrInstantOverflow", err)
	}
}

func TestInstantString(t *testing.T) {
	if s := at(42).String(); s != "@42ms" {
		t.Errorf("String() = %q, want @42ms", s)
	}
	if at(42).SinceEpoch().Ticks() != 42 {
		t.Error("SinceEpoch() should equal the tick count")
	}
}
