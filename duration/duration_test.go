package duration

import (
	"errors"
	"math"
	"testing"
	"time"

	"embtime/fixedpoint"
	"embtime/fraction"
)

// tick3us is a clock unit that does not divide 1ms evenly.
type tick3us struct{}

func (tick3us) ScalingFactor() fraction.Fraction { return fraction.New(3, 1000000) }
func (tick3us) Symbol() string                   { return "ticks" }

func TestConstructors(t *testing.T) {
	d := Milliseconds[uint32](5)
	if d.Ticks() != 5 {
		t.Errorf("Ticks() = %d, want 5", d.Ticks())
	}
	if !d.ScalingFactor().Equal(fraction.New(1, 1000)) {
		t.Errorf("ScalingFactor() = %s, want 1/1000", d.ScalingFactor())
	}

	ticks, factor := Hours[uint64](2).Fixed()
	if ticks != 2 || !factor.Equal(fraction.New(3600, 1)) {
		t.Errorf("Fixed() = %d, %s", ticks, factor)
	}
}

func TestConvert(t *testing.T) {
	us, err := Convert[uint32, Microsecond](Milliseconds[uint32](5), fixedpoint.Exact)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if us.Ticks() != 5000 {
		t.Errorf("5ms = %s, want 5000us", us)
	}

	ms, err := Convert[uint64, Millisecond](Minutes[uint32](2), fixedpoint.Exact)
	if err != nil || ms.Ticks() != 120000 {
		t.Errorf("2min = %s, %v; want 120000ms", ms, err)
	}

	ticks, err := Convert[uint32, tick3us](Milliseconds[uint32](1), fixedpoint.Ceil)
	if err != nil || ticks.Ticks() != 334 {
		t.Errorf("1ms = %s, %v; want 334ticks", ticks, err)
	}
}

func TestConvertNarrowing(t *testing.T) {
	// Wider source that fits after scaling to a coarser unit
	ms, err := Convert[uint32, Millisecond](Microseconds[uint64](math.MaxUint32*1000), fixedpoint.Exact)
	if err != nil || ms.Ticks() != math.MaxUint32 {
		t.Errorf("Convert() = %s, %v", ms, err)
	}

	_, err = Convert[uint32, Microsecond](Seconds[uint64](math.MaxUint32), fixedpoint.Floor)
	if !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("error = %v, want ErrOverflow", err)
	}
}

func TestConvertExactRequired(t *testing.T) {
	_, err := Convert[uint32, Millisecond](Microseconds[uint32](1500), fixedpoint.Exact)
	if !errors.Is(err, fixedpoint.ErrExactRequired) {
		t.Errorf("error = %v, want ErrExactRequired", err)
	}
}

func TestArithmetic(t *testing.T) {
	a := Milliseconds[uint32](7)
	b := Milliseconds[uint32](3)

	if sum, ok := a.CheckedAdd(b); !ok || sum.Ticks() != 10 {
		t.Errorf("7ms + 3ms = %s, %v", sum, ok)
	}
	if diff, ok := a.CheckedSub(b); !ok || diff.Ticks() != 4 {
		t.Errorf("7ms - 3ms = %s, %v", diff, ok)
	}
	if _, ok := b.CheckedSub(a); ok {
		t.Error("3ms - 7ms should fail")
	}
	if _, ok := Milliseconds[uint32](math.MaxUint32).CheckedAdd(b); ok {
		t.Error("max + 3ms should fail")
	}
	if prod, ok := a.CheckedMul(3); !ok || prod.Ticks() != 21 {
		t.Errorf("7ms * 3 = %s, %v", prod, ok)
	}
	if _, ok := a.CheckedDiv(0); ok {
		t.Error("division by zero should fail")
	}
	if quo, ok := a.CheckedDiv(2); !ok || quo.Ticks() != 3 {
		t.Errorf("7ms / 2 = %s, %v", quo, ok)
	}
}

func TestCompare(t *testing.T) {
	if c := Milliseconds[uint32](3).Compare(Milliseconds[uint32](7)); c != -1 {
		t.Errorf("3ms.Compare(7ms) = %d", c)
	}
	if c := Compare(Seconds[uint32](1), Milliseconds[uint64](1000)); c != 0 {
		t.Errorf("Compare(1s, 1000ms) = %d", c)
	}
	if c := Compare(New[tick3us](uint32(334)), Milliseconds[uint32](1)); c != 1 {
		t.Errorf("Compare(334 ticks, 1ms) = %d", c)
	}
	if c := Compare(Nanoseconds[uint64](999), Microseconds[uint32](1)); c != -1 {
		t.Errorf("Compare(999ns, 1us) = %d", c)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		d    interface{ String() string }
		want string
	}{
		{Milliseconds[uint32](5), "5ms"},
		{Seconds[uint64](0), "0s"},
		{Minutes[uint32](90), "90min"},
		{New[tick3us](uint32(12)), "12ticks"},
	}
	for _, tc := range tests {
		if got := tc.d.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestStd(t *testing.T) {
	std, err := Milliseconds[uint32](1500).Std()
	if err != nil || std != 1500*time.Millisecond {
		t.Errorf("Std() = %v, %v", std, err)
	}

	std, err = New[tick3us](uint32(10)).Std()
	if err != nil || std != 30*time.Microsecond {
		t.Errorf("Std() = %v, %v", std, err)
	}

	if _, err = Hours[uint64](math.MaxUint64 / 3600).Std(); !errors.Is(err, fixedpoint.ErrOverflow) {
		t.Errorf("error = %v, want ErrOverflow", err)
	}
}

func TestFromStd(t *testing.T) {
	d, err := FromStd[uint32, Millisecond](2500*time.Microsecond, fixedpoint.Ceil)
	if err != nil || d.Ticks() != 3 {
		t.Errorf("FromStd(2.5ms) = %s, %v; want 3ms", d, err)
	}

	if _, err = FromStd[uint32, Millisecond](-time.Second, fixedpoint.Floor); !errors.Is(err, ErrNegative) {
		t.Errorf("error = %v, want ErrNegative", err)
	}
}

func TestIsZero(t *testing.T) {
	var d Duration[uint32, Second]
	if !d.IsZero() {
		t.Error("zero value should be zero")
	}
	if Seconds[uint32](1).IsZero() {
		t.Error("1s should not be zero")
	}
}
