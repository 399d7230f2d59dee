package monoclock

import (
	"testing"
	"time"

	"embtime/clock"
	"embtime/delay"
	"embtime/duration"
)

func TestMonotonic(t *testing.T) {
	c := New()
	prev, _ := c.TryNow()
	for i := 0; i < 100; i++ {
		now, err := c.TryNow()
		if err != nil {
			t.Fatalf("TryNow() error = %v", err)
		}
		if now.Before(prev) {
			t.Fatalf("clock went backwards: %v after %v", now, prev)
		}
		prev = now
	}
}

func TestTimerExpires(t *testing.T) {
	c := New()
	armed, err := clock.StartTimer(c, duration.Milliseconds[uint64](2))
	if err != nil {
		t.Fatalf("StartTimer() error = %v", err)
	}

	start := time.Now()
	if _, err := armed.Wait(nil); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < time.Millisecond {
		t.Errorf("Wait() returned after %v", elapsed)
	}
}

func TestDelayNotShort(t *testing.T) {
	d := delay.New(New(), nil)

	start := time.Now()
	if err := d.DelayUs(500); err != nil {
		t.Fatalf("DelayUs() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 500*time.Microsecond {
		t.Errorf("DelayUs(500) returned after %v", elapsed)
	}
}
