package core

import "testing"

func TestTimerRunning(t *testing.T) {
	TimerReset()
	if TimerRunning() {
		t.Fatal("timer should not run before TimerInit")
	}

	TimerInit()
	if !TimerRunning() {
		t.Error("timer should run after TimerInit")
	}

	TimerStop()
	if TimerRunning() {
		t.Error("timer should not run after TimerStop")
	}
}

func TestUptimeExtendsAcrossWrap(t *testing.T) {
	TimerReset()
	ClearTimingRing()

	SetTime(0xFFFFFFF0)
	if up := GetUptime(); up != 0xFFFFFFF0 {
		t.Fatalf("GetUptime() = %#x, want 0xFFFFFFF0", up)
	}

	AdvanceTime(0x20)
	if GetTime() != 0x10 {
		t.Errorf("GetTime() = %#x, want 0x10", GetTime())
	}
	if up := GetUptime(); up != 0x100000010 {
		t.Errorf("GetUptime() = %#x, want 0x100000010", up)
	}

	events := TimingEvents()
	if len(events) != 1 || events[0].EventType != EvtTickWrap || events[0].Value1 != 1 {
		t.Errorf("TimingEvents() = %+v, want one TICK_WRAP", events)
	}
}

func TestTimerConversions(t *testing.T) {
	if got := TimerFromUS(1000); got != 12000 {
		t.Errorf("TimerFromUS(1000) = %d, want 12000", got)
	}
	// 1s does not fit uint32 when multiplied by 12MHz first
	if got := TimerFromUS(1000000); got != 12000000 {
		t.Errorf("TimerFromUS(1s) = %d, want 12000000", got)
	}
	if got := TimerToUS(12000000); got != 1000000 {
		t.Errorf("TimerToUS(12M) = %d, want 1000000", got)
	}
}
