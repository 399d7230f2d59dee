//go:build rp2040

// Package pio runs a free-running tick counter on an RP2040 PIO state
// machine and exposes it as a clock with a 3us tick.
package pio

import (
	"errors"
	"machine"

	"embtime/clock"
	"embtime/core"
	"embtime/fraction"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Tick is one counter step: three PIO instructions at 1MHz.
type Tick struct{}

func (Tick) ScalingFactor() fraction.Fraction { return fraction.New(3, 1000000) }
func (Tick) Symbol() string                   { return "ticks" }

// ErrNoStateMachine is returned when all eight state machines are taken.
var ErrNoStateMachine = errors.New("pio: no free state machine")

// buildCounterProgram decrements X and pushes it on every pass. X counts
// down from zero, so the tick count is its complement.
func buildCounterProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Jmp(1, rp2pio.JmpXNZeroDec).Encode(), // 0: jmp x--, 1
		asm.In(rp2pio.InSrcX, 32).Encode(),       // 1: in x, 32
		asm.Push(false, false).Encode(),          // 2: push noblock
		// .wrap
	}
}

// Counter is a clock backed by a PIO state machine. The zero value is not
// usable; call NewCounter.
type Counter struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pioNum uint8
	smNum  uint8
	offset uint8
	loaded bool
}

// NewCounter claims a free state machine for a counter. Call Start before
// reading it.
func NewCounter() (*Counter, error) {
	pioNum, smNum, ok := allocateSM()
	if !ok {
		return nil, ErrNoStateMachine
	}

	pioHW := rp2pio.PIO0
	if pioNum == 1 {
		pioHW = rp2pio.PIO1
	}
	return &Counter{
		pio:    pioHW,
		sm:     pioHW.StateMachine(smNum),
		pioNum: pioNum,
		smNum:  smNum,
	}, nil
}

// Start loads the program and starts counting from zero.
func (c *Counter) Start() error {
	c.sm.TryClaim()

	program := buildCounterProgram()
	offset, err := c.pio.AddProgram(program, -1)
	if err != nil {
		return err
	}
	c.offset = offset

	cfg := rp2pio.DefaultStateMachineConfig()
	// Shift left, no autopush: every push carries the whole of X
	cfg.SetInShift(false, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	// One instruction per microsecond
	cfg.SetClkDivIntFrac(uint16(machine.CPUFrequency()/1000000), 0)

	c.sm.Init(offset, cfg)
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	c.sm.Exec(asm.Set(rp2pio.SetDestX, 0).Encode())
	c.sm.SetEnabled(true)
	c.loaded = true

	core.DebugPrintln("pio: counter on PIO" + core.Utoa(uint32(c.pioNum)) + " SM" + core.Utoa(uint32(c.smNum)))
	return nil
}

// Stop halts the state machine and frees it for reuse.
func (c *Counter) Stop() {
	c.sm.SetEnabled(false)
	c.sm.ClearFIFOs()
	c.loaded = false
	releaseSM(c.pioNum, c.smNum)
}

// TryNow implements clock.Clock. It discards stale samples in the RX FIFO
// and waits for the next one, at most one tick.
func (c *Counter) TryNow() (clock.Instant[uint32, Tick], error) {
	if !c.loaded {
		return clock.Instant[uint32, Tick]{}, clock.ErrNotRunning
	}
	for !c.sm.IsRxFIFOEmpty() {
		c.sm.RxGet()
	}
	for c.sm.IsRxFIFOEmpty() {
	}
	return clock.NewInstant[Tick](^c.sm.RxGet()), nil
}

var _ clock.Clock[uint32, Tick] = (*Counter)(nil)
