// Package mcuclock reads a microcontroller's uptime counter over its serial
// link and presents it as a clock on the host.
//
// Each TryNow sends get_uptime and waits for the uptime reply, so an
// Instant lags the MCU counter by the reply latency. The counter rate is
// the unit type U, which must match the MCU's CLOCK_FREQ.
package mcuclock

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"

	"embtime/clock"
	"embtime/core"
	"embtime/duration"
	"embtime/host/serial"
	"embtime/protocol"
)

// ErrTimeout is the cause reported when the MCU does not answer in time.
var ErrTimeout = errors.New("mcuclock: no uptime reply")

// Clock is a remote MCU uptime counter.
type Clock[U duration.Unit] struct {
	port serial.Port
	cfg  *Config

	mu     sync.Mutex
	seq    uint8
	dec    *protocol.Decoder
	buf    []byte
	closed bool
}

// openPort is replaced in tests.
var openPort = serial.Open

// Open opens the serial port named in cfg and returns a clock on it. It
// retries with exponential backoff for up to cfg.OpenTimeout. Zero fields
// of cfg, or a nil cfg, take the defaults.
func Open[U duration.Unit](cfg *Config) (*Clock[U], error) {
	cfg = withDefaults(cfg)
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = time.Duration(cfg.OpenTimeout) * time.Millisecond

	var port serial.Port
	err := backoff.RetryNotify(func() error {
		var err error
		port, err = openPort(&cfg.Serial)
		return err
	}, b, func(err error, next time.Duration) {
		core.DebugPrintln("mcuclock: " + err.Error() + ", retrying in " + next.String())
	})
	if err != nil {
		return nil, err
	}
	return New[U](port, cfg), nil
}

// New returns a clock that talks over an already open port. Zero fields
// of cfg, or a nil cfg, take the defaults.
func New[U duration.Unit](port serial.Port, cfg *Config) *Clock[U] {
	return &Clock[U]{
		port: port,
		cfg:  withDefaults(cfg),
		seq:  protocol.MessageDest,
		dec:  protocol.NewDecoder(),
		buf:  make([]byte, 256),
	}
}

// TryNow implements clock.Clock.
func (c *Clock[U]) TryNow() (clock.Instant[uint64, U], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return clock.Instant[uint64, U]{}, clock.ErrNotRunning
	}

	msg, err := protocol.EncodeCommand(c.seq, c.cfg.Commands.GetUptime)
	if err != nil {
		return clock.Instant[uint64, U]{}, clock.NewError(clock.Unspecified, err)
	}
	if _, err := c.port.Write(msg); err != nil {
		return clock.Instant[uint64, U]{}, clock.NewError(clock.Unspecified, fmt.Errorf("write get_uptime: %w", err))
	}
	c.seq = protocol.NextSeq(c.seq)

	uptime, err := c.awaitUptime()
	if err != nil {
		return clock.Instant[uint64, U]{}, err
	}
	return clock.NewInstant[U](uptime), nil
}

// awaitUptime reads until an uptime reply arrives. ACKs and unrelated
// responses are skipped.
func (c *Clock[U]) awaitUptime() (uint64, error) {
	deadline := time.Now().Add(time.Duration(c.cfg.ResponseTimeout) * time.Millisecond)
	read := false
	for {
		for {
			msg, ok := c.dec.Next()
			if !ok {
				break
			}
			if uptime, ok, err := c.parseUptime(msg.Payload); ok || err != nil {
				return uptime, err
			}
		}

		if read && time.Now().After(deadline) {
			return 0, clock.NewError(clock.Unspecified, ErrTimeout)
		}

		n, err := c.port.Read(c.buf)
		read = true
		if n > 0 {
			c.dec.Write(c.buf[:n])
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, clock.NewError(clock.Unspecified, fmt.Errorf("read uptime: %w", err))
		}
	}
}

func (c *Clock[U]) parseUptime(payload []byte) (uint64, bool, error) {
	if len(payload) == 0 {
		return 0, false, nil
	}
	id, err := protocol.DecodeVLQUint(&payload)
	if err != nil || uint16(id) != c.cfg.Commands.Uptime {
		return 0, false, nil
	}

	high, err := protocol.DecodeVLQUint(&payload)
	if err != nil {
		return 0, false, clock.NewError(clock.Unspecified, fmt.Errorf("decode uptime high: %w", err))
	}
	low, err := protocol.DecodeVLQUint(&payload)
	if err != nil {
		return 0, false, clock.NewError(clock.Unspecified, fmt.Errorf("decode uptime clock: %w", err))
	}
	return uint64(high)<<32 | uint64(low), true, nil
}

// Close flushes and closes the port. Later reads report ErrNotRunning.
func (c *Clock[U]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var result *multierror.Error
	if err := c.port.Flush(); err != nil {
		result = multierror.Append(result, fmt.Errorf("flush: %w", err))
	}
	if err := c.port.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close: %w", err))
	}
	return result.ErrorOrNil()
}

// Dropped returns how many corrupt blocks were discarded.
func (c *Clock[U]) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dec.Dropped()
}
