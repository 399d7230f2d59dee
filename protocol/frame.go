package protocol

import (
	"errors"
	"fmt"
)

// ErrPayloadTooLong is returned when a payload does not fit in one block.
var ErrPayloadTooLong = errors.New("payload too long for message block")

// Message is a decoded block. An empty Payload is an ACK or NAK.
type Message struct {
	Sequence uint8
	Payload  []byte
}

// EncodeMessage builds a complete block around payload.
func EncodeMessage(seq uint8, payload []byte) ([]byte, error) {
	msgLen := MessageLengthMin + len(payload)
	if msgLen > MessageLengthMax {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLong, msgLen, MessageLengthMax)
	}

	msg := make([]byte, 0, msgLen)
	msg = append(msg, uint8(msgLen), seq)
	msg = append(msg, payload...)
	crc := CRC16(msg)
	return append(msg, uint8(crc>>8), uint8(crc), MessageValueSync), nil
}

// EncodeCommand builds a block carrying one command: its ID followed by
// its arguments.
func EncodeCommand(seq uint8, cmdID uint16, args ...uint32) ([]byte, error) {
	payload := AppendVLQUint(nil, uint32(cmdID))
	for _, arg := range args {
		payload = AppendVLQUint(payload, arg)
	}
	return EncodeMessage(seq, payload)
}

// Decoder splits a byte stream into blocks. Corrupt input drops the decoder
// out of sync until the next sync byte.
type Decoder struct {
	buf     []byte
	synced  bool
	dropped int
}

// NewDecoder returns a decoder that assumes the stream starts on a block
// boundary.
func NewDecoder() *Decoder {
	return &Decoder{synced: true}
}

// Write adds received bytes.
func (d *Decoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Dropped returns how many times the decoder lost sync.
func (d *Decoder) Dropped() int {
	return d.dropped
}

// Next returns the next complete block, or false if more bytes are needed.
func (d *Decoder) Next() (Message, bool) {
	for len(d.buf) > 0 {
		if !d.synced {
			i := 0
			for i < len(d.buf) && d.buf[i] != MessageValueSync {
				i++
			}
			if i == len(d.buf) {
				d.buf = d.buf[:0]
				return Message{}, false
			}
			d.buf = d.buf[i+1:]
			d.synced = true
			continue
		}

		if d.buf[0] == MessageValueSync {
			d.buf = d.buf[1:]
			continue
		}
		if len(d.buf) < MessageLengthMin {
			break
		}

		msgLen := int(d.buf[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.lose()
			continue
		}
		if len(d.buf) < msgLen {
			break
		}
		if d.buf[msgLen-MessageTrailerSync] != MessageValueSync {
			d.lose()
			continue
		}
		frameCRC := uint16(d.buf[msgLen-MessageTrailerCRC])<<8 |
			uint16(d.buf[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(d.buf[:msgLen-MessageTrailerSize]) {
			d.lose()
			continue
		}

		msg := Message{
			Sequence: d.buf[MessagePositionSeq],
			Payload:  append([]byte(nil), d.buf[MessageHeaderSize:msgLen-MessageTrailerSize]...),
		}
		d.buf = d.buf[msgLen:]
		return msg, true
	}
	return Message{}, false
}

// lose drops the first byte so the resync scan cannot land on the sync
// byte at the start of a corrupt block again.
func (d *Decoder) lose() {
	d.synced = false
	d.dropped++
	d.buf = d.buf[1:]
}
