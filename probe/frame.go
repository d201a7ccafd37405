package probe

import (
	"bytes"

	"github.com/sigurn/crc16"
)

// Frame layout:
//
//	[len][seq][payload...][crc hi][crc lo][sync]
//
// len counts the whole frame. seq carries a 4-bit sequence number in
// its low nibble; the high nibble is fixed at seqHome so a seq byte is
// distinguishable from payload when resynchronizing. The CRC covers
// len, seq and payload.
const (
	SyncByte = 0x7e

	headerLen  = 2
	trailerLen = 3
	minFrame   = headerLen + trailerLen
	maxFrame   = 64

	// MaxPayload is the largest payload one frame can carry.
	MaxPayload = maxFrame - minFrame

	seqMask = 0x0f
	seqHome = 0x10
)

var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// checksum is the frame CRC over header+payload.
func checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}

// AppendFrame appends one framed payload to dst. Payloads longer than
// MaxPayload are a programmer error and panic; command encoders size
// their arguments to fit.
func AppendFrame(dst []byte, seq uint8, payload []byte) []byte {
	if len(payload) > MaxPayload {
		panic("probe: payload exceeds frame size")
	}
	start := len(dst)
	dst = append(dst, byte(minFrame+len(payload)), seq&seqMask|seqHome)
	dst = append(dst, payload...)
	crc := checksum(dst[start:])
	return append(dst, byte(crc>>8), byte(crc), SyncByte)
}

// Deframer scans a byte stream for valid frames. After any framing or
// CRC error it drops into scan mode and discards input until the next
// sync byte.
type Deframer struct {
	buf     []byte
	scan    bool // hunting for a sync byte after an error
	dropped int
}

// Dropped counts bytes discarded while resynchronizing.
func (d *Deframer) Dropped() int { return d.dropped }

// Feed appends raw link bytes and calls emit once per complete valid
// frame with (sequence, payload). The payload slice is only valid for
// the duration of the call.
func (d *Deframer) Feed(data []byte, emit func(seq uint8, payload []byte)) {
	d.buf = append(d.buf, data...)

	for len(d.buf) > 0 {
		if d.scan {
			i := bytes.IndexByte(d.buf, SyncByte)
			if i < 0 {
				d.dropped += len(d.buf)
				d.buf = d.buf[:0]
				return
			}
			d.dropped += i + 1
			d.buf = d.buf[i+1:]
			d.scan = false
			continue
		}

		// Leading sync bytes are idle padding between frames.
		if d.buf[0] == SyncByte {
			d.buf = d.buf[1:]
			continue
		}
		if len(d.buf) < minFrame {
			return
		}

		n := int(d.buf[0])
		if n < minFrame || n > maxFrame {
			d.scan = true
			continue
		}
		if d.buf[1]&^seqMask != seqHome {
			d.scan = true
			continue
		}
		if len(d.buf) < n {
			return // wait for the rest
		}
		if d.buf[n-1] != SyncByte {
			d.scan = true
			continue
		}
		want := uint16(d.buf[n-trailerLen])<<8 | uint16(d.buf[n-trailerLen+1])
		if want != checksum(d.buf[:n-trailerLen]) {
			d.scan = true
			continue
		}

		emit(d.buf[1]&seqMask, d.buf[headerLen:n-trailerLen])
		d.buf = d.buf[n:]
	}
}
