//go:build !tinygo

package probe

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"io"
	"runtime"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// Client is the host side of the probe link: synchronous
// request/response with a per-exchange timeout. One exchange is one
// command frame out, then the agent's ACK and one response frame back.
type Client struct {
	port    io.ReadWriter
	timeout time.Duration

	seq     uint8
	rx      Deframer
	frames  [][]byte // decoded payloads not yet consumed
	readbuf [256]byte
	txbuf   []byte
}

// DefaultExchangeTimeout bounds one command round trip.
const DefaultExchangeTimeout = 2 * time.Second

// NewClient wraps an open link. timeout zero takes
// DefaultExchangeTimeout.
func NewClient(port io.ReadWriter, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultExchangeTimeout
	}
	return &Client{port: port, timeout: timeout}
}

// call sends one command payload and returns the agent's response
// payload. The ACK (empty frame) is consumed along the way.
func (c *Client) call(payload []byte) ([]byte, error) {
	c.txbuf = AppendFrame(c.txbuf[:0], c.seq, payload)
	if _, err := c.port.Write(c.txbuf); err != nil {
		return nil, errcode.Wrap(errcode.HwFault, "probe.Client", err)
	}
	c.seq = (c.seq + 1) & seqMask

	deadline := time.Now().Add(c.timeout)
	for {
		for len(c.frames) > 0 {
			f := c.frames[0]
			c.frames = c.frames[1:]
			if len(f) == 0 {
				continue // ACK
			}
			return f, nil
		}
		if !time.Now().Before(deadline) {
			return nil, errcode.New(errcode.Timeout, "probe.Client", "no response before deadline")
		}
		n, err := c.port.Read(c.readbuf[:])
		if n > 0 {
			c.rx.Feed(c.readbuf[:n], func(seq uint8, payload []byte) {
				p := make([]byte, len(payload))
				copy(p, payload)
				c.frames = append(c.frames, p)
			})
		}
		if err != nil {
			if err == io.EOF && n == 0 {
				return nil, errcode.New(errcode.Timeout, "probe.Client", "link closed")
			}
			if n == 0 {
				return nil, errcode.Wrap(errcode.HwFault, "probe.Client", err)
			}
		}
		if n == 0 {
			// Serial read timeout tick; yield before polling again.
			runtime.Gosched()
		}
	}
}

// expect strips the response id and turns RspError payloads into
// errors carrying the agent's code.
func (c *Client) expect(rsp uint32, payload []byte) ([]byte, error) {
	id, err := ReadUint(&payload)
	if err != nil {
		return nil, err
	}
	if id == RspError {
		code, err := ReadString(&payload)
		if err != nil {
			return nil, err
		}
		detail, _ := ReadString(&payload)
		return nil, &errcode.E{C: errcode.Code(code), Op: "probe.Client", Msg: detail}
	}
	if id != rsp {
		return nil, errcode.New(errcode.Error, "probe.Client", "unexpected response")
	}
	return payload, nil
}

// Peek reads one value of the given width (8, 16 or 32) at addr.
func (c *Client) Peek(addr, width uint32) (uint32, error) {
	req := AppendUint(nil, CmdPeek)
	req = AppendUint(req, addr)
	req = AppendUint(req, width)
	p, err := c.call(req)
	if err != nil {
		return 0, err
	}
	p, err = c.expect(RspPeek, p)
	if err != nil {
		return 0, err
	}
	if _, err := ReadUint(&p); err != nil { // echoed addr
		return 0, err
	}
	return ReadUint(&p)
}

// Poke writes one value of the given width at addr.
func (c *Client) Poke(addr, width, value uint32) error {
	req := AppendUint(nil, CmdPoke)
	req = AppendUint(req, addr)
	req = AppendUint(req, width)
	req = AppendUint(req, value)
	p, err := c.call(req)
	if err != nil {
		return err
	}
	_, err = c.expect(RspPoke, p)
	return err
}

// Hz queries the effective frequency of one clock domain.
func (c *Client) Hz(domain uint32) (uint32, error) {
	req := AppendUint(nil, CmdHz)
	req = AppendUint(req, domain)
	p, err := c.call(req)
	if err != nil {
		return 0, err
	}
	p, err = c.expect(RspHz, p)
	if err != nil {
		return 0, err
	}
	if _, err := ReadUint(&p); err != nil { // echoed domain
		return 0, err
	}
	return ReadUint(&p)
}

// Trace fetches up to n entries of the agent's access-trace ring,
// oldest first.
func (c *Client) Trace(n int) ([]AccessEvent, error) {
	req := AppendUint(nil, CmdTrace)
	req = AppendUint(req, uint32(n))
	p, err := c.call(req)
	if err != nil {
		return nil, err
	}
	p, err = c.expect(RspTrace, p)
	if err != nil {
		return nil, err
	}
	count, err := ReadUint(&p)
	if err != nil {
		return nil, err
	}
	events := make([]AccessEvent, 0, count)
	for i := uint32(0); i < count; i++ {
		op, err := ReadUint(&p)
		if err != nil {
			return nil, err
		}
		addr, err := ReadUint(&p)
		if err != nil {
			return nil, err
		}
		width, err := ReadUint(&p)
		if err != nil {
			return nil, err
		}
		value, err := ReadUint(&p)
		if err != nil {
			return nil, err
		}
		events = append(events, AccessEvent{
			Op: traceOp(op), Addr: addr, Width: uint8(width), Value: value,
		})
	}
	return events, nil
}

// Ident is the decoded identify dictionary.
type Ident struct {
	Version  string               `json:"version"`
	MCU      string               `json:"mcu"`
	Clocks   map[string]uint32    `json:"clocks"`
	Windows  map[string][2]uint32 `json:"windows"`
	Commands map[string]int       `json:"commands"`
}

// Identify fetches the compressed identity blob chunk by chunk,
// inflates it and decodes the dictionary.
func (c *Client) Identify() (*Ident, error) {
	var blob bytes.Buffer
	offset := uint32(0)
	for {
		chunk, err := c.identChunk(offset)
		if err != nil {
			return nil, err
		}
		blob.Write(chunk)
		offset += uint32(len(chunk))
		if len(chunk) < IdentChunk {
			break
		}
	}

	zr, err := zlib.NewReader(&blob)
	if err != nil {
		return nil, errcode.Wrap(errcode.Error, "probe.Identify", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, errcode.Wrap(errcode.Error, "probe.Identify", err)
	}

	var id Ident
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, errcode.Wrap(errcode.Error, "probe.Identify", err)
	}
	return &id, nil
}

func (c *Client) identChunk(offset uint32) ([]byte, error) {
	req := AppendUint(nil, CmdIdentify)
	req = AppendUint(req, offset)
	req = AppendUint(req, IdentChunk)
	p, err := c.call(req)
	if err != nil {
		return nil, err
	}
	p, err = c.expect(RspIdentify, p)
	if err != nil {
		return nil, err
	}
	if _, err := ReadUint(&p); err != nil { // echoed offset
		return nil, err
	}
	return ReadBytes(&p)
}
