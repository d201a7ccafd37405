// Package uart implements the generic UART driver. Chip packages
// supply a Device: the canonical register view (enable, rate, format,
// status, data) mapped onto their real block, plus the chip's rate
// encoder. The driver owns ordering: peripherals are brought up clock
// gate first, enable last, because registers of an unclocked block are
// not writable on real silicon.
package uart

import (
	"runtime"
	"sync"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Parity selects the parity mode.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// Config is the logical UART configuration. Zero values take the
// defaults: 115200 8N1. RTS/CTS default to pinmux.NoPin (no flow
// control).
type Config struct {
	BaudRate uint32
	DataBits uint8
	StopBits uint8
	Parity   Parity
	TX, RX   pinmux.Pin
	RTS, CTS pinmux.Pin

	// Timeout bounds the busy-waits of WriteByte/Write. Zero takes
	// DefaultTimeout.
	Timeout time.Duration
}

const DefaultTimeout = 100 * time.Millisecond

func (c *Config) setDefaults() {
	if c.BaudRate == 0 {
		c.BaudRate = 115200
	}
	if c.DataBits == 0 {
		c.DataBits = 8
	}
	if c.StopBits == 0 {
		c.StopBits = 1
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

type assignment struct {
	sig pinmux.Signal
	pin pinmux.Pin
}

// signals lists the requested signal-to-pin assignment in a fixed
// order, so configure emits a deterministic write sequence.
func (c *Config) signals() []assignment {
	want := []assignment{
		{pinmux.SigUARTTX, c.TX},
		{pinmux.SigUARTRX, c.RX},
	}
	if c.RTS != pinmux.NoPin {
		want = append(want, assignment{pinmux.SigUARTRTS, c.RTS})
	}
	if c.CTS != pinmux.NoPin {
		want = append(want, assignment{pinmux.SigUARTCTS, c.CTS})
	}
	return want
}

func signalMap(want []assignment) map[pinmux.Signal]pinmux.Pin {
	m := make(map[pinmux.Signal]pinmux.Pin, len(want))
	for _, a := range want {
		m[a.sig] = a.pin
	}
	return m
}

// RatePlan is a chip-encoded baud setting: up to two register words
// (integer and fractional parts, or one packed word). Planning is
// pure; applying writes registers.
type RatePlan struct {
	A, B   uint32
	Actual uint32
}

// Device is the chip-side capability of one UART instance. Methods
// marked plan are pure; the rest touch registers. The driver calls
// them in bring-up order.
type Device interface {
	ID() pinmux.PeripheralID
	Table() *pinmux.Table
	ClockHz() (uint32, error)

	PlanRate(srcHz, baud uint32) (RatePlan, error)

	GateOn()
	Disable()
	MuxPin(r pinmux.Route)
	ApplyRate(p RatePlan)
	SetFormat(dataBits, stopBits uint8, parity Parity) error
	ClearStatus()
	Enable()

	TxReady() bool
	TxIdle() bool
	RxReady() bool
	WriteData(b byte)
	ReadData() (byte, error)
}

// Port is a UART handle bound to one Device. The configure and rate
// paths are serialized by a mutex; the data path assumes a single
// logical user and stays lock-free.
type Port[D Device] struct {
	dev    D
	tree   *clktree.Tree
	claims *pinmux.Claims

	mu         sync.Mutex
	cfg        Config
	actual     uint32
	configured bool
	pins       []pinmux.Pin
	unsub      func()
}

// NewPort binds a device. tree enables baud recompute on clock
// switches; claims enables ownership checking. Either may be nil.
func NewPort[D Device](dev D, tree *clktree.Tree, claims *pinmux.Claims) *Port[D] {
	return &Port[D]{dev: dev, tree: tree, claims: claims}
}

// Configure validates, claims, and brings the port up in hardware
// order: gate -> disable -> pinmux -> rate -> format -> clear status
// -> enable. A failed step releases everything it claimed.
func (p *Port[D]) Configure(cfg Config) error {
	cfg.setDefaults()

	if !cfg.TX.Valid() || !cfg.RX.Valid() {
		return errcode.New(errcode.InvalidConfig, "uart.Configure", "TX and RX pins required")
	}
	if cfg.DataBits < 5 || cfg.DataBits > 9 {
		return errcode.New(errcode.InvalidConfig, "uart.Configure", "data bits")
	}
	if cfg.StopBits < 1 || cfg.StopBits > 2 {
		return errcode.New(errcode.InvalidConfig, "uart.Configure", "stop bits")
	}
	if cfg.Parity > ParityOdd {
		return errcode.New(errcode.InvalidConfig, "uart.Configure", "parity")
	}

	want := cfg.signals()
	table := p.dev.Table()
	if err := table.Validate(p.dev.ID(), signalMap(want)); err != nil {
		return err
	}

	srcHz, err := p.dev.ClockHz()
	if err != nil {
		return err
	}
	plan, err := p.dev.PlanRate(srcHz, cfg.BaudRate)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.configured {
		return errcode.New(errcode.Busy, "uart.Configure", p.dev.ID().String()+" already configured")
	}

	pins := make([]pinmux.Pin, 0, len(want))
	for _, a := range want {
		pins = append(pins, a.pin)
	}
	if p.claims != nil {
		if err := p.claims.ClaimPeripheral(p.dev.ID(), "uart"); err != nil {
			return err
		}
		if err := p.claims.ClaimPins(pins, p.dev.ID().String()); err != nil {
			p.claims.ReleasePeripheral(p.dev.ID())
			return err
		}
	}
	p.pins = pins

	p.dev.GateOn()
	p.dev.Disable()
	for _, a := range want {
		r, _ := table.Find(a.pin, p.dev.ID(), a.sig)
		p.dev.MuxPin(r)
	}
	p.dev.ApplyRate(plan)
	if err := p.dev.SetFormat(cfg.DataBits, cfg.StopBits, cfg.Parity); err != nil {
		p.releaseLocked()
		return err
	}
	p.dev.ClearStatus()
	p.dev.Enable()

	p.cfg = cfg
	p.actual = plan.Actual
	p.configured = true
	if p.tree != nil {
		p.unsub = p.tree.Subscribe(p.recompute)
	}
	return nil
}

// recompute re-derives the baud divisor after a clock switch and
// reprograms only the rate registers. An unreachable rate under the
// new clock leaves the previous divisor in place; the next explicit
// SetBaudRate reports it.
func (p *Port[D]) recompute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return
	}
	srcHz, err := p.dev.ClockHz()
	if err != nil {
		return
	}
	plan, err := p.dev.PlanRate(srcHz, p.cfg.BaudRate)
	if err != nil {
		return
	}
	p.dev.ApplyRate(plan)
	p.actual = plan.Actual
}

// SetBaudRate reprograms the rate registers without touching format or
// pin state.
func (p *Port[D]) SetBaudRate(baud uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return errcode.New(errcode.InvalidConfig, "uart.SetBaudRate", "port not configured")
	}
	srcHz, err := p.dev.ClockHz()
	if err != nil {
		return err
	}
	plan, err := p.dev.PlanRate(srcHz, baud)
	if err != nil {
		return err
	}
	p.dev.ApplyRate(plan)
	p.cfg.BaudRate = baud
	p.actual = plan.Actual
	return nil
}

// ActualBaud returns the achieved rate after divisor rounding.
func (p *Port[D]) ActualBaud() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.actual
}

// WriteByte queues one byte, waiting at most the configured timeout
// for transmit space.
func (p *Port[D]) WriteByte(b byte) error {
	if err := p.waitTx(); err != nil {
		return err
	}
	p.dev.WriteData(b)
	return nil
}

// Write implements io.Writer with the configured per-byte timeout.
func (p *Port[D]) Write(buf []byte) (int, error) {
	for i, b := range buf {
		if err := p.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(buf), nil
}

// ReadByte returns the next received byte, waiting at most timeout.
func (p *Port[D]) ReadByte(timeout time.Duration) (byte, error) {
	deadline := time.Now().Add(timeout)
	for !p.dev.RxReady() {
		if time.Now().After(deadline) {
			if p.dev.RxReady() {
				break
			}
			return 0, errcode.New(errcode.Timeout, "uart.ReadByte", "")
		}
		runtime.Gosched()
	}
	return p.dev.ReadData()
}

// Read fills buf with already-received bytes, waiting up to the
// configured timeout for the first one. It never blocks once at least
// one byte has been read.
func (p *Port[D]) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	b, err := p.ReadByte(p.timeout())
	if err != nil {
		return 0, err
	}
	buf[0] = b
	n := 1
	for n < len(buf) && p.dev.RxReady() {
		b, err := p.dev.ReadData()
		if err != nil {
			return n, err
		}
		buf[n] = b
		n++
	}
	return n, nil
}

// Flush waits until the transmitter is idle: FIFO drained and the
// shifter empty.
func (p *Port[D]) Flush(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for !p.dev.TxIdle() {
		if time.Now().After(deadline) {
			if p.dev.TxIdle() {
				return nil
			}
			return errcode.New(errcode.Timeout, "uart.Flush", "transmitter busy")
		}
		runtime.Gosched()
	}
	return nil
}

// Release disables the port, unsubscribes from clock updates, and
// returns every claim.
func (p *Port[D]) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

func (p *Port[D]) releaseLocked() {
	if p.unsub != nil {
		p.unsub()
		p.unsub = nil
	}
	p.dev.Disable()
	if p.claims != nil {
		p.claims.ReleasePins(p.pins)
		p.claims.ReleasePeripheral(p.dev.ID())
	}
	p.pins = nil
	p.configured = false
}

func (p *Port[D]) timeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg.Timeout == 0 {
		return DefaultTimeout
	}
	return p.cfg.Timeout
}

func (p *Port[D]) waitTx() error {
	deadline := time.Now().Add(p.timeout())
	for !p.dev.TxReady() {
		if time.Now().After(deadline) {
			if p.dev.TxReady() {
				return nil
			}
			return errcode.New(errcode.Timeout, "uart.WriteByte", "transmit buffer full")
		}
		runtime.Gosched()
	}
	return nil
}
