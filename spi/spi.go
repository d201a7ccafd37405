// Package spi implements the generic SPI master driver. Chip packages
// supply a Device: the canonical register view of one SPI instance plus
// the chip's clock encoder. The handle satisfies tinygo.org/x/drivers'
// SPI interface, so any peripheral driver from that ecosystem runs on
// an alloy bus unchanged.
package spi

import (
	"runtime"
	"sync"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Mode is the SPI clock mode, CPOL<<1 | CPHA.
type Mode uint8

const (
	Mode0 Mode = iota // idle low, sample on leading edge
	Mode1             // idle low, sample on trailing edge
	Mode2             // idle high, sample on leading edge
	Mode3             // idle high, sample on trailing edge
)

// CPOL reports the idle clock polarity bit.
func (m Mode) CPOL() uint8 { return uint8(m) >> 1 }

// CPHA reports the sampling phase bit.
func (m Mode) CPHA() uint8 { return uint8(m) & 1 }

// BitOrder selects which bit of a frame shifts first.
type BitOrder uint8

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// Config is the logical SPI master configuration. Zero values take the
// defaults: 4 MHz, mode 0, MSB first. SDI and CS default to
// pinmux.NoPin for write-only buses and software-managed chip selects.
type Config struct {
	Frequency uint32
	Mode      Mode
	Order     BitOrder
	SCK, SDO  pinmux.Pin
	SDI, CS   pinmux.Pin

	// Timeout bounds the per-frame busy-waits of Transfer and Tx.
	// Zero takes DefaultTimeout.
	Timeout time.Duration
}

const (
	DefaultFrequency = 4_000_000
	DefaultTimeout   = 100 * time.Millisecond
)

func (c *Config) setDefaults() {
	if c.Frequency == 0 {
		c.Frequency = DefaultFrequency
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
		{pinmux.SigSPISCK, c.SCK},
		{pinmux.SigSPISDO, c.SDO},
	}
	if c.SDI != pinmux.NoPin {
		want = append(want, assignment{pinmux.SigSPISDI, c.SDI})
	}
	if c.CS != pinmux.NoPin {
		want = append(want, assignment{pinmux.SigSPICS, c.CS})
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

// RatePlan is a chip-encoded SCK setting. Planning is pure; applying
// writes registers.
type RatePlan struct {
	A, B   uint32
	Actual uint32
}

// Device is the chip-side capability of one SPI instance. The driver
// calls the register-touching methods in bring-up order.
type Device interface {
	ID() pinmux.PeripheralID
	Table() *pinmux.Table
	ClockHz() (uint32, error)

	PlanRate(srcHz, freq uint32) (RatePlan, error)

	GateOn()
	Disable()
	MuxPin(r pinmux.Route)
	ApplyRate(p RatePlan)
	SetFrame(mode Mode, order BitOrder) error
	ClearStatus()
	Enable()

	// TxEmpty and RxReady pace the lockstep duplex exchange: a frame
	// is written only when the shifter has space, and read back only
	// after it arrived. The pacing keeps the receive side from
	// overrunning, so ReadData cannot fail.
	TxEmpty() bool
	RxReady() bool
	WriteData(b byte)
	ReadData() byte
}

// Bus is an SPI master handle bound to one Device. The configure and
// rate paths are serialized by a mutex; the data path assumes a single
// logical user and stays lock-free.
type Bus[D Device] struct {
	dev    D
	claims *pinmux.Claims

	mu         sync.Mutex
	cfg        Config
	actual     uint32
	configured bool
	pins       []pinmux.Pin
}

// NewBus binds a device. claims enables ownership checking and may be
// nil.
func NewBus[D Device](dev D, claims *pinmux.Claims) *Bus[D] {
	return &Bus[D]{dev: dev, claims: claims}
}

// Configure validates, claims, and brings the bus up in hardware
// order: gate -> disable -> pinmux -> rate -> frame -> clear status ->
// enable. A failed step releases everything it claimed.
func (b *Bus[D]) Configure(cfg Config) error {
	cfg.setDefaults()

	if !cfg.SCK.Valid() || !cfg.SDO.Valid() {
		return errcode.New(errcode.InvalidConfig, "spi.Configure", "SCK and SDO pins required")
	}
	if cfg.Mode > Mode3 {
		return errcode.New(errcode.InvalidConfig, "spi.Configure", "clock mode")
	}
	if cfg.Order > LSBFirst {
		return errcode.New(errcode.InvalidConfig, "spi.Configure", "bit order")
	}

	want := cfg.signals()
	table := b.dev.Table()
	if err := table.Validate(b.dev.ID(), signalMap(want)); err != nil {
		return err
	}

	srcHz, err := b.dev.ClockHz()
	if err != nil {
		return err
	}
	plan, err := b.dev.PlanRate(srcHz, cfg.Frequency)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.configured {
		return errcode.New(errcode.Busy, "spi.Configure", b.dev.ID().String()+" already configured")
	}

	pins := make([]pinmux.Pin, 0, len(want))
	for _, a := range want {
		pins = append(pins, a.pin)
	}
	if b.claims != nil {
		if err := b.claims.ClaimPeripheral(b.dev.ID(), "spi"); err != nil {
			return err
		}
		if err := b.claims.ClaimPins(pins, b.dev.ID().String()); err != nil {
			b.claims.ReleasePeripheral(b.dev.ID())
			return err
		}
	}
	b.pins = pins

	b.dev.GateOn()
	b.dev.Disable()
	for _, a := range want {
		r, _ := table.Find(a.pin, b.dev.ID(), a.sig)
		b.dev.MuxPin(r)
	}
	b.dev.ApplyRate(plan)
	if err := b.dev.SetFrame(cfg.Mode, cfg.Order); err != nil {
		b.releaseLocked()
		return err
	}
	b.dev.ClearStatus()
	b.dev.Enable()

	b.cfg = cfg
	b.actual = plan.Actual
	b.configured = true
	return nil
}

// SetFrequency reprograms the clock divider without touching frame or
// pin state. A master clock switch invalidates the achieved rate; call
// this afterwards if the bus stays in use.
func (b *Bus[D]) SetFrequency(hz uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.configured {
		return errcode.New(errcode.InvalidConfig, "spi.SetFrequency", "bus not configured")
	}
	srcHz, err := b.dev.ClockHz()
	if err != nil {
		return err
	}
	plan, err := b.dev.PlanRate(srcHz, hz)
	if err != nil {
		return err
	}
	b.dev.ApplyRate(plan)
	b.cfg.Frequency = hz
	b.actual = plan.Actual
	return nil
}

// ActualFrequency returns the achieved SCK rate after divisor rounding.
func (b *Bus[D]) ActualFrequency() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.actual
}

// Transfer exchanges one byte: the argument shifts out while the
// returned byte shifts in.
func (b *Bus[D]) Transfer(w byte) (byte, error) {
	if !b.ready() {
		return 0, errcode.New(errcode.InvalidConfig, "spi.Transfer", "bus not configured")
	}
	return b.exchange(w)
}

// Tx exchanges buffers in lockstep. w may be nil to clock out zeros, r
// may be nil to discard the received bytes; when both are given their
// lengths must match.
func (b *Bus[D]) Tx(w, r []byte) error {
	if !b.ready() {
		return errcode.New(errcode.InvalidConfig, "spi.Tx", "bus not configured")
	}
	if w != nil && r != nil && len(w) != len(r) {
		return errcode.New(errcode.InvalidConfig, "spi.Tx", "buffer length mismatch")
	}
	n := len(w)
	if w == nil {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		out := byte(0)
		if w != nil {
			out = w[i]
		}
		in, err := b.exchange(out)
		if err != nil {
			return err
		}
		if r != nil {
			r[i] = in
		}
	}
	return nil
}

func (b *Bus[D]) exchange(w byte) (byte, error) {
	if err := b.wait(b.dev.TxEmpty, "spi.Transfer", "shifter busy"); err != nil {
		return 0, err
	}
	b.dev.WriteData(w)
	if err := b.wait(b.dev.RxReady, "spi.Transfer", "no response frame"); err != nil {
		return 0, err
	}
	return b.dev.ReadData(), nil
}

// Release disables the bus and returns every claim.
func (b *Bus[D]) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
}

func (b *Bus[D]) releaseLocked() {
	b.dev.Disable()
	if b.claims != nil {
		b.claims.ReleasePins(b.pins)
		b.claims.ReleasePeripheral(b.dev.ID())
	}
	b.pins = nil
	b.configured = false
}

func (b *Bus[D]) ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.configured
}

func (b *Bus[D]) timeout() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cfg.Timeout == 0 {
		return DefaultTimeout
	}
	return b.cfg.Timeout
}

func (b *Bus[D]) wait(flag func() bool, op, msg string) error {
	deadline := time.Now().Add(b.timeout())
	for !flag() {
		if time.Now().After(deadline) {
			if flag() {
				return nil
			}
			return errcode.New(errcode.Timeout, op, msg)
		}
		runtime.Gosched()
	}
	return nil
}
