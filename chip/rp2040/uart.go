package rp2040

import (
	"github.com/Alloy-Embedded/alloy-sub003/clkdiv"
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/uart"
)

// UART is one PL011. It implements uart.Device; the generic driver owns
// ordering and ownership, this type owns the PL011 register encoding.
// Both instances clock from clk_peri.
type UART struct {
	regs *UARTRegs
	id   pinmux.PeripheralID
	rst  uint32
	tree *clktree.Tree

	hasRTS, hasCTS bool
}

// NewUART0 binds UART0.
func NewUART0(tree *clktree.Tree) *UART {
	return &UART{regs: UART0Regs, id: UART0, rst: rstUART0, tree: tree}
}

// NewUART1 binds UART1.
func NewUART1(tree *clktree.Tree) *UART {
	return &UART{regs: UART1Regs, id: UART1, rst: rstUART1, tree: tree}
}

func (u *UART) ID() pinmux.PeripheralID { return u.id }
func (u *UART) Table() *pinmux.Table    { return Routes }

func (u *UART) ClockHz() (uint32, error) { return u.tree.Hz(DomainPeri) }

// PlanRate encodes a baud rate into the PL011's 16.6 fixed-point
// divider pair. With 16x oversampling baud = fclk/(16*(IBRD+FBRD/64)),
// so the search runs on the combined count of 64ths D = 64*IBRD+FBRD
// against a 4x source: baud = 4*fclk/D. The pair splits out of D only
// at the end.
func (u *UART) PlanRate(srcHz, baud uint32) (uart.RatePlan, error) {
	if baud == 0 || baud > srcHz/16 {
		return uart.RatePlan{}, errcode.New(errcode.InvalidConfig, "rp2040.PlanRate", "baud rate")
	}
	d, actual, err := clkdiv.BestDivisor(4*srcHz, baud, 64, 64*0xFFFF)
	if err != nil {
		return uart.RatePlan{}, err
	}
	if err := clkdiv.CheckTolerance(baud, actual, clkdiv.TolerancePermille); err != nil {
		return uart.RatePlan{}, err
	}
	return uart.RatePlan{A: d >> 6, B: d & 63, Actual: actual}, nil
}

// GateOn releases the PL011 from reset. It is the first bring-up step,
// so the flow control bookkeeping of any previous configuration resets
// here.
func (u *UART) GateOn() {
	unresetBlocks(u.rst)
	u.tree.GateOn(u.id)
	u.hasRTS, u.hasCTS = false, false
}

func (u *UART) Disable() {
	u.regs.CR.ClearBits(crUARTEN)
}

// MuxPin hands the pin to the PL011 and records flow control pins;
// SetFormat turns them into CR enables.
func (u *UART) MuxPin(r pinmux.Route) {
	Bank0().muxPin(r.Pin.Index(), r.Alt)
	switch r.Sig {
	case pinmux.SigUARTRTS:
		u.hasRTS = true
	case pinmux.SigUARTCTS:
		u.hasCTS = true
	}
}

// ApplyRate writes the divisor pair. The PL011 latches IBRD and FBRD on
// the next LCR_H write, so the current line control is written back to
// push the new rate through; reprogramming a live port bounces UARTEN
// around the sequence.
func (u *UART) ApplyRate(p uart.RatePlan) {
	enabled := u.regs.CR.HasBits(crUARTEN)
	if enabled {
		u.Disable()
	}
	u.regs.IBRD.Set(p.A)
	u.regs.FBRD.Set(p.B)
	u.regs.LCRH.Set(u.regs.LCRH.Get())
	if enabled {
		u.Enable()
	}
}

// SetFormat composes LCR_H and CR. The PL011 counts parity outside the
// data field, so 5 through 8 data bits all carry any parity; a 9-bit
// frame does not exist.
func (u *UART) SetFormat(dataBits, stopBits uint8, parity uart.Parity) error {
	if dataBits < 5 || dataBits > 8 {
		return errcode.New(errcode.Unsupported, "rp2040.SetFormat", "frame width")
	}
	lcr := lcrFEN | uartWLEN.Enc(uint32(dataBits-5))
	if parity != uart.ParityNone {
		lcr |= lcrPEN
	}
	if parity == uart.ParityEven {
		lcr |= lcrEPS
	}
	if stopBits == 2 {
		lcr |= lcrSTP2
	}

	cr := uint32(crTXE | crRXE)
	if u.hasRTS {
		cr |= crRTSEN
	}
	if u.hasCTS {
		cr |= crCTSEN
	}

	u.regs.LCRH.Set(lcr)
	u.regs.CR.Set(cr)
	return nil
}

// ClearStatus drops stale receive errors and pending interrupt state.
// Any write clears the sticky RSR bits; ICR is write-only, so the
// blanket acknowledge is safe on both builds.
func (u *UART) ClearStatus() {
	u.regs.RSR.Set(0)
	u.regs.ICR.Set(icrAll)
}

// Enable turns the port on. Because LCR_H set FEN, enabling starts with
// empty FIFOs.
func (u *UART) Enable() {
	u.regs.CR.SetBits(crUARTEN)
	u.flagEnabled()
}

func (u *UART) TxReady() bool { return !u.regs.FR.HasBits(frTXFF) }
func (u *UART) TxIdle() bool {
	return u.regs.FR.HasBits(frTXFE) && !u.regs.FR.HasBits(frBUSY)
}
func (u *UART) RxReady() bool { return !u.regs.FR.HasBits(frRXFE) }

func (u *UART) WriteData(b byte) {
	u.regs.DR.Set(uint32(b))
}

// ReadData pops the receive FIFO. The PL011 tags each character with
// its error bits in DR 11:8; framing, parity, break, and overrun
// surface as HwFault, and the offending byte is dropped so the stream
// can resume.
func (u *UART) ReadData() (byte, error) {
	w := u.regs.DR.Get()
	u.flagRxRead()
	if w&uartDrErrors != 0 {
		u.regs.RSR.Set(0)
		return 0, errcode.New(errcode.HwFault, "rp2040.ReadData", "receive error")
	}
	return byte(w), nil
}
