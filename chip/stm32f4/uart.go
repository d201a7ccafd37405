package stm32f4

import (
	"github.com/Alloy-Embedded/alloy-sub003/clkdiv"
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/uart"
)

// UART is one USART in asynchronous mode. It implements uart.Device;
// the generic driver owns ordering and ownership, this type owns the
// F4 register encoding. USART1 and USART6 clock from APB2, USART2
// from APB1, so each instance carries its bus.
type UART struct {
	regs *USARTRegs
	id   pinmux.PeripheralID
	gate uint32
	apb1 bool
	tree *clktree.Tree

	hasRTS, hasCTS bool
}

// NewUART1 binds USART1 on APB2.
func NewUART1(tree *clktree.Tree) *UART {
	return &UART{regs: USART1Regs, id: UART1, gate: gateUSART1, tree: tree}
}

// NewUART2 binds USART2 on APB1.
func NewUART2(tree *clktree.Tree) *UART {
	return &UART{regs: USART2Regs, id: UART2, gate: gateUSART2, apb1: true, tree: tree}
}

// NewUART6 binds USART6 on APB2.
func NewUART6(tree *clktree.Tree) *UART {
	return &UART{regs: USART6Regs, id: UART6, gate: gateUSART6, tree: tree}
}

func (u *UART) ID() pinmux.PeripheralID { return u.id }
func (u *UART) Table() *pinmux.Table    { return Routes }

// ClockHz returns the instance's APB bus clock.
func (u *UART) ClockHz() (uint32, error) {
	if u.apb1 {
		return u.tree.Hz(DomainAPB1)
	}
	return u.tree.Hz(DomainAPB2)
}

// PlanRate encodes a baud rate into the 12.4 fixed-point BRR word.
// With 16x oversampling baud = fclk/BRR, so the divisor search runs
// on the raw register value; the mantissa/fraction split is only a
// way of printing it.
func (u *UART) PlanRate(srcHz, baud uint32) (uart.RatePlan, error) {
	if baud == 0 || baud > srcHz/16 {
		return uart.RatePlan{}, errcode.New(errcode.InvalidConfig, "stm32f4.PlanRate", "baud rate")
	}
	d, actual, err := clkdiv.BestDivisor(srcHz, baud, 16, 0xFFFF)
	if err != nil {
		return uart.RatePlan{}, err
	}
	if err := clkdiv.CheckTolerance(baud, actual, clkdiv.TolerancePermille); err != nil {
		return uart.RatePlan{}, err
	}
	return uart.RatePlan{A: d, Actual: actual}, nil
}

// GateOn opens the APB clock gate. It is the first bring-up step, so
// the flow control bookkeeping of any previous configuration resets
// here.
func (u *UART) GateOn() {
	if u.apb1 {
		RCC.APB1ENR.SetBits(1 << u.gate)
	} else {
		RCC.APB2ENR.SetBits(1 << u.gate)
	}
	u.tree.GateOn(u.id)
	u.hasRTS, u.hasCTS = false, false
}

func (u *UART) Disable() {
	u.regs.CR1.ClearBits(cr1UE)
}

// MuxPin hands the pin to the USART and records flow control pins;
// SetFormat turns them into CR3 enables.
func (u *UART) MuxPin(r pinmux.Route) {
	if p, ok := portFor(r.Pin); ok {
		p.muxPin(r.Pin.Index(), r.Alt)
	}
	switch r.Sig {
	case pinmux.SigUARTRTS:
		u.hasRTS = true
	case pinmux.SigUARTCTS:
		u.hasCTS = true
	}
}

// ApplyRate writes BRR. The divisor only loads cleanly with the USART
// idle, so reprogramming a live port bounces UE around the write.
func (u *UART) ApplyRate(p uart.RatePlan) {
	enabled := u.regs.CR1.HasBits(cr1UE)
	if enabled {
		u.Disable()
	}
	u.regs.BRR.Set(p.A)
	if enabled {
		u.Enable()
	}
}

// SetFormat composes CR1, CR2 and CR3. The F4 M bit counts the parity
// bit inside the frame, so only total widths of 8 and 9 exist: 8 data
// bits without parity or 7 with, and 9 without or 8 with.
func (u *UART) SetFormat(dataBits, stopBits uint8, parity uart.Parity) error {
	width := dataBits
	if parity != uart.ParityNone {
		width++
	}
	cr1 := uint32(cr1TE | cr1RE)
	switch width {
	case 8:
	case 9:
		cr1 |= cr1M
	default:
		return errcode.New(errcode.Unsupported, "stm32f4.SetFormat", "frame width")
	}
	if parity != uart.ParityNone {
		cr1 |= cr1PCE
	}
	if parity == uart.ParityOdd {
		cr1 |= cr1PS
	}

	var stop uint32
	if stopBits == 2 {
		stop = 2
	}

	var cr3 uint32
	if u.hasRTS {
		cr3 |= cr3RTSE
	}
	if u.hasCTS {
		cr3 |= cr3CTSE
	}

	u.regs.CR1.Set(cr1)
	u.regs.CR2.Set(usartSTOP.Enc(stop))
	u.regs.CR3.Set(cr3)
	return nil
}

// ClearStatus drains stale receive state. The SR-then-DR read sequence
// clears the error flags and empties the holding register; TC stays
// untouched because it holds 1 from reset and clearing it would report
// a never-used transmitter as busy.
func (u *UART) ClearStatus() {
	u.clearRxErrors()
}

func (u *UART) Enable() {
	u.regs.CR1.SetBits(cr1UE)
	u.flagEnabled()
}

func (u *UART) TxReady() bool { return u.regs.SR.HasBits(srTXE) }
func (u *UART) TxIdle() bool  { return u.regs.SR.HasBits(srTC) }
func (u *UART) RxReady() bool { return u.regs.SR.HasBits(srRXNE) }

func (u *UART) WriteData(b byte) {
	u.regs.DR.Set(uint32(b))
	u.flagTxDone()
}

// ReadData pops the receive register. Parity, framing, noise, and
// overrun errors surface as HwFault; the clear sequence drops the
// offending byte so the stream can resume.
func (u *UART) ReadData() (byte, error) {
	if u.regs.SR.HasBits(srPE | srFE | srNF | srORE) {
		u.clearRxErrors()
		return 0, errcode.New(errcode.HwFault, "stm32f4.ReadData", "receive error")
	}
	b := byte(u.regs.DR.Get())
	u.flagRxRead()
	return b, nil
}
