package samd21

import (
	"github.com/Alloy-Embedded/alloy-sub003/clkdiv"
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/uart"
)

// SERCOM CTRLA.MODE values.
const (
	modeUSARTIntClk = 1
	modeSPIMaster   = 3
)

// UART is one SERCOM bound in USART mode. It implements uart.Device;
// the generic driver owns ordering and ownership, this type owns the
// SAMD21 register encoding.
type UART struct {
	regs *USARTRegs
	id   pinmux.PeripheralID
	gate uint32
	tree *clktree.Tree

	txPad, rxPad uint8
	flow         bool
	sent         bool
}

// NewUART0 binds SERCOM0 in USART mode.
func NewUART0(tree *clktree.Tree) *UART {
	return &UART{regs: SERCOM0USART, id: UART0, gate: gateSERCOM0, tree: tree}
}

// NewUART1 binds SERCOM1 in USART mode.
func NewUART1(tree *clktree.Tree) *UART {
	return &UART{regs: SERCOM1USART, id: UART1, gate: gateSERCOM1, tree: tree}
}

func (u *UART) ID() pinmux.PeripheralID { return u.id }
func (u *UART) Table() *pinmux.Table    { return Routes }

// ClockHz returns the SERCOM core clock, fed from GCLK0.
func (u *UART) ClockHz() (uint32, error) { return u.tree.Hz(DomainGCLK0) }

// PlanRate encodes a baud rate for 16x fractional oversampling. BAUD
// holds a 13.3 fixed-point divisor D with baud = srcHz/(2*D), so the
// search targets twice the requested rate and halves the result.
func (u *UART) PlanRate(srcHz, baud uint32) (uart.RatePlan, error) {
	if baud == 0 || baud > srcHz {
		return uart.RatePlan{}, errcode.New(errcode.InvalidConfig, "samd21.PlanRate", "baud rate")
	}
	d, actual2x, err := clkdiv.BestDivisor(srcHz, 2*baud, 8, 0xFFFF)
	if err != nil {
		return uart.RatePlan{}, err
	}
	if err := clkdiv.CheckTolerance(2*baud, actual2x, clkdiv.TolerancePermille); err != nil {
		return uart.RatePlan{}, err
	}
	reg := d>>3 | (d&7)<<13
	return uart.RatePlan{A: reg, Actual: actual2x / 2}, nil
}

// GateOn opens the APBC clock gate. It is the first bring-up step, so
// the pad bookkeeping of any previous configuration resets here.
func (u *UART) GateOn() {
	PM.APBCMASK.SetBits(1 << u.gate)
	u.tree.GateOn(u.id)
	u.txPad, u.rxPad = padNone, padNone
	u.flow = false
}

func (u *UART) Disable() {
	if !u.regs.CTRLA.HasBits(ctrlaENABLE.Mask()) {
		return
	}
	u.regs.CTRLA.ClearBits(ctrlaENABLE.Mask())
	u.syncWait(syncENABLE)
}

// MuxPin hands the pin to the SERCOM and records which pad the signal
// landed on; SetFormat turns the pads into TXPO/RXPO.
func (u *UART) MuxPin(r pinmux.Route) {
	if p, ok := portFor(r.Pin); ok {
		p.muxPin(r.Pin.Index(), r.Alt)
	}
	switch r.Sig {
	case pinmux.SigUARTTX:
		u.txPad = r.Unit
	case pinmux.SigUARTRX:
		u.rxPad = r.Unit
	case pinmux.SigUARTRTS, pinmux.SigUARTCTS:
		u.flow = true
	}
}

// ApplyRate writes the packed BAUD word. BAUD is enable-protected, so
// reprogramming a live port bounces ENABLE around the write.
func (u *UART) ApplyRate(p uart.RatePlan) {
	enabled := u.regs.CTRLA.HasBits(ctrlaENABLE.Mask())
	if enabled {
		u.Disable()
	}
	u.regs.BAUD.Set(uint16(p.A))
	if enabled {
		u.Enable()
	}
}

// SetFormat composes CTRLA and CTRLB from the frame parameters and the
// recorded pads. The transmitter only drives pads 0 and 2; hardware
// flow control pins the whole layout to TXPO=2 (TX pad 0, RTS pad 2,
// CTS pad 3).
func (u *UART) SetFormat(dataBits, stopBits uint8, parity uart.Parity) error {
	var txpo uint32
	switch {
	case u.flow:
		if u.txPad != 0 {
			return errcode.New(errcode.NoRoute, "samd21.SetFormat", "flow control needs TX on pad 0")
		}
		if u.rxPad == 2 || u.rxPad == 3 {
			return errcode.New(errcode.NoRoute, "samd21.SetFormat", "flow control occupies RX pads 2 and 3")
		}
		txpo = 2
	case u.txPad == 0:
		txpo = 0
	case u.txPad == 2:
		txpo = 1
	default:
		return errcode.New(errcode.NoRoute, "samd21.SetFormat", "TX pad")
	}
	if u.rxPad == u.txPad || u.rxPad > 3 {
		return errcode.New(errcode.NoRoute, "samd21.SetFormat", "RX pad")
	}

	var chsize uint32
	switch dataBits {
	case 8:
		chsize = 0
	case 9:
		chsize = 1
	default:
		chsize = uint32(dataBits) // 5..7 encode as themselves
	}
	if dataBits == 9 && parity != uart.ParityNone {
		return errcode.New(errcode.Unsupported, "samd21.SetFormat", "9-bit frames exclude parity")
	}

	var form uint32
	if parity != uart.ParityNone {
		form = 1
	}

	ctrla := ctrlaMODE.Enc(modeUSARTIntClk) |
		usartSAMPR.Enc(1) | // 16x oversampling, fractional baud
		usartTXPO.Enc(txpo) |
		usartRXPO.Enc(uint32(u.rxPad)) |
		usartFORM.Enc(form) |
		ctrlaDORD.Enc(1) // serial lines are LSB first

	ctrlb := usartCHSIZE.Enc(chsize) | usartTXEN.Mask() | usartRXEN.Mask()
	if stopBits == 2 {
		ctrlb |= usartSBMODE.Mask()
	}
	if parity == uart.ParityOdd {
		ctrlb |= usartPMODE.Mask()
	}

	u.regs.CTRLA.Set(ctrla)
	u.regs.CTRLB.Set(ctrlb)
	u.syncWait(syncCTRLB)
	return nil
}

// ClearStatus drops stale receive errors and interrupt flags from a
// previous session.
func (u *UART) ClearStatus() {
	u.clearRxErrors()
	u.clearIntFlags()
	u.sent = false
}

func (u *UART) Enable() {
	u.regs.CTRLA.SetBits(ctrlaENABLE.Mask())
	u.syncWait(syncENABLE)
	u.flagEnabled()
}

func (u *UART) TxReady() bool { return u.regs.INTFLAG.HasBits(intflagDRE) }

// TxIdle reports the transmitter drained: the data register is empty
// and, once anything has been sent, the last frame has left the
// shifter.
func (u *UART) TxIdle() bool {
	f := u.regs.INTFLAG.Get()
	if f&intflagDRE == 0 {
		return false
	}
	return !u.sent || f&intflagTXC != 0
}

func (u *UART) RxReady() bool { return u.regs.INTFLAG.HasBits(intflagRXC) }

func (u *UART) WriteData(b byte) {
	u.regs.DATA.Set(uint16(b))
	u.sent = true
	u.flagTxDone()
}

// ReadData pops the receive register. Frame, parity, and overflow
// errors surface as HwFault; the offending byte is dropped and the
// error flags cleared so the stream can resume.
func (u *UART) ReadData() (byte, error) {
	if u.regs.STATUS.HasBits(statusPERR | statusFERR | statusBUFOVF) {
		u.regs.DATA.Get()
		u.flagRxRead()
		u.clearRxErrors()
		return 0, errcode.New(errcode.HwFault, "samd21.ReadData", "receive error")
	}
	b := byte(u.regs.DATA.Get())
	u.flagRxRead()
	return b, nil
}

// syncWait spins on SYNCBUSY. Register synchronization completes in a
// few GCLK cycles, so the loop is hardware-bounded.
func (u *UART) syncWait(mask uint32) {
	for u.regs.SYNCBUSY.HasBits(mask) {
	}
}

const padNone = 0xFF
