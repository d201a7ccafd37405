// Package rp2040 binds the generic drivers to the Raspberry Pi RP2040:
// register block layouts, the pin-function route grid, clock sources,
// and the PL011/PL022 rate encoders. Layouts reproduce the datasheet
// offsets byte-for-byte; under the tinygo build tag the blocks sit at
// their silicon addresses, on the host they are plain memory for tests
// and tooling.
package rp2040

import "github.com/Alloy-Embedded/alloy-sub003/regs"

// IOBank0Regs is the per-pin function mux: a STATUS/CTRL pair for each
// of the 30 user GPIOs.
type IOBank0Regs struct {
	GPIO [30]struct {
		STATUS regs.Reg32
		CTRL   regs.Reg32
	}
}

// CTRL.FUNCSEL codes.
const (
	funcSPI  = 1
	funcUART = 2
	funcI2C  = 3
	funcPWM  = 4
	funcSIO  = 5
	funcPIO0 = 6
	funcPIO1 = 7
	funcNull = 0x1F
)

// PadsBank0Regs holds the electrical pad controls.
type PadsBank0Regs struct {
	VOLTAGESELECT regs.Reg32
	GPIO          [30]regs.Reg32
}

// Pad control bits.
const (
	padSLEWFAST = 1 << 0
	padSCHMITT  = 1 << 1
	padPDE      = 1 << 2
	padPUE      = 1 << 3
	padIE       = 1 << 6
	padOD       = 1 << 7
)

// padReset is the pad state out of reset: input enabled, schmitt
// trigger, pull-down, 4mA drive.
const padReset = padIE | padSCHMITT | padPDE | 1<<4

// SIORegs is the single-cycle IO block, trimmed to the GPIO part. The
// SET/CLR/XOR registers are one-shot: they apply their mask to OUT or
// OE in a single bus write.
type SIORegs struct {
	CPUID  regs.Reg32 // 0x00
	IN     regs.Reg32 // 0x04
	HIIN   regs.Reg32 // 0x08
	_      [4]byte
	OUT    regs.Reg32 // 0x10
	OUTSET regs.Reg32 // 0x14
	OUTCLR regs.Reg32 // 0x18
	OUTXOR regs.Reg32 // 0x1C
	OE     regs.Reg32 // 0x20
	OESET  regs.Reg32 // 0x24
	OECLR  regs.Reg32 // 0x28
	OEXOR  regs.Reg32 // 0x2C
}

// UARTRegs is one PL011.
type UARTRegs struct {
	DR    regs.Reg32 // 0x00, data plus per-character error bits
	RSR   regs.Reg32 // 0x04, sticky errors, any write clears
	_     [16]byte
	FR    regs.Reg32 // 0x18, flags
	_     [4]byte
	ILPR  regs.Reg32 // 0x20
	IBRD  regs.Reg32 // 0x24, integer baud divisor
	FBRD  regs.Reg32 // 0x28, fractional baud divisor, 1/64 steps
	LCRH  regs.Reg32 // 0x2C, line control
	CR    regs.Reg32 // 0x30, control
	IFLS  regs.Reg32 // 0x34
	IMSC  regs.Reg32 // 0x38
	RIS   regs.Reg32 // 0x3C
	MIS   regs.Reg32 // 0x40
	ICR   regs.Reg32 // 0x44, interrupt clear, write-only
	DMACR regs.Reg32 // 0x48
}

// DR read-side error bits. They describe the character in bits 7:0.
const (
	uartDrFE = 1 << 8
	uartDrPE = 1 << 9
	uartDrBE = 1 << 10
	uartDrOE = 1 << 11

	uartDrErrors = uartDrFE | uartDrPE | uartDrBE | uartDrOE
)

// FR bits.
const (
	frCTS  = 1 << 0
	frBUSY = 1 << 3
	frRXFE = 1 << 4
	frTXFF = 1 << 5
	frRXFF = 1 << 6
	frTXFE = 1 << 7
)

// LCR_H bits and fields.
const (
	lcrBRK  = 1 << 0
	lcrPEN  = 1 << 1
	lcrEPS  = 1 << 2
	lcrSTP2 = 1 << 3
	lcrFEN  = 1 << 4
)

var uartWLEN = regs.F(5, 2) // frame width, encoded as dataBits-5

// CR bits.
const (
	crUARTEN = 1 << 0
	crTXE    = 1 << 8
	crRXE    = 1 << 9
	crRTSEN  = 1 << 14
	crCTSEN  = 1 << 15
)

// icrAll acknowledges every PL011 interrupt source.
const icrAll = 0x7FF

// SPIRegs is one PL022.
type SPIRegs struct {
	CR0   regs.Reg32 // 0x00, frame format plus serial clock rate
	CR1   regs.Reg32 // 0x04
	DR    regs.Reg32 // 0x08
	SR    regs.Reg32 // 0x0C
	CPSR  regs.Reg32 // 0x10, even clock prescale, 2..254
	IMSC  regs.Reg32 // 0x14
	RIS   regs.Reg32 // 0x18
	MIS   regs.Reg32 // 0x1C
	ICR   regs.Reg32 // 0x20
	DMACR regs.Reg32 // 0x24
}

// CR0 fields. Rate = clk_peri / (CPSDVSR * (1 + SCR)).
var (
	spiDSS = regs.F(0, 4) // data size minus one
	spiFRF = regs.F(4, 2) // frame format, 0 is Motorola SPI
	spiSCR = regs.F(8, 8) // serial clock rate postdivider
)

const (
	spiSPO = 1 << 6 // clock polarity
	spiSPH = 1 << 7 // clock phase
)

// CR1 bits.
const (
	spiLBM = 1 << 0
	spiSSE = 1 << 1
	spiMS  = 1 << 2
	spiSOD = 1 << 3
)

// SR bits.
const (
	srTFE = 1 << 0
	srTNF = 1 << 1
	srRNE = 1 << 2
	srRFF = 1 << 3
	srBSY = 1 << 4
)

// spiIcrAll acknowledges the two clearable PL022 interrupts, receive
// overrun and receive timeout.
const spiIcrAll = 0x3

// PWMSlice is one of the eight identical PWM slices. Each drives two
// outputs, A and B, from a shared counter.
type PWMSlice struct {
	CSR regs.Reg32 // control and status
	DIV regs.Reg32 // 8.4 fixed-point clock divider
	CTR regs.Reg32 // free-running counter
	CC  regs.Reg32 // compare levels, A in 15:0 and B in 31:16
	TOP regs.Reg32 // counter wrap value
}

// PWMRegs is the PWM block: eight slices then the shared registers.
type PWMRegs struct {
	Slice [8]PWMSlice
	EN    regs.Reg32 // 0xA0
	INTR  regs.Reg32
	INTE  regs.Reg32
	INTF  regs.Reg32
	INTS  regs.Reg32
}

// CSR bits.
const (
	csrEN        = 1 << 0
	csrPHCORRECT = 1 << 1
)

// DIV and CC fields.
var (
	pwmDivInt = regs.F(4, 8) // integer part of the divider
	pwmCCA    = regs.F(0, 16)
	pwmCCB    = regs.F(16, 16)
)

// ResetsRegs controls the peripheral reset lines. A set RESET bit
// holds the block in reset; hardware raises the matching RESETDONE
// bit once the block is out.
type ResetsRegs struct {
	RESET     regs.Reg32 // 0x00
	WDSEL     regs.Reg32 // 0x04
	RESETDONE regs.Reg32 // 0x08
}

// RESET bit positions for the blocks this package touches.
const (
	rstIOBank0   = 1 << 5
	rstPadsBank0 = 1 << 8
	rstPIO0      = 1 << 10
	rstPIO1      = 1 << 11
	rstPWM       = 1 << 14
	rstSPI0      = 1 << 16
	rstSPI1      = 1 << 17
	rstUART0     = 1 << 22
	rstUART1     = 1 << 23
)
