// Package samd21 binds the generic drivers to the Microchip SAMD21:
// register block layouts, pin mux routes, clock sources, and the
// SERCOM/TCC rate encoders. Layouts reproduce the datasheet offsets
// byte-for-byte; under the tinygo build tag the blocks sit at their
// silicon addresses, on the host they are plain memory for tests and
// tooling.
package samd21

import "github.com/Alloy-Embedded/alloy-sub003/regs"

// PortGroup is one 32-pin PORT group, 0x80 bytes.
type PortGroup struct {
	DIR      regs.Reg32
	DIRCLR   regs.Reg32
	DIRSET   regs.Reg32
	DIRTGL   regs.Reg32
	OUT      regs.Reg32
	OUTCLR   regs.Reg32
	OUTSET   regs.Reg32
	OUTTGL   regs.Reg32
	IN       regs.Reg32
	CTRL     regs.Reg32
	WRCONFIG regs.Reg32
	_        [4]byte
	PMUX     [16]regs.Reg8
	PINCFG   [32]regs.Reg8
	_        [32]byte
}

// PortRegs is the PORT peripheral: group 0 drives PA, group 1 PB.
type PortRegs struct {
	Group [2]PortGroup
}

// PINCFG bits.
const (
	pincfgPMUXEN = 1 << 0
	pincfgINEN   = 1 << 1
	pincfgPULLEN = 1 << 2
)

// USARTRegs is the SERCOM register file in USART mode.
type USARTRegs struct {
	CTRLA    regs.Reg32 // 0x00
	CTRLB    regs.Reg32 // 0x04
	_        [4]byte
	BAUD     regs.Reg16 // 0x0C
	RXPL     regs.Reg8  // 0x0E
	_        [5]byte
	INTENCLR regs.Reg8 // 0x14
	_        byte
	INTENSET regs.Reg8 // 0x16
	_        byte
	INTFLAG  regs.Reg8  // 0x18
	_        byte
	STATUS   regs.Reg16 // 0x1A
	SYNCBUSY regs.Reg32 // 0x1C
	_        [8]byte
	DATA     regs.Reg16 // 0x28
	_        [6]byte
	DBGCTRL  regs.Reg8 // 0x30
}

// SPIRegs is the same SERCOM register file in SPI master mode: BAUD
// narrows to 8 bits and DATA widens to 32.
type SPIRegs struct {
	CTRLA    regs.Reg32 // 0x00
	CTRLB    regs.Reg32 // 0x04
	_        [4]byte
	BAUD     regs.Reg8 // 0x0C
	_        [7]byte
	INTENCLR regs.Reg8 // 0x14
	_        byte
	INTENSET regs.Reg8 // 0x16
	_        byte
	INTFLAG  regs.Reg8  // 0x18
	_        byte
	STATUS   regs.Reg16 // 0x1A
	SYNCBUSY regs.Reg32 // 0x1C
	_        [8]byte
	DATA     regs.Reg32 // 0x28
	_        [4]byte
	DBGCTRL  regs.Reg8 // 0x30
}

// SERCOM CTRLA fields shared by both modes.
var (
	ctrlaSWRST  = regs.Bit(0)
	ctrlaENABLE = regs.Bit(1)
	ctrlaMODE   = regs.F(2, 3)
	ctrlaDORD   = regs.Bit(30)
)

// USART CTRLA fields.
var (
	usartSAMPR = regs.F(13, 3)
	usartTXPO  = regs.F(16, 2)
	usartRXPO  = regs.F(20, 2)
	usartFORM  = regs.F(24, 4)
)

// USART CTRLB fields.
var (
	usartCHSIZE = regs.F(0, 3)
	usartSBMODE = regs.Bit(6)
	usartPMODE  = regs.Bit(13)
	usartTXEN   = regs.Bit(16)
	usartRXEN   = regs.Bit(17)
)

// SPI CTRLA fields.
var (
	spiDOPO = regs.F(16, 2)
	spiDIPO = regs.F(20, 2)
	spiCPHA = regs.Bit(28)
	spiCPOL = regs.Bit(29)
)

// SPI CTRLB fields.
var (
	spiCHSIZE = regs.F(0, 3)
	spiMSSEN  = regs.Bit(13)
	spiRXEN   = regs.Bit(17)
)

// SYNCBUSY bits.
const (
	syncSWRST  = 1 << 0
	syncENABLE = 1 << 1
	syncCTRLB  = 1 << 2
)

// USART INTFLAG bits.
const (
	intflagDRE = 1 << 0
	intflagTXC = 1 << 1
	intflagRXC = 1 << 2
)

// USART STATUS bits.
const (
	statusPERR   = 1 << 0
	statusFERR   = 1 << 1
	statusBUFOVF = 1 << 2
)

// TCCRegs is a timer/counter-for-control register file. TCC0 and TCC1
// carry 24-bit counters.
type TCCRegs struct {
	CTRLA    regs.Reg32 // 0x00
	CTRLBCLR regs.Reg8  // 0x04
	CTRLBSET regs.Reg8  // 0x05
	_        [2]byte
	SYNCBUSY regs.Reg32 // 0x08
	FCTRLA   regs.Reg32 // 0x0C
	FCTRLB   regs.Reg32 // 0x10
	WEXCTRL  regs.Reg32 // 0x14
	DRVCTRL  regs.Reg32 // 0x18
	_        [2]byte
	DBGCTRL  regs.Reg8 // 0x1E
	_        byte
	EVCTRL   regs.Reg32 // 0x20
	INTENCLR regs.Reg32 // 0x24
	INTENSET regs.Reg32 // 0x28
	INTFLAG  regs.Reg32 // 0x2C
	STATUS   regs.Reg32 // 0x30
	COUNT    regs.Reg32 // 0x34
	PATT     regs.Reg16 // 0x38
	_        [2]byte
	WAVE     regs.Reg32 // 0x3C
	PER      regs.Reg32 // 0x40
	CC       [4]regs.Reg32
}

var (
	tccPRESCALER = regs.F(8, 3)
	tccWAVEGEN   = regs.F(0, 3)
)

// wavegenNPWM is normal PWM: output high while COUNT < CC, period PER+1.
const wavegenNPWM = 2

// PmRegs is the power manager, the APB clock gate block.
type PmRegs struct {
	CTRL     regs.Reg8 // 0x00
	SLEEP    regs.Reg8 // 0x01
	_        [6]byte
	CPUSEL   regs.Reg8 // 0x08
	APBASEL  regs.Reg8 // 0x09
	APBBSEL  regs.Reg8 // 0x0A
	APBCSEL  regs.Reg8 // 0x0B
	_        [8]byte
	AHBMASK  regs.Reg32 // 0x14
	APBAMASK regs.Reg32 // 0x18
	APBBMASK regs.Reg32 // 0x1C
	APBCMASK regs.Reg32 // 0x20
}

// APBCMASK gate bits.
const (
	gateSERCOM0 = 2
	gateSERCOM1 = 3
	gateSERCOM4 = 6
	gateSERCOM5 = 7
	gateTCC0    = 8
	gateTCC1    = 9
)
