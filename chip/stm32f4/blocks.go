// Package stm32f4 binds the generic drivers to the ST STM32F401:
// register block layouts, pin mux routes, clock sources, and the
// USART/SPI rate encoders. Layouts reproduce the reference manual
// offsets byte-for-byte; under the tinygo build tag the blocks sit at
// their silicon addresses, on the host they are plain memory for tests
// and tooling.
package stm32f4

import "github.com/Alloy-Embedded/alloy-sub003/regs"

// GPIORegs is one GPIO port, 16 pins wide.
type GPIORegs struct {
	MODER   regs.Reg32 // 0x00, 2 bits per pin
	OTYPER  regs.Reg32 // 0x04
	OSPEEDR regs.Reg32 // 0x08
	PUPDR   regs.Reg32 // 0x0C, 2 bits per pin
	IDR     regs.Reg32 // 0x10
	ODR     regs.Reg32 // 0x14
	BSRR    regs.Reg32 // 0x18, low half sets, high half resets
	LCKR    regs.Reg32 // 0x1C
	AFR     [2]regs.Reg32
}

// MODER/PUPDR field values.
const (
	moderInput  = 0
	moderOutput = 1
	moderAlt    = 2

	pupdrNone = 0
	pupdrUp   = 1
	pupdrDown = 2
)

// USARTRegs is the USART register file.
type USARTRegs struct {
	SR   regs.Reg32 // 0x00
	DR   regs.Reg32 // 0x04
	BRR  regs.Reg32 // 0x08
	CR1  regs.Reg32 // 0x0C
	CR2  regs.Reg32 // 0x10
	CR3  regs.Reg32 // 0x14
	GTPR regs.Reg32 // 0x18
}

// USART SR bits.
const (
	srPE   = 1 << 0
	srFE   = 1 << 1
	srNF   = 1 << 2
	srORE  = 1 << 3
	srRXNE = 1 << 5
	srTC   = 1 << 6
	srTXE  = 1 << 7
)

// USART CR1 bits.
const (
	cr1RE  = 1 << 2
	cr1TE  = 1 << 3
	cr1PS  = 1 << 9
	cr1PCE = 1 << 10
	cr1M   = 1 << 12
	cr1UE  = 1 << 13
)

// usartSTOP selects the stop bit count: 0 for one, 2 for two.
var usartSTOP = regs.F(12, 2)

// USART CR3 bits.
const (
	cr3RTSE = 1 << 8
	cr3CTSE = 1 << 9
)

// SPIRegs is the SPI register file.
type SPIRegs struct {
	CR1     regs.Reg32 // 0x00
	CR2     regs.Reg32 // 0x04
	SR      regs.Reg32 // 0x08
	DR      regs.Reg32 // 0x0C
	CRCPR   regs.Reg32 // 0x10
	RXCRCR  regs.Reg32 // 0x14
	TXCRCR  regs.Reg32 // 0x18
	I2SCFGR regs.Reg32 // 0x1C
	I2SPR   regs.Reg32 // 0x20
}

// SPI CR1 bits.
const (
	spiCPHA     = 1 << 0
	spiCPOL     = 1 << 1
	spiMSTR     = 1 << 2
	spiSPE      = 1 << 6
	spiLSBFIRST = 1 << 7
	spiSSI      = 1 << 8
	spiSSM      = 1 << 9
)

// spiBR is the baud prescaler: SCK = fPCLK / 2^(BR+1).
var spiBR = regs.F(3, 3)

// SPI CR2 bits.
const spiSSOE = 1 << 2

// SPI SR bits.
const (
	spiRXNE = 1 << 0
	spiTXE  = 1 << 1
	spiOVR  = 1 << 6
	spiBSY  = 1 << 7
)

// RCCRegs is the reset and clock control block, trimmed to the
// registers this package drives.
type RCCRegs struct {
	CR       regs.Reg32 // 0x00
	PLLCFGR  regs.Reg32 // 0x04
	CFGR     regs.Reg32 // 0x08
	CIR      regs.Reg32 // 0x0C
	AHB1RSTR regs.Reg32 // 0x10
	AHB2RSTR regs.Reg32 // 0x14
	_        [8]byte
	APB1RSTR regs.Reg32 // 0x20
	APB2RSTR regs.Reg32 // 0x24
	_        [8]byte
	AHB1ENR  regs.Reg32 // 0x30
	AHB2ENR  regs.Reg32 // 0x34
	_        [8]byte
	APB1ENR  regs.Reg32 // 0x40
	APB2ENR  regs.Reg32 // 0x44
}

// Clock enable bits.
const (
	gateGPIOA = 0 // AHB1ENR
	gateGPIOB = 1
	gateGPIOC = 2
	gateGPIOD = 3
	gateGPIOE = 4

	gateUSART2 = 17 // APB1ENR
	gateSPI2   = 14

	gateUSART1 = 4 // APB2ENR
	gateUSART6 = 5
	gateSPI1   = 12
)
