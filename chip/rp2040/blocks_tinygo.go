//go:build tinygo

package rp2040

import "unsafe"

// Register blocks at their silicon bus addresses.
var (
	IOBank0   = (*IOBank0Regs)(unsafe.Pointer(uintptr(0x4001_4000)))
	PadsBank0 = (*PadsBank0Regs)(unsafe.Pointer(uintptr(0x4001_C000)))
	SIO       = (*SIORegs)(unsafe.Pointer(uintptr(0xD000_0000)))
	Resets    = (*ResetsRegs)(unsafe.Pointer(uintptr(0x4000_C000)))

	UART0Regs = (*UARTRegs)(unsafe.Pointer(uintptr(0x4003_4000)))
	UART1Regs = (*UARTRegs)(unsafe.Pointer(uintptr(0x4003_8000)))

	SPI0Regs = (*SPIRegs)(unsafe.Pointer(uintptr(0x4003_C000)))
	SPI1Regs = (*SPIRegs)(unsafe.Pointer(uintptr(0x4004_0000)))

	PWMB = (*PWMRegs)(unsafe.Pointer(uintptr(0x4005_0000)))
)
