//go:build tinygo

package samd21

import "unsafe"

// Register blocks at their silicon addresses.
var (
	PORT = (*PortRegs)(unsafe.Pointer(uintptr(0x41004400)))
	PM   = (*PmRegs)(unsafe.Pointer(uintptr(0x40000400)))

	SERCOM0USART = (*USARTRegs)(unsafe.Pointer(uintptr(0x42000800)))
	SERCOM1USART = (*USARTRegs)(unsafe.Pointer(uintptr(0x42000C00)))
	SERCOM4SPI   = (*SPIRegs)(unsafe.Pointer(uintptr(0x42001800)))
	SERCOM5SPI   = (*SPIRegs)(unsafe.Pointer(uintptr(0x42001C00)))

	TCC0 = (*TCCRegs)(unsafe.Pointer(uintptr(0x42002000)))
	TCC1 = (*TCCRegs)(unsafe.Pointer(uintptr(0x42002400)))
)
