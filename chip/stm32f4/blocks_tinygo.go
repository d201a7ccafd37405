//go:build tinygo

package stm32f4

import "unsafe"

// Register blocks at their silicon bus addresses.
var (
	GPIOA = (*GPIORegs)(unsafe.Pointer(uintptr(0x4002_0000)))
	GPIOB = (*GPIORegs)(unsafe.Pointer(uintptr(0x4002_0400)))
	GPIOC = (*GPIORegs)(unsafe.Pointer(uintptr(0x4002_0800)))
	GPIOD = (*GPIORegs)(unsafe.Pointer(uintptr(0x4002_0C00)))
	GPIOE = (*GPIORegs)(unsafe.Pointer(uintptr(0x4002_1000)))

	RCC = (*RCCRegs)(unsafe.Pointer(uintptr(0x4002_3800)))

	USART1Regs = (*USARTRegs)(unsafe.Pointer(uintptr(0x4001_1000)))
	USART2Regs = (*USARTRegs)(unsafe.Pointer(uintptr(0x4000_4400)))
	USART6Regs = (*USARTRegs)(unsafe.Pointer(uintptr(0x4001_1400)))

	SPI1Regs = (*SPIRegs)(unsafe.Pointer(uintptr(0x4001_3000)))
	SPI2Regs = (*SPIRegs)(unsafe.Pointer(uintptr(0x4000_3800)))
)
