package stm32f4

import (
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Chip is the table name reported by Routes and the clock tree.
const Chip = "stm32f4"

// Port A pins.
var (
	PA0  = pinmux.PinAt(0, 0)
	PA1  = pinmux.PinAt(0, 1)
	PA2  = pinmux.PinAt(0, 2)
	PA3  = pinmux.PinAt(0, 3)
	PA4  = pinmux.PinAt(0, 4)
	PA5  = pinmux.PinAt(0, 5)
	PA6  = pinmux.PinAt(0, 6)
	PA7  = pinmux.PinAt(0, 7)
	PA8  = pinmux.PinAt(0, 8)
	PA9  = pinmux.PinAt(0, 9)
	PA10 = pinmux.PinAt(0, 10)
	PA11 = pinmux.PinAt(0, 11)
	PA12 = pinmux.PinAt(0, 12)
	PA13 = pinmux.PinAt(0, 13)
	PA14 = pinmux.PinAt(0, 14)
	PA15 = pinmux.PinAt(0, 15)
)

// Port B pins.
var (
	PB0  = pinmux.PinAt(1, 0)
	PB1  = pinmux.PinAt(1, 1)
	PB2  = pinmux.PinAt(1, 2)
	PB3  = pinmux.PinAt(1, 3)
	PB4  = pinmux.PinAt(1, 4)
	PB5  = pinmux.PinAt(1, 5)
	PB6  = pinmux.PinAt(1, 6)
	PB7  = pinmux.PinAt(1, 7)
	PB8  = pinmux.PinAt(1, 8)
	PB9  = pinmux.PinAt(1, 9)
	PB10 = pinmux.PinAt(1, 10)
	PB12 = pinmux.PinAt(1, 12)
	PB13 = pinmux.PinAt(1, 13)
	PB14 = pinmux.PinAt(1, 14)
	PB15 = pinmux.PinAt(1, 15)
)

// Port C pins.
var (
	PC6  = pinmux.PinAt(2, 6)
	PC7  = pinmux.PinAt(2, 7)
	PC13 = pinmux.PinAt(2, 13)
)

// Peripheral instances, numbered as the silicon numbers them.
var (
	UART1 = pinmux.PerID(pinmux.ClassUART, 1) // USART1, APB2
	UART2 = pinmux.PerID(pinmux.ClassUART, 2) // USART2, APB1
	UART6 = pinmux.PerID(pinmux.ClassUART, 6) // USART6, APB2
	SPI1  = pinmux.PerID(pinmux.ClassSPI, 1)  // APB2
	SPI2  = pinmux.PerID(pinmux.ClassSPI, 2)  // APB1
)

// Clock sources.
const (
	SrcHSI clktree.SourceID = 0
	SrcHSE clktree.SourceID = 1
	SrcPLL clktree.SourceID = 2
)

// Clock domains. Peripheral clocks hang off the two APB buses.
const (
	DomainAHB  clktree.DomainID = 0
	DomainAPB1 clktree.DomainID = 1
	DomainAPB2 clktree.DomainID = 2
)

// NewClockTree returns the chip's clock model in its reset state: the
// 16 MHz internal RC drives everything through divide-by-1 buses, the
// PLL is not locked. Software switching to the 84 MHz PLL is expected
// to slow APB1 down to its 42 MHz ceiling first.
func NewClockTree() *clktree.Tree {
	return clktree.MustNew(Chip,
		[]clktree.Source{
			{Name: "HSI", Hz: 16_000_000},
			{Name: "HSE", Hz: 8_000_000},
			{Name: "PLL", Hz: 84_000_000, NeedsLock: true},
		},
		[]clktree.Domain{
			{Name: "AHB", Div: 1},
			{Name: "APB1", Div: 1},
			{Name: "APB2", Div: 1},
		},
		SrcHSI)
}
