package samd21

import (
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Chip is the table name reported by Routes and the clock tree.
const Chip = "samd21"

// Port A pins.
var (
	PA00 = pinmux.PinAt(0, 0)
	PA01 = pinmux.PinAt(0, 1)
	PA02 = pinmux.PinAt(0, 2)
	PA03 = pinmux.PinAt(0, 3)
	PA04 = pinmux.PinAt(0, 4)
	PA05 = pinmux.PinAt(0, 5)
	PA06 = pinmux.PinAt(0, 6)
	PA07 = pinmux.PinAt(0, 7)
	PA08 = pinmux.PinAt(0, 8)
	PA09 = pinmux.PinAt(0, 9)
	PA10 = pinmux.PinAt(0, 10)
	PA11 = pinmux.PinAt(0, 11)
	PA12 = pinmux.PinAt(0, 12)
	PA13 = pinmux.PinAt(0, 13)
	PA14 = pinmux.PinAt(0, 14)
	PA15 = pinmux.PinAt(0, 15)
	PA16 = pinmux.PinAt(0, 16)
	PA17 = pinmux.PinAt(0, 17)
	PA18 = pinmux.PinAt(0, 18)
	PA19 = pinmux.PinAt(0, 19)
	PA22 = pinmux.PinAt(0, 22)
	PA23 = pinmux.PinAt(0, 23)
	PA24 = pinmux.PinAt(0, 24)
	PA25 = pinmux.PinAt(0, 25)
	PA27 = pinmux.PinAt(0, 27)
	PA28 = pinmux.PinAt(0, 28)
	PA30 = pinmux.PinAt(0, 30)
	PA31 = pinmux.PinAt(0, 31)
)

// Peripheral instances. The logical instances map to disjoint SERCOMs
// so the claims registry mirrors the silicon: UART0 and SPI0 never
// compete for the same block.
var (
	UART0 = pinmux.PerID(pinmux.ClassUART, 0) // SERCOM0
	UART1 = pinmux.PerID(pinmux.ClassUART, 1) // SERCOM1
	SPI0  = pinmux.PerID(pinmux.ClassSPI, 0)  // SERCOM4
	SPI1  = pinmux.PerID(pinmux.ClassSPI, 1)  // SERCOM5
	PWM0  = pinmux.PerID(pinmux.ClassPWM, 0)  // TCC0
	PWM1  = pinmux.PerID(pinmux.ClassPWM, 1)  // TCC1
)

// Clock sources.
const (
	SrcOSC8M   clktree.SourceID = 0
	SrcDFLL48M clktree.SourceID = 1
	SrcXOSC32K clktree.SourceID = 2
)

// Clock domains. GCLK0 feeds the CPU and the SERCOM/TCC core clocks.
const (
	DomainGCLK0 clktree.DomainID = 0
	DomainAPBC  clktree.DomainID = 1
)

// NewClockTree returns the chip's clock model in its reset state: the
// 8 MHz internal oscillator drives everything, the DFLL is not locked.
func NewClockTree() *clktree.Tree {
	return clktree.MustNew(Chip,
		[]clktree.Source{
			{Name: "OSC8M", Hz: 8_000_000},
			{Name: "DFLL48M", Hz: 48_000_000, NeedsLock: true},
			{Name: "XOSC32K", Hz: 32_768},
		},
		[]clktree.Domain{
			{Name: "GCLK0", Div: 1},
			{Name: "APBC", Div: 1},
		},
		SrcOSC8M)
}
