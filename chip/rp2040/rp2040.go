package rp2040

import (
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Chip is the table name reported by Routes and the clock tree.
const Chip = "rp2040"

// User bank pins. The RP2040 has a single flat bank of 30, so these
// parse and print in the GPIO7 spelling.
var (
	GP0  = pinmux.PinAt(0, 0)
	GP1  = pinmux.PinAt(0, 1)
	GP2  = pinmux.PinAt(0, 2)
	GP3  = pinmux.PinAt(0, 3)
	GP4  = pinmux.PinAt(0, 4)
	GP5  = pinmux.PinAt(0, 5)
	GP6  = pinmux.PinAt(0, 6)
	GP7  = pinmux.PinAt(0, 7)
	GP8  = pinmux.PinAt(0, 8)
	GP9  = pinmux.PinAt(0, 9)
	GP10 = pinmux.PinAt(0, 10)
	GP11 = pinmux.PinAt(0, 11)
	GP12 = pinmux.PinAt(0, 12)
	GP13 = pinmux.PinAt(0, 13)
	GP14 = pinmux.PinAt(0, 14)
	GP15 = pinmux.PinAt(0, 15)
	GP16 = pinmux.PinAt(0, 16)
	GP17 = pinmux.PinAt(0, 17)
	GP18 = pinmux.PinAt(0, 18)
	GP19 = pinmux.PinAt(0, 19)
	GP20 = pinmux.PinAt(0, 20)
	GP21 = pinmux.PinAt(0, 21)
	GP22 = pinmux.PinAt(0, 22)
	GP23 = pinmux.PinAt(0, 23)
	GP24 = pinmux.PinAt(0, 24)
	GP25 = pinmux.PinAt(0, 25)
	GP26 = pinmux.PinAt(0, 26)
	GP27 = pinmux.PinAt(0, 27)
	GP28 = pinmux.PinAt(0, 28)
	GP29 = pinmux.PinAt(0, 29)
)

// Peripheral instances, numbered as the silicon numbers them. Each PWM
// slice counts as its own instance because slices run independent
// dividers and wrap values.
var (
	UART0 = pinmux.PerID(pinmux.ClassUART, 0)
	UART1 = pinmux.PerID(pinmux.ClassUART, 1)
	SPI0  = pinmux.PerID(pinmux.ClassSPI, 0)
	SPI1  = pinmux.PerID(pinmux.ClassSPI, 1)
	I2C0  = pinmux.PerID(pinmux.ClassI2C, 0)
	I2C1  = pinmux.PerID(pinmux.ClassI2C, 1)

	PWM0 = pinmux.PerID(pinmux.ClassPWM, 0)
	PWM1 = pinmux.PerID(pinmux.ClassPWM, 1)
	PWM2 = pinmux.PerID(pinmux.ClassPWM, 2)
	PWM3 = pinmux.PerID(pinmux.ClassPWM, 3)
	PWM4 = pinmux.PerID(pinmux.ClassPWM, 4)
	PWM5 = pinmux.PerID(pinmux.ClassPWM, 5)
	PWM6 = pinmux.PerID(pinmux.ClassPWM, 6)
	PWM7 = pinmux.PerID(pinmux.ClassPWM, 7)
)

// pwmSlices indexes the slice instances by slice number.
var pwmSlices = [8]pinmux.PeripheralID{
	PWM0, PWM1, PWM2, PWM3, PWM4, PWM5, PWM6, PWM7,
}

// Clock sources.
const (
	SrcROSC   clktree.SourceID = 0
	SrcXOSC   clktree.SourceID = 1
	SrcPLLSYS clktree.SourceID = 2
	SrcPLLUSB clktree.SourceID = 3
)

// Clock domains. The PL011s and PL022s run from clk_peri, the PWM
// slices count clk_sys directly.
const (
	DomainSys  clktree.DomainID = 0
	DomainPeri clktree.DomainID = 1
)

// NewClockTree returns the chip's clock model in its reset state: the
// ring oscillator at its nominal 6.5 MHz drives both domains and the
// PLLs are not locked. Production setups lock PLL_SYS at 125 MHz and
// switch over.
func NewClockTree() *clktree.Tree {
	return clktree.MustNew(Chip,
		[]clktree.Source{
			{Name: "ROSC", Hz: 6_500_000},
			{Name: "XOSC", Hz: 12_000_000},
			{Name: "PLL_SYS", Hz: 125_000_000, NeedsLock: true},
			{Name: "PLL_USB", Hz: 48_000_000, NeedsLock: true},
		},
		[]clktree.Domain{
			{Name: "clk_sys", Div: 1},
			{Name: "clk_peri", Div: 1},
		},
		SrcROSC)
}
