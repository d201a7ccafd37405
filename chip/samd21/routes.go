package samd21

import "github.com/Alloy-Embedded/alloy-sub003/pinmux"

// Peripheral mux functions, PMUX nibble values.
const (
	funcC pinmux.AltFunc = 2 // SERCOM
	funcD pinmux.AltFunc = 3 // SERCOM alternate
	funcE pinmux.AltFunc = 4 // TCC
)

// Routes is the pin mux table. Unit carries the SERCOM pad or TCC
// waveform output. USART TX routes exist only on pads 0 and 2, the two
// the transmitter can drive; RX stays on pads 1 and 3 so a legal
// assignment can never collide with TX. Flow control pins sit on the
// pads the TXPO=2 layout demands.
var Routes = pinmux.MustTable(Chip, []pinmux.Route{
	// SERCOM0 as UART0.
	{Pin: PA04, Per: UART0, Sig: pinmux.SigUARTTX, Alt: funcD, Unit: 0},
	{Pin: PA06, Per: UART0, Sig: pinmux.SigUARTTX, Alt: funcD, Unit: 2},
	{Pin: PA08, Per: UART0, Sig: pinmux.SigUARTTX, Alt: funcC, Unit: 0},
	{Pin: PA10, Per: UART0, Sig: pinmux.SigUARTTX, Alt: funcC, Unit: 2},
	{Pin: PA05, Per: UART0, Sig: pinmux.SigUARTRX, Alt: funcD, Unit: 1},
	{Pin: PA07, Per: UART0, Sig: pinmux.SigUARTRX, Alt: funcD, Unit: 3},
	{Pin: PA09, Per: UART0, Sig: pinmux.SigUARTRX, Alt: funcC, Unit: 1},
	{Pin: PA11, Per: UART0, Sig: pinmux.SigUARTRX, Alt: funcC, Unit: 3},
	{Pin: PA06, Per: UART0, Sig: pinmux.SigUARTRTS, Alt: funcD, Unit: 2},
	{Pin: PA10, Per: UART0, Sig: pinmux.SigUARTRTS, Alt: funcC, Unit: 2},
	{Pin: PA07, Per: UART0, Sig: pinmux.SigUARTCTS, Alt: funcD, Unit: 3},
	{Pin: PA11, Per: UART0, Sig: pinmux.SigUARTCTS, Alt: funcC, Unit: 3},

	// SERCOM1 as UART1.
	{Pin: PA16, Per: UART1, Sig: pinmux.SigUARTTX, Alt: funcC, Unit: 0},
	{Pin: PA18, Per: UART1, Sig: pinmux.SigUARTTX, Alt: funcC, Unit: 2},
	{Pin: PA17, Per: UART1, Sig: pinmux.SigUARTRX, Alt: funcC, Unit: 1},
	{Pin: PA19, Per: UART1, Sig: pinmux.SigUARTRX, Alt: funcC, Unit: 3},
	{Pin: PA18, Per: UART1, Sig: pinmux.SigUARTRTS, Alt: funcC, Unit: 2},
	{Pin: PA19, Per: UART1, Sig: pinmux.SigUARTCTS, Alt: funcC, Unit: 3},

	// SERCOM4 as SPI0 on PA12..PA15.
	{Pin: PA13, Per: SPI0, Sig: pinmux.SigSPISCK, Alt: funcD, Unit: 1},
	{Pin: PA15, Per: SPI0, Sig: pinmux.SigSPISCK, Alt: funcD, Unit: 3},
	{Pin: PA12, Per: SPI0, Sig: pinmux.SigSPISDO, Alt: funcD, Unit: 0},
	{Pin: PA14, Per: SPI0, Sig: pinmux.SigSPISDO, Alt: funcD, Unit: 2},
	{Pin: PA12, Per: SPI0, Sig: pinmux.SigSPISDI, Alt: funcD, Unit: 0},
	{Pin: PA13, Per: SPI0, Sig: pinmux.SigSPISDI, Alt: funcD, Unit: 1},
	{Pin: PA14, Per: SPI0, Sig: pinmux.SigSPISDI, Alt: funcD, Unit: 2},
	{Pin: PA15, Per: SPI0, Sig: pinmux.SigSPISDI, Alt: funcD, Unit: 3},
	{Pin: PA13, Per: SPI0, Sig: pinmux.SigSPICS, Alt: funcD, Unit: 1},
	{Pin: PA14, Per: SPI0, Sig: pinmux.SigSPICS, Alt: funcD, Unit: 2},

	// SERCOM5 as SPI1 on PA22..PA25 (function D).
	{Pin: PA23, Per: SPI1, Sig: pinmux.SigSPISCK, Alt: funcD, Unit: 1},
	{Pin: PA25, Per: SPI1, Sig: pinmux.SigSPISCK, Alt: funcD, Unit: 3},
	{Pin: PA22, Per: SPI1, Sig: pinmux.SigSPISDO, Alt: funcD, Unit: 0},
	{Pin: PA24, Per: SPI1, Sig: pinmux.SigSPISDO, Alt: funcD, Unit: 2},
	{Pin: PA22, Per: SPI1, Sig: pinmux.SigSPISDI, Alt: funcD, Unit: 0},
	{Pin: PA23, Per: SPI1, Sig: pinmux.SigSPISDI, Alt: funcD, Unit: 1},
	{Pin: PA24, Per: SPI1, Sig: pinmux.SigSPISDI, Alt: funcD, Unit: 2},
	{Pin: PA25, Per: SPI1, Sig: pinmux.SigSPISDI, Alt: funcD, Unit: 3},
	{Pin: PA23, Per: SPI1, Sig: pinmux.SigSPICS, Alt: funcD, Unit: 1},
	{Pin: PA24, Per: SPI1, Sig: pinmux.SigSPICS, Alt: funcD, Unit: 2},

	// TCC0/TCC1 waveform outputs as PWM0/PWM1.
	{Pin: PA08, Per: PWM0, Sig: pinmux.SigPWMOut, Alt: funcE, Unit: 0},
	{Pin: PA09, Per: PWM0, Sig: pinmux.SigPWMOut, Alt: funcE, Unit: 1},
	{Pin: PA06, Per: PWM1, Sig: pinmux.SigPWMOut, Alt: funcE, Unit: 0},
	{Pin: PA07, Per: PWM1, Sig: pinmux.SigPWMOut, Alt: funcE, Unit: 1},
})
