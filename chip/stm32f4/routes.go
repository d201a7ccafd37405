package stm32f4

import "github.com/Alloy-Embedded/alloy-sub003/pinmux"

// Alternate function numbers.
const (
	af5 pinmux.AltFunc = 5 // SPI1/SPI2
	af7 pinmux.AltFunc = 7 // USART1/USART2
	af8 pinmux.AltFunc = 8 // USART6
)

// Routes is the pin mux table. The F4 has no pad layouts to encode, so
// Unit stays zero; a pin may still carry different peripherals under
// different AF numbers (PA11 is USART1 CTS under AF7 and USART6 TX
// under AF8).
var Routes = pinmux.MustTable(Chip, []pinmux.Route{
	// USART1 on APB2.
	{Pin: PA9, Per: UART1, Sig: pinmux.SigUARTTX, Alt: af7},
	{Pin: PB6, Per: UART1, Sig: pinmux.SigUARTTX, Alt: af7},
	{Pin: PA10, Per: UART1, Sig: pinmux.SigUARTRX, Alt: af7},
	{Pin: PB7, Per: UART1, Sig: pinmux.SigUARTRX, Alt: af7},
	{Pin: PA12, Per: UART1, Sig: pinmux.SigUARTRTS, Alt: af7},
	{Pin: PA11, Per: UART1, Sig: pinmux.SigUARTCTS, Alt: af7},

	// USART2 on APB1.
	{Pin: PA2, Per: UART2, Sig: pinmux.SigUARTTX, Alt: af7},
	{Pin: PA3, Per: UART2, Sig: pinmux.SigUARTRX, Alt: af7},
	{Pin: PA1, Per: UART2, Sig: pinmux.SigUARTRTS, Alt: af7},
	{Pin: PA0, Per: UART2, Sig: pinmux.SigUARTCTS, Alt: af7},

	// USART6 on APB2.
	{Pin: PC6, Per: UART6, Sig: pinmux.SigUARTTX, Alt: af8},
	{Pin: PA11, Per: UART6, Sig: pinmux.SigUARTTX, Alt: af8},
	{Pin: PC7, Per: UART6, Sig: pinmux.SigUARTRX, Alt: af8},
	{Pin: PA12, Per: UART6, Sig: pinmux.SigUARTRX, Alt: af8},

	// SPI1 on APB2.
	{Pin: PA5, Per: SPI1, Sig: pinmux.SigSPISCK, Alt: af5},
	{Pin: PB3, Per: SPI1, Sig: pinmux.SigSPISCK, Alt: af5},
	{Pin: PA7, Per: SPI1, Sig: pinmux.SigSPISDO, Alt: af5},
	{Pin: PB5, Per: SPI1, Sig: pinmux.SigSPISDO, Alt: af5},
	{Pin: PA6, Per: SPI1, Sig: pinmux.SigSPISDI, Alt: af5},
	{Pin: PB4, Per: SPI1, Sig: pinmux.SigSPISDI, Alt: af5},
	{Pin: PA4, Per: SPI1, Sig: pinmux.SigSPICS, Alt: af5},
	{Pin: PA15, Per: SPI1, Sig: pinmux.SigSPICS, Alt: af5},

	// SPI2 on APB1.
	{Pin: PB13, Per: SPI2, Sig: pinmux.SigSPISCK, Alt: af5},
	{Pin: PB15, Per: SPI2, Sig: pinmux.SigSPISDO, Alt: af5},
	{Pin: PB14, Per: SPI2, Sig: pinmux.SigSPISDI, Alt: af5},
	{Pin: PB12, Per: SPI2, Sig: pinmux.SigSPICS, Alt: af5},
})
