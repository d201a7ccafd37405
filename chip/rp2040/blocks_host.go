//go:build !tinygo

package rp2040

// Register blocks as plain memory: the same layouts the silicon
// decodes, simulated for host tests and tooling.
var (
	IOBank0   = new(IOBank0Regs)
	PadsBank0 = new(PadsBank0Regs)
	SIO       = new(SIORegs)
	Resets    = new(ResetsRegs)

	UART0Regs = new(UARTRegs)
	UART1Regs = new(UARTRegs)

	SPI0Regs = new(SPIRegs)
	SPI1Regs = new(SPIRegs)

	PWMB = new(PWMRegs)
)
