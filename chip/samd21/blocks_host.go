//go:build !tinygo

package samd21

// Register blocks as plain memory: the same layouts the silicon
// decodes, simulated for host tests and tooling.
var (
	PORT = new(PortRegs)
	PM   = new(PmRegs)

	SERCOM0USART = new(USARTRegs)
	SERCOM1USART = new(USARTRegs)
	SERCOM4SPI   = new(SPIRegs)
	SERCOM5SPI   = new(SPIRegs)

	TCC0 = new(TCCRegs)
	TCC1 = new(TCCRegs)
)
