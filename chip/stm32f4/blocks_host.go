//go:build !tinygo

package stm32f4

// Register blocks as plain memory: the same layouts the silicon
// decodes, simulated for host tests and tooling.
var (
	GPIOA = new(GPIORegs)
	GPIOB = new(GPIORegs)
	GPIOC = new(GPIORegs)
	GPIOD = new(GPIORegs)
	GPIOE = new(GPIORegs)

	RCC = new(RCCRegs)

	USART1Regs = new(USARTRegs)
	USART2Regs = new(USARTRegs)
	USART6Regs = new(USARTRegs)

	SPI1Regs = new(SPIRegs)
	SPI2Regs = new(SPIRegs)
)
