//go:build tinygo

package samd21

// Data-path flag effects the SERCOM performs itself on silicon, so
// most of these are no-ops here; the host build applies the same
// effects to the simulated registers.

func (u *UART) flagEnabled() {} // DRE rises once the shifter is ready
func (u *UART) flagTxDone()  {} // TXC rises when the frame leaves the shifter
func (u *UART) flagRxRead()  {} // RXC clears on DATA reads

// clearIntFlags acknowledges the write-one-to-clear interrupt flags.
// DRE and RXC are read-only and track the data registers.
func (u *UART) clearIntFlags() { u.regs.INTFLAG.Set(intflagTXC) }

// clearRxErrors acknowledges the write-one-to-clear receive errors.
func (u *UART) clearRxErrors() {
	u.regs.STATUS.Set(statusPERR | statusFERR | statusBUFOVF)
}

func (s *SPI) flagEnabled()   {}
func (s *SPI) flagExchanged() {} // RXC rises when the exchange completes
func (s *SPI) flagRxRead()    {}

func (s *SPI) clearIntFlags() { s.regs.INTFLAG.Set(intflagTXC) }
func (s *SPI) clearBufError() { s.regs.STATUS.Set(statusBUFOVF) }
