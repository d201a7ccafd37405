//go:build !tinygo

package stm32f4

// Simulated USART and SPI data paths: the transmitter consumes frames
// instantly, the one-deep receive register empties when read, and an
// SPI exchange completes as soon as it is written, with DR echoing the
// frame. Tests feed the UART receive side by setting DR and the RXNE
// flag by hand.

func (u *UART) flagEnabled() { u.regs.SR.SetBits(srTXE | srTC) }
func (u *UART) flagTxDone()  { u.regs.SR.SetBits(srTXE | srTC) }
func (u *UART) flagRxRead()  { u.regs.SR.ClearBits(srRXNE) }

func (u *UART) clearRxErrors() {
	u.regs.SR.ClearBits(srPE | srFE | srNF | srORE | srRXNE)
}

func (s *SPI) flagEnabled()   { s.regs.SR.SetBits(spiTXE) }
func (s *SPI) flagExchanged() { s.regs.SR.SetBits(spiRXNE) }
func (s *SPI) flagRxRead()    { s.regs.SR.ClearBits(spiRXNE) }

func (s *SPI) clearOverrun() {
	s.regs.SR.ClearBits(spiOVR | spiRXNE)
}
