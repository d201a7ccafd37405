//go:build !tinygo

package samd21

// Simulated SERCOM data path. No shifter exists on the host, so the
// silicon's flag effects are applied here: the transmitter consumes
// frames instantly, the one-deep receive register empties when read,
// and an SPI exchange completes as soon as it is written, with DATA
// echoing the frame. Tests feed the UART receive side by setting DATA
// and the RXC flag by hand.

func (u *UART) flagEnabled() { u.regs.INTFLAG.SetBits(intflagDRE) }
func (u *UART) flagTxDone()  { u.regs.INTFLAG.SetBits(intflagTXC) }
func (u *UART) flagRxRead()  { u.regs.INTFLAG.ClearBits(intflagRXC) }

func (u *UART) clearIntFlags() {
	u.regs.INTFLAG.ClearBits(intflagDRE | intflagTXC | intflagRXC)
}

func (u *UART) clearRxErrors() {
	u.regs.STATUS.ClearBits(statusPERR | statusFERR | statusBUFOVF)
}

func (s *SPI) flagEnabled()   { s.regs.INTFLAG.SetBits(intflagDRE) }
func (s *SPI) flagExchanged() { s.regs.INTFLAG.SetBits(intflagRXC) }
func (s *SPI) flagRxRead()    { s.regs.INTFLAG.ClearBits(intflagRXC) }

func (s *SPI) clearIntFlags() {
	s.regs.INTFLAG.ClearBits(intflagDRE | intflagTXC | intflagRXC)
}

func (s *SPI) clearBufError() { s.regs.STATUS.ClearBits(statusBUFOVF) }
