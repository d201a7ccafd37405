//go:build !tinygo

package rp2040

// Simulated counterparts of the silicon-only effects in
// status_tinygo.go, applied to the backing memory so host tests and
// tooling observe the flag protocol the drivers expect. The UART data
// path behaves as a one-deep loop: tests feed the receive side by
// setting DR and clearing RXFE by hand. The SPI data path echoes each
// written frame, DR holding it until read back.

// unresetBlocks releases peripherals from reset. The simulated blocks
// come out instantly, so RESETDONE follows RESET in the same call.
func unresetBlocks(mask uint32) {
	Resets.RESET.ClearBits(mask)
	Resets.RESETDONE.SetBits(mask)
}

// flagEnabled establishes the flag state enabling leaves behind with
// FEN set: both FIFOs empty, transmitter idle.
func (u *UART) flagEnabled() {
	u.regs.FR.Set(frTXFE | frRXFE)
}

func (u *UART) flagRxRead() {
	u.regs.FR.SetBits(frRXFE)
}

// flagEnabled establishes the idle PL022 status: transmit FIFO empty
// with space, receive FIFO empty.
func (s *SPI) flagEnabled() {
	s.regs.SR.Set(srTFE | srTNF)
}

// flagExchanged completes the full-duplex exchange: the written frame
// sits in DR, so the receive FIFO reports it.
func (s *SPI) flagExchanged() {
	s.regs.SR.SetBits(srRNE)
}

func (s *SPI) flagRxRead() {
	s.regs.SR.ClearBits(srRNE)
}

func (s *SPI) drainRx() {
	s.regs.SR.ClearBits(srRNE)
}
