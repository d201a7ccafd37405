//go:build tinygo

package rp2040

// Hardware-side effects that exist only on silicon. The host build
// (status_host.go) folds the same effects onto the simulated blocks.

// unresetBlocks releases peripherals from reset and waits for them to
// come out. Bits already released report done immediately, so the wait
// is free on repeat calls.
func unresetBlocks(mask uint32) {
	Resets.RESET.ClearBits(mask)
	for Resets.RESETDONE.Get()&mask != mask {
	}
}

// The PL011 keeps FR hardware-updated, so the enable and data-path
// hooks have nothing left to do.

func (u *UART) flagEnabled() {}
func (u *UART) flagRxRead()  {}

func (s *SPI) flagEnabled()   {}
func (s *SPI) flagExchanged() {}
func (s *SPI) flagRxRead()    {}

// drainRx empties the PL022 receive FIFO.
func (s *SPI) drainRx() {
	for s.regs.SR.HasBits(srRNE) {
		s.regs.DR.Get()
	}
}
