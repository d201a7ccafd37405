//go:build tinygo

package stm32f4

// On silicon the SR flags advance on their own as frames move through
// the shifters, so most of these helpers do nothing. The error clear
// sequences are the exception: they are the register read patterns the
// reference manual prescribes.

// TXE and TC hold 1 from reset; enabling changes nothing.
func (u *UART) flagEnabled() {}

// TC rises when the shifter drains.
func (u *UART) flagTxDone() {}

// The DR read already emptied the holding register.
func (u *UART) flagRxRead() {}

// clearRxErrors runs the PE/FE/NF/ORE clear sequence: read SR, then
// read DR. The DR read also discards the frame the error arrived with.
func (u *UART) clearRxErrors() {
	u.regs.SR.Get()
	u.regs.DR.Get()
}

// TXE rises as soon as the block enables.
func (s *SPI) flagEnabled() {}

// RXNE rises when the exchange completes.
func (s *SPI) flagExchanged() {}

// The DR read already emptied the receive register.
func (s *SPI) flagRxRead() {}

// clearOverrun runs the OVR clear sequence: read DR, then read SR.
func (s *SPI) clearOverrun() {
	s.regs.DR.Get()
	s.regs.SR.Get()
}
