package stm32f4

import (
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/spi"
)

// SPI is one SPI block in master mode, implementing spi.Device. SPI1
// clocks from APB2, SPI2 from APB1. CR1 holds the rate field next to
// the frame bits, so ApplyRate and SetFrame each touch only their own
// part of the register.
type SPI struct {
	regs *SPIRegs
	id   pinmux.PeripheralID
	gate uint32
	apb1 bool
	tree *clktree.Tree

	hasCS bool
}

// NewSPI1 binds SPI1 on APB2.
func NewSPI1(tree *clktree.Tree) *SPI {
	return &SPI{regs: SPI1Regs, id: SPI1, gate: gateSPI1, tree: tree}
}

// NewSPI2 binds SPI2 on APB1.
func NewSPI2(tree *clktree.Tree) *SPI {
	return &SPI{regs: SPI2Regs, id: SPI2, gate: gateSPI2, apb1: true, tree: tree}
}

func (s *SPI) ID() pinmux.PeripheralID { return s.id }
func (s *SPI) Table() *pinmux.Table    { return Routes }

// ClockHz returns the instance's APB bus clock.
func (s *SPI) ClockHz() (uint32, error) {
	if s.apb1 {
		return s.tree.Hz(DomainAPB1)
	}
	return s.tree.Hz(DomainAPB2)
}

// PlanRate picks a BR code with sck = srcHz >> (BR+1). A slave accepts
// any clock up to its limit, so the walk takes the fastest power-of-two
// tap that does not exceed the request.
func (s *SPI) PlanRate(srcHz, freq uint32) (spi.RatePlan, error) {
	if srcHz == 0 || freq == 0 {
		return spi.RatePlan{}, errcode.New(errcode.InvalidConfig, "stm32f4.PlanRate", "zero frequency")
	}
	for n := uint32(0); n <= 7; n++ {
		actual := srcHz >> (n + 1)
		if actual == 0 {
			break
		}
		if actual <= freq {
			return spi.RatePlan{A: n, Actual: actual}, nil
		}
	}
	return spi.RatePlan{}, errcode.New(errcode.InvalidConfig, "stm32f4.PlanRate", "frequency below divider range")
}

// GateOn opens the APB clock gate and resets the chip select
// bookkeeping for a fresh bring-up.
func (s *SPI) GateOn() {
	if s.apb1 {
		RCC.APB1ENR.SetBits(1 << s.gate)
	} else {
		RCC.APB2ENR.SetBits(1 << s.gate)
	}
	s.tree.GateOn(s.id)
	s.hasCS = false
}

func (s *SPI) Disable() {
	s.regs.CR1.ClearBits(spiSPE)
}

// MuxPin hands the pin to the SPI block and records whether a hardware
// NSS pin is in play.
func (s *SPI) MuxPin(r pinmux.Route) {
	if p, ok := portFor(r.Pin); ok {
		p.muxPin(r.Pin.Index(), r.Alt)
	}
	if r.Sig == pinmux.SigSPICS {
		s.hasCS = true
	}
}

// ApplyRate updates the BR field in place. The divider must not change
// under a live transfer, so reprogramming a running bus bounces SPE
// around the write; the frame bits sharing CR1 stay untouched.
func (s *SPI) ApplyRate(p spi.RatePlan) {
	enabled := s.regs.CR1.HasBits(spiSPE)
	if enabled {
		s.Disable()
	}
	spiBR.Update(&s.regs.CR1, p.A)
	if enabled {
		s.Enable()
	}
}

// SetFrame composes CR1 and CR2, carrying the BR field ApplyRate wrote
// forward. Without a hardware NSS pin the internal select is held high
// in software so the block stays master.
func (s *SPI) SetFrame(mode spi.Mode, order spi.BitOrder) error {
	cr1 := spiBR.Enc(spiBR.Read(&s.regs.CR1)) | spiMSTR
	if mode.CPOL() == 1 {
		cr1 |= spiCPOL
	}
	if mode.CPHA() == 1 {
		cr1 |= spiCPHA
	}
	if order == spi.LSBFirst {
		cr1 |= spiLSBFIRST
	}
	var cr2 uint32
	if s.hasCS {
		cr2 |= spiSSOE
	} else {
		cr1 |= spiSSM | spiSSI
	}
	s.regs.CR1.Set(cr1)
	s.regs.CR2.Set(cr2)
	return nil
}

// ClearStatus drops a stale overrun. The OVR clear sequence reads DR
// then SR, which also empties the receive register.
func (s *SPI) ClearStatus() {
	s.clearOverrun()
}

func (s *SPI) Enable() {
	s.regs.CR1.SetBits(spiSPE)
	s.flagEnabled()
}

func (s *SPI) TxEmpty() bool { return s.regs.SR.HasBits(spiTXE) }
func (s *SPI) RxReady() bool { return s.regs.SR.HasBits(spiRXNE) }

func (s *SPI) WriteData(b byte) {
	s.regs.DR.Set(uint32(b))
	s.flagExchanged()
}

func (s *SPI) ReadData() byte {
	b := byte(s.regs.DR.Get())
	s.flagRxRead()
	return b
}
