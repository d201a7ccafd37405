package rp2040

import (
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/spi"
)

// SPI is one PL022 in Motorola master mode. The generic driver owns
// ordering and ownership, this type owns the PL022 register encoding.
// When a CS pin is routed the PL022 toggles it around each frame by
// itself; there is no software-select fallback bit to manage.
type SPI struct {
	regs *SPIRegs
	id   pinmux.PeripheralID
	rst  uint32
	tree *clktree.Tree
}

// NewSPI0 binds SPI0.
func NewSPI0(tree *clktree.Tree) *SPI {
	return &SPI{regs: SPI0Regs, id: SPI0, rst: rstSPI0, tree: tree}
}

// NewSPI1 binds SPI1.
func NewSPI1(tree *clktree.Tree) *SPI {
	return &SPI{regs: SPI1Regs, id: SPI1, rst: rstSPI1, tree: tree}
}

func (s *SPI) ID() pinmux.PeripheralID { return s.id }
func (s *SPI) Table() *pinmux.Table    { return Routes }

func (s *SPI) ClockHz() (uint32, error) { return s.tree.Hz(DomainPeri) }

// PlanRate picks the even prescale and the SCR postdivider:
// rate = clk_peri/(CPSDVSR*(1+SCR)). The walk takes the first prescale
// that can reach the request at full postdivision, then shrinks the
// postdivider as far as the request allows, so the achieved rate is the
// grid's closest from below. Requests above clk_peri/2 saturate at the
// fastest setting rather than fail.
func (s *SPI) PlanRate(srcHz, freq uint32) (spi.RatePlan, error) {
	if srcHz == 0 || freq == 0 {
		return spi.RatePlan{}, errcode.New(errcode.InvalidConfig, "rp2040.PlanRate", "zero frequency")
	}
	for cps := uint32(2); cps <= 254; cps += 2 {
		if srcHz/(cps*256) > freq {
			continue
		}
		post := uint32(256)
		for post > 1 && srcHz/(cps*(post-1)) <= freq {
			post--
		}
		return spi.RatePlan{A: cps, B: post - 1, Actual: srcHz / (cps * post)}, nil
	}
	return spi.RatePlan{}, errcode.New(errcode.InvalidConfig, "rp2040.PlanRate", "frequency below divider range")
}

// GateOn releases the PL022 from reset.
func (s *SPI) GateOn() {
	unresetBlocks(s.rst)
	s.tree.GateOn(s.id)
}

func (s *SPI) Disable() {
	s.regs.CR1.ClearBits(spiSSE)
}

func (s *SPI) MuxPin(r pinmux.Route) {
	Bank0().muxPin(r.Pin.Index(), r.Alt)
}

// ApplyRate writes the prescale and postdivider. SCR shares CR0 with
// the frame format bits, so the rate folds in place; reprogramming a
// live bus bounces SSE around the write.
func (s *SPI) ApplyRate(p spi.RatePlan) {
	enabled := s.regs.CR1.HasBits(spiSSE)
	if enabled {
		s.Disable()
	}
	s.regs.CPSR.Set(p.A)
	spiSCR.Update(&s.regs.CR0, p.B)
	if enabled {
		s.Enable()
	}
}

// SetFrame composes CR0 for 8-bit Motorola frames, preserving the SCR
// field ApplyRate wrote. The PL022 shifts MSB first only.
func (s *SPI) SetFrame(mode spi.Mode, order spi.BitOrder) error {
	if order == spi.LSBFirst {
		return errcode.New(errcode.Unsupported, "rp2040.SetFrame", "LSB-first order")
	}
	cr0 := spiSCR.Enc(spiSCR.Read(&s.regs.CR0)) | spiDSS.Enc(7)
	if mode.CPOL() == 1 {
		cr0 |= spiSPO
	}
	if mode.CPHA() == 1 {
		cr0 |= spiSPH
	}
	s.regs.CR0.Set(cr0)
	s.regs.CR1.Set(0) // master, loopback off
	return nil
}

// ClearStatus drains frames left in the receive FIFO and acknowledges
// the overrun and timeout interrupts.
func (s *SPI) ClearStatus() {
	s.drainRx()
	s.regs.ICR.Set(spiIcrAll)
}

func (s *SPI) Enable() {
	s.regs.CR1.SetBits(spiSSE)
	s.flagEnabled()
}

func (s *SPI) TxEmpty() bool { return s.regs.SR.HasBits(srTNF) }
func (s *SPI) RxReady() bool { return s.regs.SR.HasBits(srRNE) }

func (s *SPI) WriteData(b byte) {
	s.regs.DR.Set(uint32(b))
	s.flagExchanged()
}

func (s *SPI) ReadData() byte {
	b := byte(s.regs.DR.Get())
	s.flagRxRead()
	return b
}
