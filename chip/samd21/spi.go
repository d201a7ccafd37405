package samd21

import (
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/spi"
)

// SPI is one SERCOM bound in SPI master mode, implementing spi.Device.
type SPI struct {
	regs *SPIRegs
	id   pinmux.PeripheralID
	gate uint32
	tree *clktree.Tree

	sckPad, sdoPad uint8
	sdiPad, csPad  uint8
}

// NewSPI0 binds SERCOM4 in SPI master mode.
func NewSPI0(tree *clktree.Tree) *SPI {
	return &SPI{regs: SERCOM4SPI, id: SPI0, gate: gateSERCOM4, tree: tree}
}

// NewSPI1 binds SERCOM5 in SPI master mode.
func NewSPI1(tree *clktree.Tree) *SPI {
	return &SPI{regs: SERCOM5SPI, id: SPI1, gate: gateSERCOM5, tree: tree}
}

func (s *SPI) ID() pinmux.PeripheralID { return s.id }
func (s *SPI) Table() *pinmux.Table    { return Routes }

// ClockHz returns the SERCOM core clock, fed from GCLK0.
func (s *SPI) ClockHz() (uint32, error) { return s.tree.Hz(DomainGCLK0) }

// PlanRate encodes an SCK setting with sck = srcHz/(2*(BAUD+1)). A
// slave accepts any clock up to its limit, so the divisor rounds up
// and the achieved rate never exceeds the request.
func (s *SPI) PlanRate(srcHz, freq uint32) (spi.RatePlan, error) {
	if srcHz == 0 || freq == 0 {
		return spi.RatePlan{}, errcode.New(errcode.InvalidConfig, "samd21.PlanRate", "zero frequency")
	}
	half := 2 * uint64(freq)
	h := (uint64(srcHz) + half - 1) / half
	if h < 1 {
		h = 1
	}
	if h > 256 {
		return spi.RatePlan{}, errcode.New(errcode.InvalidConfig, "samd21.PlanRate", "frequency below divider range")
	}
	return spi.RatePlan{A: uint32(h - 1), Actual: uint32(uint64(srcHz) / (2 * h))}, nil
}

// GateOn opens the APBC clock gate and resets the pad bookkeeping for
// a fresh bring-up.
func (s *SPI) GateOn() {
	PM.APBCMASK.SetBits(1 << s.gate)
	s.tree.GateOn(s.id)
	s.sckPad, s.sdoPad = padNone, padNone
	s.sdiPad, s.csPad = padNone, padNone
}

func (s *SPI) Disable() {
	if !s.regs.CTRLA.HasBits(ctrlaENABLE.Mask()) {
		return
	}
	s.regs.CTRLA.ClearBits(ctrlaENABLE.Mask())
	s.syncWait(syncENABLE)
}

// MuxPin hands the pin to the SERCOM and records the pad; SetFrame
// turns the pads into DOPO/DIPO.
func (s *SPI) MuxPin(r pinmux.Route) {
	if p, ok := portFor(r.Pin); ok {
		p.muxPin(r.Pin.Index(), r.Alt)
	}
	switch r.Sig {
	case pinmux.SigSPISCK:
		s.sckPad = r.Unit
	case pinmux.SigSPISDO:
		s.sdoPad = r.Unit
	case pinmux.SigSPISDI:
		s.sdiPad = r.Unit
	case pinmux.SigSPICS:
		s.csPad = r.Unit
	}
}

// ApplyRate writes BAUD. It is enable-protected, so reprogramming a
// live bus bounces ENABLE around the write.
func (s *SPI) ApplyRate(p spi.RatePlan) {
	enabled := s.regs.CTRLA.HasBits(ctrlaENABLE.Mask())
	if enabled {
		s.Disable()
	}
	s.regs.BAUD.Set(uint8(p.A))
	if enabled {
		s.Enable()
	}
}

// dopoFor maps the (SDO, SCK) pad pair to a DOPO code. The SERCOM
// drives only four fixed output layouts.
func dopoFor(sdo, sck uint8) (uint32, bool) {
	switch {
	case sdo == 0 && sck == 1:
		return 0, true
	case sdo == 2 && sck == 3:
		return 1, true
	case sdo == 3 && sck == 1:
		return 2, true
	case sdo == 0 && sck == 3:
		return 3, true
	}
	return 0, false
}

// ssPadFor gives the pad the hardware slave select uses under a DOPO
// layout.
var ssPadFor = [4]uint8{2, 1, 2, 1}

// SetFrame composes CTRLA and CTRLB from the clock mode, bit order,
// and the recorded pads.
func (s *SPI) SetFrame(mode spi.Mode, order spi.BitOrder) error {
	dopo, ok := dopoFor(s.sdoPad, s.sckPad)
	if !ok {
		return errcode.New(errcode.NoRoute, "samd21.SetFrame", "SDO/SCK pad pairing")
	}
	hwCS := s.csPad != padNone
	if hwCS && s.csPad != ssPadFor[dopo] {
		return errcode.New(errcode.NoRoute, "samd21.SetFrame", "CS pad")
	}

	rx := s.sdiPad != padNone
	dipo := uint32(0)
	if rx {
		if s.sdiPad == s.sckPad || s.sdiPad == s.sdoPad || (hwCS && s.sdiPad == s.csPad) {
			return errcode.New(errcode.NoRoute, "samd21.SetFrame", "SDI pad")
		}
		dipo = uint32(s.sdiPad)
	}

	ctrla := ctrlaMODE.Enc(modeSPIMaster) |
		spiDOPO.Enc(dopo) |
		spiDIPO.Enc(dipo) |
		spiCPHA.Enc(uint32(mode.CPHA())) |
		spiCPOL.Enc(uint32(mode.CPOL()))
	if order == spi.LSBFirst {
		ctrla |= ctrlaDORD.Mask()
	}

	ctrlb := spiCHSIZE.Enc(0) // 8-bit frames
	if rx {
		ctrlb |= spiRXEN.Mask()
	}
	if hwCS {
		ctrlb |= spiMSSEN.Mask()
	}

	s.regs.CTRLA.Set(ctrla)
	s.regs.CTRLB.Set(ctrlb)
	s.syncWait(syncCTRLB)
	return nil
}

// ClearStatus drops a stale receive overflow and interrupt flags.
func (s *SPI) ClearStatus() {
	s.clearBufError()
	s.clearIntFlags()
}

func (s *SPI) Enable() {
	s.regs.CTRLA.SetBits(ctrlaENABLE.Mask())
	s.syncWait(syncENABLE)
	s.flagEnabled()
}

func (s *SPI) TxEmpty() bool { return s.regs.INTFLAG.HasBits(intflagDRE) }
func (s *SPI) RxReady() bool { return s.regs.INTFLAG.HasBits(intflagRXC) }

func (s *SPI) WriteData(b byte) {
	s.regs.DATA.Set(uint32(b))
	s.flagExchanged()
}

func (s *SPI) ReadData() byte {
	b := byte(s.regs.DATA.Get())
	s.flagRxRead()
	return b
}

func (s *SPI) syncWait(mask uint32) {
	for s.regs.SYNCBUSY.HasBits(mask) {
	}
}
