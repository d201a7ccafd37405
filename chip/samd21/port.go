package samd21

import (
	"github.com/Alloy-Embedded/alloy-sub003/gpio"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Port drives one PORT group. The pin-bit writes go through the
// build-tagged helpers in port_tinygo.go / port_host.go: on silicon
// they hit the one-shot DIRSET/OUTCLR style registers so the data path
// never read-modifies a shared word, on the host they apply the same
// effect to the simulated DIR/OUT state.
type Port struct {
	grp *PortGroup
}

// PortA returns the PA group.
func PortA() Port { return Port{grp: &PORT.Group[0]} }

// PortB returns the PB group.
func PortB() Port { return Port{grp: &PORT.Group[1]} }

func portFor(p pinmux.Pin) (Port, bool) {
	if int(p.Port()) >= len(PORT.Group) {
		return Port{}, false
	}
	return Port{grp: &PORT.Group[p.Port()]}, true
}

func (p Port) HasPin(index uint8) bool { return index < 32 }

func (p Port) PinDirOutput(index uint8) {
	p.dirSet(1 << index)
	p.grp.PINCFG[index].Set(pincfgINEN)
}

func (p Port) PinDirInput(index uint8, pull gpio.Pull) {
	p.dirClear(1 << index)
	cfg := uint8(pincfgINEN)
	if pull != gpio.PullNone {
		cfg |= pincfgPULLEN
	}
	p.grp.PINCFG[index].Set(cfg)
	// The pull direction rides on the output latch while the pin is
	// an input.
	switch pull {
	case gpio.PullUp:
		p.outSet(1 << index)
	case gpio.PullDown:
		p.outClear(1 << index)
	}
}

func (p Port) PinDisable(index uint8) {
	p.grp.PINCFG[index].Set(0)
	p.dirClear(1 << index)
}

func (p Port) PinSet(index uint8)    { p.outSet(1 << index) }
func (p Port) PinClear(index uint8)  { p.outClear(1 << index) }
func (p Port) PinToggle(index uint8) { p.outToggle(1 << index) }

func (p Port) PinRead(index uint8) bool {
	if p.grp.DIR.HasBits(1 << index) {
		return p.grp.OUT.HasBits(1 << index)
	}
	return p.grp.IN.HasBits(1 << index)
}

// muxPin hands a pin to a peripheral function. Even pins use the low
// PMUX nibble, odd pins the high one.
func (p Port) muxPin(index uint8, fn pinmux.AltFunc) {
	p.grp.PMUX[index/2].ReplaceBits(uint8(fn), 0xF, 4*(index&1))
	p.grp.PINCFG[index].SetBits(pincfgPMUXEN | pincfgINEN)
}
