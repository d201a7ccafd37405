package rp2040

import (
	"github.com/Alloy-Embedded/alloy-sub003/gpio"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Port drives the single 30-pin user bank through SIO. Output and
// direction writes go through the build-tagged helpers in
// port_tinygo.go / port_host.go: on silicon they hit the one-shot
// SET/CLR/XOR registers so the data path never read-modifies OUT, on
// the host they apply the same effect to the simulated OUT and OE.
//
// Each configure call releases IO_BANK0 and PADS_BANK0 from reset;
// out of power-on both blocks are held and ignore writes.
type Port struct{}

// Bank0 returns the user GPIO bank.
func Bank0() Port { return Port{} }

func (p Port) unreset() { unresetBlocks(rstIOBank0 | rstPadsBank0) }

func (p Port) HasPin(index uint8) bool { return index < 30 }

func (p Port) PinDirOutput(index uint8) {
	p.unreset()
	PadsBank0.GPIO[index].Set(padIE | padSCHMITT)
	IOBank0.GPIO[index].CTRL.Set(funcSIO)
	p.outClear(1 << index)
	p.oeSet(1 << index)
}

func (p Port) PinDirInput(index uint8, pull gpio.Pull) {
	p.unreset()
	pad := uint32(padIE | padSCHMITT)
	switch pull {
	case gpio.PullUp:
		pad |= padPUE
	case gpio.PullDown:
		pad |= padPDE
	}
	PadsBank0.GPIO[index].Set(pad)
	IOBank0.GPIO[index].CTRL.Set(funcSIO)
	p.oeClear(1 << index)
}

// PinDisable returns the pin to its reset state: function NULL with
// the default pull-down pad.
func (p Port) PinDisable(index uint8) {
	p.oeClear(1 << index)
	IOBank0.GPIO[index].CTRL.Set(funcNull)
	PadsBank0.GPIO[index].Set(padReset)
}

func (p Port) PinSet(index uint8)    { p.outSet(1 << index) }
func (p Port) PinClear(index uint8)  { p.outClear(1 << index) }
func (p Port) PinToggle(index uint8) { p.outToggle(1 << index) }

func (p Port) PinRead(index uint8) bool {
	if SIO.OE.HasBits(1 << index) {
		return SIO.OUT.HasBits(1 << index)
	}
	return SIO.IN.HasBits(1 << index)
}

// muxPin hands a pin to a peripheral function. The pad keeps its input
// buffer on so receive-side functions can see the line.
func (p Port) muxPin(index uint8, fn pinmux.AltFunc) {
	p.unreset()
	PadsBank0.GPIO[index].Set(padIE | padSCHMITT)
	IOBank0.GPIO[index].CTRL.Set(uint32(fn))
}
