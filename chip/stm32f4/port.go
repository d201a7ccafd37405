package stm32f4

import (
	"github.com/Alloy-Embedded/alloy-sub003/gpio"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/regs"
)

// Port drives one GPIO block. Output writes go through the build-tagged
// helpers in port_tinygo.go / port_host.go: on silicon they hit the
// one-shot BSRR halves so the data path never read-modifies ODR, on
// the host they apply the same effect to the simulated ODR.
//
// Each configure call opens the port's AHB1 clock gate; on the F4 an
// ungated GPIO block ignores writes.
type Port struct {
	regs *GPIORegs
	gate uint32
}

func PortA() Port { return Port{regs: GPIOA, gate: gateGPIOA} }
func PortB() Port { return Port{regs: GPIOB, gate: gateGPIOB} }
func PortC() Port { return Port{regs: GPIOC, gate: gateGPIOC} }
func PortD() Port { return Port{regs: GPIOD, gate: gateGPIOD} }
func PortE() Port { return Port{regs: GPIOE, gate: gateGPIOE} }

func portFor(p pinmux.Pin) (Port, bool) {
	switch p.Port() {
	case 0:
		return PortA(), true
	case 1:
		return PortB(), true
	case 2:
		return PortC(), true
	case 3:
		return PortD(), true
	case 4:
		return PortE(), true
	}
	return Port{}, false
}

func (p Port) enableClock() { RCC.AHB1ENR.SetBits(1 << p.gate) }

func (p Port) HasPin(index uint8) bool { return index < 16 }

func (p Port) PinDirOutput(index uint8) {
	p.enableClock()
	p.regs.MODER.ReplaceBits(moderOutput, 0x3, 2*index)
	p.regs.OTYPER.ClearBits(1 << index) // push-pull
	p.regs.PUPDR.ReplaceBits(pupdrNone, 0x3, 2*index)
}

func (p Port) PinDirInput(index uint8, pull gpio.Pull) {
	p.enableClock()
	p.regs.MODER.ReplaceBits(moderInput, 0x3, 2*index)
	v := uint32(pupdrNone)
	switch pull {
	case gpio.PullUp:
		v = pupdrUp
	case gpio.PullDown:
		v = pupdrDown
	}
	p.regs.PUPDR.ReplaceBits(v, 0x3, 2*index)
}

// PinDisable returns the pin to its reset state: floating input.
func (p Port) PinDisable(index uint8) {
	p.regs.MODER.ReplaceBits(moderInput, 0x3, 2*index)
	p.regs.PUPDR.ReplaceBits(pupdrNone, 0x3, 2*index)
}

func (p Port) PinSet(index uint8)    { p.outSet(1 << index) }
func (p Port) PinClear(index uint8)  { p.outClear(1 << index) }
func (p Port) PinToggle(index uint8) { p.outToggle(1 << index) }

func (p Port) PinRead(index uint8) bool {
	mode := regs.F(2*index, 2).Read(&p.regs.MODER)
	if mode == moderOutput {
		return p.regs.ODR.HasBits(1 << index)
	}
	return p.regs.IDR.HasBits(1 << index)
}

// muxPin hands a pin to an alternate function. Pins 0-7 live in
// AFR[0], 8-15 in AFR[1].
func (p Port) muxPin(index uint8, fn pinmux.AltFunc) {
	p.enableClock()
	p.regs.AFR[index/8].ReplaceBits(uint32(fn), 0xF, 4*(index%8))
	p.regs.MODER.ReplaceBits(moderAlt, 0x3, 2*index)
}
