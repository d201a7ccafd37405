//go:build tinygo

package stm32f4

// On silicon the output writes go through BSRR: a single store, no
// read-modify-write, so the data path is safe against interrupt
// handlers driving other pins of the same port. The low half sets,
// the high half resets; toggle reads ODR and writes the opposite half.

func (p Port) outSet(mask uint32)   { p.regs.BSRR.Set(mask) }
func (p Port) outClear(mask uint32) { p.regs.BSRR.Set(mask << 16) }

func (p Port) outToggle(mask uint32) {
	if p.regs.ODR.HasBits(mask) {
		p.regs.BSRR.Set(mask << 16)
	} else {
		p.regs.BSRR.Set(mask)
	}
}
