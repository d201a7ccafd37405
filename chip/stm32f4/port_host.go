//go:build !tinygo

package stm32f4

// Host stand-ins for the BSRR halves: simulated memory has no bus
// decode, so the write's effect lands on the backing ODR directly.

func (p Port) outSet(mask uint32)    { p.regs.ODR.SetBits(mask) }
func (p Port) outClear(mask uint32)  { p.regs.ODR.ClearBits(mask) }
func (p Port) outToggle(mask uint32) { p.regs.ODR.Set(p.regs.ODR.Get() ^ mask) }
