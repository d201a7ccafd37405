//go:build !tinygo

package samd21

// Host stand-ins for the one-shot registers: simulated memory has no
// bus decode, so the write's effect lands on the backing DIR/OUT state
// directly.

func (p Port) dirSet(mask uint32)    { p.grp.DIR.SetBits(mask) }
func (p Port) dirClear(mask uint32)  { p.grp.DIR.ClearBits(mask) }
func (p Port) outSet(mask uint32)    { p.grp.OUT.SetBits(mask) }
func (p Port) outClear(mask uint32)  { p.grp.OUT.ClearBits(mask) }
func (p Port) outToggle(mask uint32) { p.grp.OUT.Set(p.grp.OUT.Get() ^ mask) }
