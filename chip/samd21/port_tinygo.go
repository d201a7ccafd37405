//go:build tinygo

package samd21

// Pin-bit writes through the one-shot registers: a single store, no
// read-modify-write, safe against interrupts touching other pins.

func (p Port) dirSet(mask uint32)    { p.grp.DIRSET.Set(mask) }
func (p Port) dirClear(mask uint32)  { p.grp.DIRCLR.Set(mask) }
func (p Port) outSet(mask uint32)    { p.grp.OUTSET.Set(mask) }
func (p Port) outClear(mask uint32)  { p.grp.OUTCLR.Set(mask) }
func (p Port) outToggle(mask uint32) { p.grp.OUTTGL.Set(mask) }
