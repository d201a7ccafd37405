//go:build tinygo

package rp2040

// On silicon the output and direction writes go through the SIO
// one-shot registers: a single store, no read-modify-write, so the
// data path is safe against interrupt handlers driving other pins.

func (p Port) outSet(mask uint32)    { SIO.OUTSET.Set(mask) }
func (p Port) outClear(mask uint32)  { SIO.OUTCLR.Set(mask) }
func (p Port) outToggle(mask uint32) { SIO.OUTXOR.Set(mask) }

func (p Port) oeSet(mask uint32)   { SIO.OESET.Set(mask) }
func (p Port) oeClear(mask uint32) { SIO.OECLR.Set(mask) }
