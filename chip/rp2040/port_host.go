//go:build !tinygo

package rp2040

// Host stand-ins for the SIO one-shots: simulated memory has no bus
// decode, so each write's effect lands on the backing OUT or OE
// directly.

func (p Port) outSet(mask uint32)    { SIO.OUT.SetBits(mask) }
func (p Port) outClear(mask uint32)  { SIO.OUT.ClearBits(mask) }
func (p Port) outToggle(mask uint32) { SIO.OUT.Set(SIO.OUT.Get() ^ mask) }

func (p Port) oeSet(mask uint32)   { SIO.OE.SetBits(mask) }
func (p Port) oeClear(mask uint32) { SIO.OE.ClearBits(mask) }
