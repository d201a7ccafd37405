//go:build !tinygo

package regs

// Host shim: plain memory cells with the exact method set of the
// runtime/volatile registers, so drivers and tests compile unchanged
// on both sides of the build tag. Blocks are allocated with new(...)
// instead of being cast from silicon addresses.

type Reg8 struct {
	Reg uint8
}

func (r *Reg8) Get() uint8            { return r.Reg }
func (r *Reg8) Set(v uint8)           { r.Reg = v }
func (r *Reg8) SetBits(bits uint8)    { r.Reg |= bits }
func (r *Reg8) ClearBits(bits uint8)  { r.Reg &^= bits }
func (r *Reg8) HasBits(bits uint8) bool { return r.Reg&bits != 0 }
func (r *Reg8) ReplaceBits(value uint8, mask uint8, pos uint8) {
	r.Reg = r.Reg&^(mask<<pos) | value<<pos
}

type Reg16 struct {
	Reg uint16
}

func (r *Reg16) Get() uint16            { return r.Reg }
func (r *Reg16) Set(v uint16)           { r.Reg = v }
func (r *Reg16) SetBits(bits uint16)    { r.Reg |= bits }
func (r *Reg16) ClearBits(bits uint16)  { r.Reg &^= bits }
func (r *Reg16) HasBits(bits uint16) bool { return r.Reg&bits != 0 }
func (r *Reg16) ReplaceBits(value uint16, mask uint16, pos uint8) {
	r.Reg = r.Reg&^(mask<<pos) | value<<pos
}

type Reg32 struct {
	Reg uint32
}

func (r *Reg32) Get() uint32            { return r.Reg }
func (r *Reg32) Set(v uint32)           { r.Reg = v }
func (r *Reg32) SetBits(bits uint32)    { r.Reg |= bits }
func (r *Reg32) ClearBits(bits uint32)  { r.Reg &^= bits }
func (r *Reg32) HasBits(bits uint32) bool { return r.Reg&bits != 0 }
func (r *Reg32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Reg = r.Reg&^(mask<<pos) | value<<pos
}
