// Package regs provides typed access to memory-mapped hardware registers.
//
// Register cells (Reg8/Reg16/Reg32) carry the method set of TinyGo's
// runtime/volatile registers. Under the tinygo build tag they are those
// registers; under host Go they are plain cells, so the same block
// structs serve real silicon and simulated tests.
//
// A Field names a contiguous bit range inside a 32-bit register. Field
// values out of range are a programmer error and panic: configuration
// builders validate user input before encoding, so a panic here marks a
// defect in a data table, not a runtime condition to handle.
package regs

// Field is a contiguous bit range inside a 32-bit register.
type Field struct {
	Pos   uint8
	Width uint8
}

// F builds a Field and checks it fits a 32-bit register.
func F(pos, width uint8) Field {
	if width == 0 || int(pos)+int(width) > 32 {
		panic("regs: field out of range")
	}
	return Field{Pos: pos, Width: width}
}

// Bit is shorthand for a single-bit field.
func Bit(pos uint8) Field { return F(pos, 1) }

// Max returns the largest value the field can hold.
func (f Field) Max() uint32 {
	if f.Width >= 32 {
		return ^uint32(0)
	}
	return 1<<f.Width - 1
}

// Mask returns the field mask shifted into position.
func (f Field) Mask() uint32 { return f.Max() << f.Pos }

// Enc shifts v into position. v must fit the field width.
func (f Field) Enc(v uint32) uint32 {
	if v > f.Max() {
		panic("regs: field value out of range")
	}
	return v << f.Pos
}

// Dec extracts the field value from a raw register word.
func (f Field) Dec(reg uint32) uint32 {
	return reg >> f.Pos & f.Max()
}

// Insert returns old with only this field replaced by v.
func (f Field) Insert(old, v uint32) uint32 {
	return old&^f.Mask() | f.Enc(v)
}

// Update performs a read-modify-write of this field, leaving every
// other bit of the register unchanged. Not safe against an interrupt
// handler writing the same register between the read and the write;
// callers sharing a register with interrupt context must serialize.
func (f Field) Update(r *Reg32, v uint32) {
	if v > f.Max() {
		panic("regs: field value out of range")
	}
	r.ReplaceBits(v, f.Max(), f.Pos)
}

// Read returns the field value from a live register.
func (f Field) Read(r *Reg32) uint32 {
	return f.Dec(r.Get())
}
