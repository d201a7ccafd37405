//go:build tinygo

package probe

import (
	"unsafe"

	"github.com/Alloy-Embedded/alloy-sub003/regs"
)

// RawSpace serves a window straight off the memory bus: offsets are
// added to Base and accessed as volatile words. The agent's window
// whitelist is the only bounds check, so a RawSpace must only ever be
// wrapped in a Window sized to a real register block or SRAM region.
type RawSpace struct {
	Base uintptr
}

func (s RawSpace) reg(off uintptr) *regs.Reg32 {
	return (*regs.Reg32)(unsafe.Pointer(s.Base + off))
}

func (s RawSpace) Peek32(off uintptr) (uint32, error) {
	return s.reg(off).Get(), nil
}

func (s RawSpace) Poke32(off uintptr, v uint32) error {
	s.reg(off).Set(v)
	return nil
}
