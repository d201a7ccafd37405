//go:build tinygo

package regs

import "runtime/volatile"

// On real silicon the register cells are the volatile types from the
// TinyGo runtime, so every access compiles to a single load or store
// that the compiler will not cache or reorder against other volatile
// accesses.
type (
	Reg8  = volatile.Register8
	Reg16 = volatile.Register16
	Reg32 = volatile.Register32
)
