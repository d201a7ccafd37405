//go:build linux && !tinygo

package regs

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// Window maps a register region from a device file (/dev/gpiomem and
// friends) into the process, for Linux-hosted bring-up and the probe
// tool's local mode. Offsets are relative to the start of the mapping.
type Window struct {
	f   *os.File
	mem []byte
}

// MapWindow maps size bytes of path starting at offset. offset and size
// must be page-aligned for real device files.
func MapWindow(path string, offset int64, size int) (*Window, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("regs: open %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), offset, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("regs: mmap %s: %w", path, err)
	}
	return &Window{f: f, mem: mem}, nil
}

// Close unmaps the window and closes the backing file.
func (w *Window) Close() error {
	var first error
	if w.mem != nil {
		first = unix.Munmap(w.mem)
		w.mem = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err != nil && first == nil {
			first = err
		}
		w.f = nil
	}
	return first
}

// Size returns the mapped length in bytes.
func (w *Window) Size() int { return len(w.mem) }

// Contains reports whether [off, off+n) lies inside the mapping.
func (w *Window) Contains(off uintptr, n int) bool {
	return off%4 == 0 && int(off)+n <= len(w.mem)
}

// Reg32 returns the register cell at off. Misaligned or out-of-range
// offsets are a programmer error and panic.
func (w *Window) Reg32(off uintptr) *Reg32 {
	if !w.Contains(off, 4) {
		panic("regs: window offset out of range")
	}
	return (*Reg32)(unsafe.Pointer(&w.mem[off]))
}

// Peek32 is the checked read used by the probe's local mode.
func (w *Window) Peek32(off uintptr) (uint32, error) {
	if !w.Contains(off, 4) {
		return 0, errcode.New(errcode.InvalidConfig, "regs.Peek32", "offset outside window")
	}
	return w.Reg32(off).Get(), nil
}

// Poke32 is the checked write used by the probe's local mode.
func (w *Window) Poke32(off uintptr, v uint32) error {
	if !w.Contains(off, 4) {
		return errcode.New(errcode.InvalidConfig, "regs.Poke32", "offset outside window")
	}
	w.Reg32(off).Set(v)
	return nil
}
