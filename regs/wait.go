package regs

import (
	"runtime"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// Bounded busy-waits on hardware status flags. Unbounded polling on an
// unresponsive peripheral is a real failure mode: every wait takes an
// explicit timeout and reports errcode.Timeout instead of hanging.

// WaitSet polls until all bits in mask read set.
func WaitSet(r *Reg32, mask uint32, timeout time.Duration) error {
	return WaitMatch(r, mask, mask, timeout)
}

// WaitClear polls until all bits in mask read clear.
func WaitClear(r *Reg32, mask uint32, timeout time.Duration) error {
	return WaitMatch(r, mask, 0, timeout)
}

// WaitMatch polls until reg&mask == want or the timeout elapses.
func WaitMatch(r *Reg32, mask, want uint32, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if r.Get()&mask == want {
			return nil
		}
		if time.Now().After(deadline) {
			// One more read: the flag may have flipped while we
			// were checking the clock.
			if r.Get()&mask == want {
				return nil
			}
			return errcode.Timeout
		}
		runtime.Gosched()
	}
}
