// Package clkdiv computes integer clock divisors for rate-based
// peripherals. Every encoder in the chip packages (UART baud, SPI
// clock, PWM period) reduces to the same problem: pick the divisor in
// a hardware-imposed range whose resulting rate comes closest to the
// requested one.
package clkdiv

import (
	"strconv"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// TolerancePermille is the default acceptable rate error: 3%. A chip
// encoder rejects a requested rate whose best achievable value lands
// outside it.
const TolerancePermille = 30

// BestDivisor picks the integer divisor in [lo, hi] whose resulting
// rate srcHz/div has the smallest relative error against target. Ties
// break toward the lower resulting rate, i.e. the larger divisor.
func BestDivisor(srcHz, target, lo, hi uint32) (div, actual uint32, err error) {
	if srcHz == 0 || target == 0 {
		return 0, 0, errcode.New(errcode.InvalidConfig, "clkdiv.BestDivisor", "zero frequency")
	}
	if lo == 0 {
		lo = 1
	}
	if lo > hi {
		return 0, 0, errcode.New(errcode.InvalidConfig, "clkdiv.BestDivisor", "empty divisor range")
	}

	clamp := func(d uint32) uint32 {
		if d < lo {
			return lo
		}
		if d > hi {
			return hi
		}
		return d
	}

	// The ideal divisor is srcHz/target; only its two integer
	// neighbors can minimize the error.
	floor := clamp(srcHz / target)
	ceil := clamp(floor + 1)

	div = pickDivisor(srcHz, target, floor, ceil)
	return div, srcHz / div, nil
}

// pickDivisor compares two candidate divisors by the error of their
// resulting rates, exactly: |srcHz/a - target| against
// |srcHz/b - target|, cross-multiplied onto the common denominator a*b
// so no integer-division rounding distorts the comparison. On equal
// error the larger divisor wins: the documented tie-break toward the
// lower resulting rate.
func pickDivisor(srcHz, target, a, b uint32) uint32 {
	if a == b {
		return a
	}
	errA := rateError(srcHz, target, a) * uint64(b)
	errB := rateError(srcHz, target, b) * uint64(a)
	switch {
	case errA < errB:
		return a
	case errB < errA:
		return b
	case a > b:
		return a
	default:
		return b
	}
}

// rateError returns |srcHz - target*div|, which is |srcHz/div - target|
// scaled by div.
func rateError(srcHz, target, div uint32) uint64 {
	rate := uint64(srcHz)
	want := uint64(target) * uint64(div)
	if rate > want {
		return rate - want
	}
	return want - rate
}

// CheckTolerance verifies the achieved rate is within tolPermille of
// the target.
func CheckTolerance(target, actual uint32, tolPermille uint32) error {
	var diff uint64
	if actual > target {
		diff = uint64(actual - target)
	} else {
		diff = uint64(target - actual)
	}
	if diff*1000 > uint64(target)*uint64(tolPermille) {
		return errcode.New(errcode.InvalidConfig, "clkdiv.CheckTolerance",
			"best rate "+strconv.Itoa(int(actual))+" outside tolerance of "+strconv.Itoa(int(target)))
	}
	return nil
}
