package rp2040

import (
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/pwm"
)

// Slice divider and counter limits: an 8-bit integer divider (the
// fractional 4 bits stay zero) and a 16-bit wrap. The wrap stops one
// short of the counter maximum: full duty programs the compare to
// top+1, which must still fit the 16-bit CC half.
const (
	pwmDivMax = 255
	pwmTopMax = 0xFFFE
)

// PWM is one PWM slice, implementing pwm.Device. A slice runs one
// counter into two compare outputs, A and B; the handle drives
// whichever output its pin muxed to. Slices count clk_sys.
type PWM struct {
	regs *PWMSlice
	id   pinmux.PeripheralID
	tree *clktree.Tree
	unit uint8
}

// NewPWM binds one of the eight slices; slice is taken modulo 8.
func NewPWM(slice uint8, tree *clktree.Tree) *PWM {
	n := slice % 8
	return &PWM{regs: &PWMB.Slice[n], id: pwmSlices[n], tree: tree}
}

func (t *PWM) ID() pinmux.PeripheralID { return t.id }
func (t *PWM) Table() *pinmux.Table    { return Routes }

func (t *PWM) ClockHz() (uint32, error) { return t.tree.Hz(DomainSys) }

// PlanTiming solves the linear divider against the 16-bit wrap. The
// solver keeps the divider at the minimum that fits the period, so the
// wrap stays long and carries the duty resolution.
func (t *PWM) PlanTiming(srcHz, freq uint32) (pwm.TimingPlan, error) {
	return pwm.Solve(srcHz, freq, pwmDivMax, pwmTopMax)
}

// GateOn releases the PWM block from reset and resets the recorded
// compare output for a fresh bring-up. The block is shared by all
// eight slices, so the release is idempotent by construction.
func (t *PWM) GateOn() {
	unresetBlocks(rstPWM)
	t.tree.GateOn(t.id)
	t.unit = 0
}

func (t *PWM) Disable() {
	t.regs.CSR.ClearBits(csrEN)
}

// MuxPin hands the pin to the slice and records which compare output
// it carries; ApplyDuty writes that output's CC half.
func (t *PWM) MuxPin(r pinmux.Route) {
	Bank0().muxPin(r.Pin.Index(), r.Alt)
	t.unit = r.Unit
}

// ApplyTiming programs divider and wrap. Neither register is
// enable-protected on this chip; retiming a live slice takes effect
// mid-period.
func (t *PWM) ApplyTiming(p pwm.TimingPlan) {
	t.regs.DIV.Set(pwmDivInt.Enc(p.Div))
	t.regs.TOP.Set(p.Top)
}

// ApplyDuty writes the CC half of the muxed compare output.
func (t *PWM) ApplyDuty(level uint32) {
	if t.unit == 0 {
		pwmCCA.Update(&t.regs.CC, level)
	} else {
		pwmCCB.Update(&t.regs.CC, level)
	}
}

func (t *PWM) Enable() {
	t.regs.CSR.SetBits(csrEN)
}
