package samd21

import (
	"github.com/Alloy-Embedded/alloy-sub003/clkdiv"
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/pwm"
)

// tccPrescalers are the eight divider taps of the TCC prescaler; the
// register code is the table index.
var tccPrescalers = [8]uint32{1, 2, 4, 8, 16, 64, 256, 1024}

// tccTopMax is the largest PER the planner may emit for the 24-bit
// TCC0/TCC1 counters, one short of the register maximum: full duty
// programs the compare to top+1, which must still fit in 24 bits.
const tccTopMax = 0xFFFFFE

// PWM is one TCC waveform output, implementing pwm.Device.
type PWM struct {
	regs *TCCRegs
	id   pinmux.PeripheralID
	gate uint32
	tree *clktree.Tree
	unit uint8
}

// NewPWM0 binds TCC0.
func NewPWM0(tree *clktree.Tree) *PWM {
	return &PWM{regs: TCC0, id: PWM0, gate: gateTCC0, tree: tree}
}

// NewPWM1 binds TCC1.
func NewPWM1(tree *clktree.Tree) *PWM {
	return &PWM{regs: TCC1, id: PWM1, gate: gateTCC1, tree: tree}
}

func (t *PWM) ID() pinmux.PeripheralID { return t.id }
func (t *PWM) Table() *pinmux.Table    { return Routes }

// ClockHz returns the TCC core clock, fed from GCLK0.
func (t *PWM) ClockHz() (uint32, error) { return t.tree.Hz(DomainGCLK0) }

// PlanTiming walks the prescaler taps from the smallest up and settles
// on the first one whose period fits the 24-bit counter: the smallest
// prescaler leaves the longest period, which carries the duty
// resolution.
func (t *PWM) PlanTiming(srcHz, freq uint32) (pwm.TimingPlan, error) {
	if srcHz == 0 || freq == 0 {
		return pwm.TimingPlan{}, errcode.New(errcode.InvalidConfig, "samd21.PlanTiming", "zero frequency")
	}
	const pMax = uint64(tccTopMax) + 1
	for _, div := range tccPrescalers {
		if uint64(freq)*uint64(div)*pMax < uint64(srcHz) {
			continue // period overflows the counter
		}
		p, actual, err := pwm.BestPeriod(srcHz, freq, div, uint32(pMax))
		if err != nil {
			return pwm.TimingPlan{}, err
		}
		if err := clkdiv.CheckTolerance(freq, actual, clkdiv.TolerancePermille); err != nil {
			return pwm.TimingPlan{}, err
		}
		return pwm.TimingPlan{Div: div, Top: p - 1, Actual: actual}, nil
	}
	return pwm.TimingPlan{}, errcode.New(errcode.InvalidConfig, "samd21.PlanTiming", "frequency below prescaler range")
}

func prescCode(div uint32) uint32 {
	for i, d := range tccPrescalers {
		if d == div {
			return uint32(i)
		}
	}
	// PlanTiming only emits table values.
	panic("samd21: prescaler not a TCC tap")
}

// GateOn opens the APBC clock gate and resets the recorded waveform
// output for a fresh bring-up.
func (t *PWM) GateOn() {
	PM.APBCMASK.SetBits(1 << t.gate)
	t.tree.GateOn(t.id)
	t.unit = 0
}

func (t *PWM) Disable() {
	if !t.regs.CTRLA.HasBits(ctrlaENABLE.Mask()) {
		return
	}
	t.regs.CTRLA.ClearBits(ctrlaENABLE.Mask())
	t.syncWait(syncENABLE)
}

// MuxPin hands the pin to the TCC and records which waveform output
// it carries; ApplyDuty writes that output's compare channel.
func (t *PWM) MuxPin(r pinmux.Route) {
	if p, ok := portFor(r.Pin); ok {
		p.muxPin(r.Pin.Index(), r.Alt)
	}
	t.unit = r.Unit
}

// ApplyTiming programs prescaler, waveform mode, and period. The
// prescaler is enable-protected, so retiming a live channel bounces
// ENABLE around the write; PER is buffered and free to change.
func (t *PWM) ApplyTiming(p pwm.TimingPlan) {
	enabled := t.regs.CTRLA.HasBits(ctrlaENABLE.Mask())
	if enabled {
		t.Disable()
	}
	tccPRESCALER.Update(&t.regs.CTRLA, prescCode(p.Div))
	tccWAVEGEN.Update(&t.regs.WAVE, wavegenNPWM)
	t.regs.PER.Set(p.Top)
	if enabled {
		t.Enable()
	}
}

// ApplyDuty writes the compare channel of the muxed waveform output.
// The counter picks the new level up at the next wrap.
func (t *PWM) ApplyDuty(level uint32) {
	t.regs.CC[t.unit].Set(level)
}

func (t *PWM) Enable() {
	t.regs.CTRLA.SetBits(ctrlaENABLE.Mask())
	t.syncWait(syncENABLE)
}

func (t *PWM) syncWait(mask uint32) {
	for t.regs.SYNCBUSY.HasBits(mask) {
	}
}
