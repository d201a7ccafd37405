package samd21

import (
	"testing"

	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/pwm"
)

func TestPWMPlanTiming(t *testing.T) {
	resetBlocks()
	dev := NewPWM0(NewClockTree())

	tests := []struct {
		srcHz, freq uint32
		div, top    uint32
		actual      uint32
		wantErr     bool
	}{
		// Fits the 24-bit counter at the first tap.
		{8_000_000, 1000, 1, 7999, 1000, false},
		{8_000_000, 2000, 1, 3999, 2000, false},
		// 1 Hz from 48 MHz walks past the taps whose period would
		// overflow the counter.
		{48_000_000, 1, 4, 11_999_999, 1, false},
		// Best achievable rate misses the tolerance window.
		{1000, 320, 0, 0, 0, true},
		{8_000_000, 0, 0, 0, 0, true},
		{0, 1000, 0, 0, 0, true},
	}
	for _, tt := range tests {
		plan, err := dev.PlanTiming(tt.srcHz, tt.freq)
		if tt.wantErr {
			if err == nil {
				t.Errorf("PlanTiming(%d, %d) accepted", tt.srcHz, tt.freq)
			}
			continue
		}
		if err != nil {
			t.Errorf("PlanTiming(%d, %d): %v", tt.srcHz, tt.freq, err)
			continue
		}
		want := pwm.TimingPlan{Div: tt.div, Top: tt.top, Actual: tt.actual}
		if plan != want {
			t.Errorf("PlanTiming(%d, %d) = %+v, want %+v", tt.srcHz, tt.freq, plan, want)
		}
	}
}

func TestPWMConfigureRegisters(t *testing.T) {
	resetBlocks()
	tree := NewClockTree()
	claims := pinmux.NewClaims()
	ch := pwm.NewChannel(NewPWM0(tree), tree, claims)

	err := ch.Configure(pwm.Config{Out: PA08, Frequency: 1000, Duty: 250})
	if err != nil {
		t.Fatal(err)
	}

	if !PM.APBCMASK.HasBits(1 << gateTCC0) {
		t.Fatal("TCC0 clock gate closed")
	}
	r := TCC0
	if got := tccPRESCALER.Read(&r.CTRLA); got != 0 {
		t.Fatalf("PRESCALER = %d, want tap 1", got)
	}
	if got := tccWAVEGEN.Read(&r.WAVE); got != wavegenNPWM {
		t.Fatalf("WAVEGEN = %d, want normal PWM", got)
	}
	if got := r.PER.Get(); got != 7999 {
		t.Fatalf("PER = %d, want 7999", got)
	}
	if got := r.CC[0].Get(); got != 2000 {
		t.Fatalf("CC0 = %d, want a quarter of the period", got)
	}
	if !r.CTRLA.HasBits(ctrlaENABLE.Mask()) {
		t.Fatal("channel left disabled")
	}

	grp := &PORT.Group[0]
	if got := grp.PMUX[4].Get(); got != uint8(funcE) {
		t.Fatalf("PMUX[4] = %#x, want function E on the low nibble", got)
	}
	if owner, _ := claims.PinOwner(PA08); owner != "PWM0" {
		t.Fatalf("PA08 owner = %q, want PWM0", owner)
	}
}

// Full duty programs the compare to top+1, so the planner must leave
// headroom for it even when the period lands on the counter limit.
func TestPWMFullDutyFitsCompare(t *testing.T) {
	resetBlocks()
	tree := clktree.MustNew(Chip,
		[]clktree.Source{{Name: "OSC", Hz: 16_777_215}},
		[]clktree.Domain{{Name: "GCLK0", Div: 1}, {Name: "APBC", Div: 1}},
		0)
	ch := pwm.NewChannel(NewPWM0(tree), tree, nil)

	if err := ch.Configure(pwm.Config{Out: PA08, Frequency: 1, Duty: 1000}); err != nil {
		t.Fatal(err)
	}
	r := TCC0
	if got := r.PER.Get(); got != 0xFFFFFE {
		t.Fatalf("PER = %#x, want the planner ceiling 0xFFFFFE", got)
	}
	// The counter never reaches top+1, so the output stays high, and
	// the level still fits the 24-bit compare register.
	if got := r.CC[0].Get(); got != 0xFFFFFF {
		t.Fatalf("CC0 = %#x, want 0xFFFFFF", got)
	}
}

func TestPWMSecondWaveformOutput(t *testing.T) {
	resetBlocks()
	tree := NewClockTree()
	ch := pwm.NewChannel(NewPWM0(tree), tree, nil)

	if err := ch.Configure(pwm.Config{Out: PA09, Frequency: 1000, Duty: 500}); err != nil {
		t.Fatal(err)
	}
	if got := TCC0.CC[1].Get(); got != 4000 {
		t.Fatalf("CC1 = %d, want 4000", got)
	}
	if got := TCC0.CC[0].Get(); got != 0 {
		t.Fatalf("CC0 = %d, want untouched for waveform output 1", got)
	}
	if got := PORT.Group[0].PMUX[4].Get(); got != uint8(funcE)<<4 {
		t.Fatalf("PMUX[4] = %#x, want function E on the high nibble", got)
	}
}

func TestPWMSetDutyLive(t *testing.T) {
	resetBlocks()
	tree := NewClockTree()
	ch := pwm.NewChannel(NewPWM0(tree), tree, nil)
	if err := ch.Configure(pwm.Config{Out: PA08, Frequency: 1000, Duty: 250}); err != nil {
		t.Fatal(err)
	}

	if err := ch.SetDuty(500); err != nil {
		t.Fatal(err)
	}
	if got := TCC0.CC[0].Get(); got != 4000 {
		t.Fatalf("CC0 = %d, want 4000", got)
	}
	if !TCC0.CTRLA.HasBits(ctrlaENABLE.Mask()) {
		t.Fatal("duty change disabled the channel")
	}
}

func TestPWMClockSwitchKeepsProportion(t *testing.T) {
	resetBlocks()
	tree := NewClockTree()
	ch := pwm.NewChannel(NewPWM0(tree), tree, nil)
	if err := ch.Configure(pwm.Config{Out: PA08, Frequency: 1000, Duty: 250}); err != nil {
		t.Fatal(err)
	}

	tree.SetLocked(SrcDFLL48M, true)
	if err := tree.SelectMaster(SrcDFLL48M); err != nil {
		t.Fatal(err)
	}

	r := TCC0
	if got := r.PER.Get(); got != 47999 {
		t.Fatalf("PER after switch = %d, want 47999", got)
	}
	// A quarter of the new period, not the old compare level.
	if got := r.CC[0].Get(); got != 12000 {
		t.Fatalf("CC0 after switch = %d, want 12000", got)
	}
	if !r.CTRLA.HasBits(ctrlaENABLE.Mask()) {
		t.Fatal("retiming left the channel disabled")
	}
	if got := ch.ActualFrequency(); got != 1000 {
		t.Fatalf("ActualFrequency = %d, want 1000", got)
	}
}

func TestPWMRejectsBadPin(t *testing.T) {
	resetBlocks()
	tree := NewClockTree()
	ch := pwm.NewChannel(NewPWM0(tree), tree, nil)

	// PA06 carries TCC1, not TCC0.
	err := ch.Configure(pwm.Config{Out: PA06, Frequency: 1000, Duty: 250})
	if !errcode.Is(err, errcode.NoRoute) {
		t.Fatalf("PA06 on PWM0 = %v, want NoRoute", err)
	}
}

func TestPWMRelease(t *testing.T) {
	resetBlocks()
	tree := NewClockTree()
	claims := pinmux.NewClaims()
	ch := pwm.NewChannel(NewPWM1(tree), tree, claims)
	if err := ch.Configure(pwm.Config{Out: PA06, Frequency: 1000, Duty: 250}); err != nil {
		t.Fatal(err)
	}
	if !PM.APBCMASK.HasBits(1 << gateTCC1) {
		t.Fatal("TCC1 clock gate closed")
	}

	ch.Release()
	if TCC1.CTRLA.HasBits(ctrlaENABLE.Mask()) {
		t.Fatal("release left the channel enabled")
	}
	if _, held := claims.PinOwner(PA06); held {
		t.Fatal("release left the pin claimed")
	}
}
