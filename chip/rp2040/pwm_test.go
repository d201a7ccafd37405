package rp2040

import (
	"testing"

	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/pwm"
)

func TestPWMPlanTiming(t *testing.T) {
	resetBlocks()
	dev := NewPWM(0, NewClockTree())

	tests := []struct {
		srcHz, freq uint32
		div, top    uint32
		actual      uint32
		wantErr     bool
	}{
		// One divider step keeps the wrap at its longest.
		{125_000_000, 1000, 2, 62499, 1000, false},
		{125_000_000, 25_000_000, 1, 4, 25_000_000, false},
		// Period lands exactly on the planner ceiling.
		{6_553_500, 100, 1, 65534, 100, false},
		// One count past the ceiling: the divider steps instead of the
		// wrap saturating, so full duty keeps its compare headroom.
		{6_553_600, 100, 2, 32767, 100, false},
		// 1 Hz needs a divider beyond the 8-bit field.
		{125_000_000, 1, 0, 0, 0, true},
		{125_000_000, 0, 0, 0, 0, true},
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
		if plan.Top >= 0xFFFF {
			t.Errorf("PlanTiming(%d, %d) top %#x leaves no room for the full-duty compare",
				tt.srcHz, tt.freq, plan.Top)
		}
	}
}

func TestPWMConfigureRegisters(t *testing.T) {
	resetBlocks()
	tree := pllTree(t)
	claims := pinmux.NewClaims()
	ch := pwm.NewChannel(NewPWM(0, tree), tree, claims)

	err := ch.Configure(pwm.Config{Out: GP0, Frequency: 1000, Duty: 250})
	if err != nil {
		t.Fatal(err)
	}

	if Resets.RESET.HasBits(rstPWM) {
		t.Fatal("PWM block still held in reset")
	}
	s := &PWMB.Slice[0]
	if got := s.DIV.Get(); got != pwmDivInt.Enc(2) {
		t.Fatalf("DIV = %#x, want integer divider 2", got)
	}
	if got := s.TOP.Get(); got != 62499 {
		t.Fatalf("TOP = %d, want 62499", got)
	}
	if got := pwmCCA.Read(&s.CC); got != 15625 {
		t.Fatalf("CC A = %d, want a quarter of the period", got)
	}
	if !s.CSR.HasBits(csrEN) {
		t.Fatal("slice left disabled")
	}
	if got := IOBank0.GPIO[0].CTRL.Get(); got != funcPWM {
		t.Fatalf("FUNCSEL = %d, want PWM", got)
	}
	if owner, _ := claims.PinOwner(GP0); owner != "PWM0" {
		t.Fatalf("GP0 owner = %q, want PWM0", owner)
	}
	if got := ch.ActualFrequency(); got != 1000 {
		t.Fatalf("ActualFrequency = %d, want 1000", got)
	}
}

func TestPWMSecondCompareOutput(t *testing.T) {
	resetBlocks()
	tree := pllTree(t)
	ch := pwm.NewChannel(NewPWM(0, tree), tree, nil)

	// GP1 carries slice 0's B output.
	if err := ch.Configure(pwm.Config{Out: GP1, Frequency: 1000, Duty: 500}); err != nil {
		t.Fatal(err)
	}
	s := &PWMB.Slice[0]
	if got := pwmCCB.Read(&s.CC); got != 31250 {
		t.Fatalf("CC B = %d, want 31250", got)
	}
	if got := pwmCCA.Read(&s.CC); got != 0 {
		t.Fatalf("CC A = %d, want untouched for output B", got)
	}
}

// Full duty programs the compare to top+1, so the planner must leave
// headroom for it even when the period lands on the counter limit.
func TestPWMFullDutyFitsCompare(t *testing.T) {
	resetBlocks()
	tree := clktree.MustNew(Chip,
		[]clktree.Source{{Name: "XOSC", Hz: 6_553_600}},
		[]clktree.Domain{{Name: "clk_sys", Div: 1}, {Name: "clk_peri", Div: 1}},
		0)
	ch := pwm.NewChannel(NewPWM(0, tree), tree, nil)

	if err := ch.Configure(pwm.Config{Out: GP0, Frequency: 100, Duty: 1000}); err != nil {
		t.Fatal(err)
	}
	s := &PWMB.Slice[0]
	if got := s.TOP.Get(); got != 32767 {
		t.Fatalf("TOP = %d, want 32767", got)
	}
	// The counter never reaches top+1, so the output stays high, and
	// the level still fits the 16-bit CC half.
	if got := pwmCCA.Read(&s.CC); got != 32768 {
		t.Fatalf("CC A = %d, want 32768", got)
	}

	if err := ch.SetDuty(1000); err != nil {
		t.Fatal(err)
	}
	if got := pwmCCA.Read(&s.CC); got != 32768 {
		t.Fatalf("CC A after SetDuty = %d, want 32768", got)
	}
}

func TestPWMClockSwitchKeepsProportion(t *testing.T) {
	resetBlocks()
	tree := NewClockTree()
	ch := pwm.NewChannel(NewPWM(0, tree), tree, nil)
	if err := ch.Configure(pwm.Config{Out: GP0, Frequency: 1000, Duty: 250}); err != nil {
		t.Fatal(err)
	}
	s := &PWMB.Slice[0]
	if got := s.TOP.Get(); got != 6499 {
		t.Fatalf("TOP on the ring oscillator = %d, want 6499", got)
	}
	if got := pwmCCA.Read(&s.CC); got != 1625 {
		t.Fatalf("CC A = %d, want 1625", got)
	}

	tree.SetLocked(SrcPLLSYS, true)
	if err := tree.SelectMaster(SrcPLLSYS); err != nil {
		t.Fatal(err)
	}
	if got := s.DIV.Get(); got != pwmDivInt.Enc(2) {
		t.Fatalf("DIV after switch = %#x, want integer divider 2", got)
	}
	if got := s.TOP.Get(); got != 62499 {
		t.Fatalf("TOP after switch = %d, want 62499", got)
	}
	// A quarter of the new period, not the old compare level.
	if got := pwmCCA.Read(&s.CC); got != 15625 {
		t.Fatalf("CC A after switch = %d, want 15625", got)
	}
	if !s.CSR.HasBits(csrEN) {
		t.Fatal("retiming left the slice disabled")
	}
}

func TestPWMRejectsBadPin(t *testing.T) {
	resetBlocks()
	tree := pllTree(t)
	ch := pwm.NewChannel(NewPWM(0, tree), tree, nil)

	// GP2 belongs to slice 1.
	err := ch.Configure(pwm.Config{Out: GP2, Frequency: 1000, Duty: 250})
	if !errcode.Is(err, errcode.NoRoute) {
		t.Fatalf("GP2 on slice 0 = %v, want NoRoute", err)
	}
}
