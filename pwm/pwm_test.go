package pwm

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

func TestBestPeriod(t *testing.T) {
	cases := []struct {
		name       string
		srcHz      uint32
		target     uint32
		div        uint32
		pMax       uint32
		wantP      uint32
		wantActual uint32
	}{
		{"exact", 48_000_000, 1000, 1, 65536, 48_000, 1000},
		{"divided exact", 48_000_000, 1000, 4, 65536, 12_000, 1000},
		{"clamp to one", 1000, 100_000, 1, 65536, 1, 1000},
		{"clamp to max", 48_000_000, 1, 1, 1000, 1000, 48_000},
	}
	for _, tc := range cases {
		p, actual, err := BestPeriod(tc.srcHz, tc.target, tc.div, tc.pMax)
		if err != nil {
			t.Errorf("%s: err = %v", tc.name, err)
			continue
		}
		if p != tc.wantP || actual != tc.wantActual {
			t.Errorf("%s: got p=%d actual=%d, want p=%d actual=%d",
				tc.name, p, actual, tc.wantP, tc.wantActual)
		}
	}
}

// Equal error above and below resolves to the larger period, the lower
// resulting rate.
func TestBestPeriodTieBreaksLow(t *testing.T) {
	p, actual, err := BestPeriod(1200, 900, 1, 16)
	if err != nil {
		t.Fatal(err)
	}
	if p != 2 || actual != 600 {
		t.Fatalf("tie resolved to p=%d actual=%d, want p=2 actual=600", p, actual)
	}
}

func TestSolve(t *testing.T) {
	// 48 MHz for 1 kHz fits without dividing: full period resolution.
	plan, err := Solve(48_000_000, 1000, 255, 65535)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Div != 1 || plan.Top != 47_999 || plan.Actual != 1000 {
		t.Fatalf("plan = %+v", plan)
	}

	// 1 Hz forces the divider up; the period stays near its ceiling.
	plan, err = Solve(48_000_000, 1, 1024, 65535)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Div != 733 || plan.Top != 65_483 || plan.Actual != 1 {
		t.Fatalf("plan = %+v", plan)
	}

	if _, err := Solve(48_000_000, 1, 10, 65535); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("exhausted divider err = %v", err)
	}
	if _, err := Solve(1000, 320, 255, 2); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("out-of-tolerance err = %v", err)
	}
	if _, err := Solve(0, 1000, 255, 65535); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("zero clock err = %v", err)
	}
}

func TestDutyLevel(t *testing.T) {
	cases := []struct {
		permille uint32
		top      uint32
		want     uint32
	}{
		{0, 47_999, 0},
		{250, 47_999, 12_000},
		{500, 999, 500},
		{1000, 47_999, 48_000}, // always high: one past top
		{333, 2, 1},            // rounds to nearest
		{500, 2, 2},
	}
	for _, tc := range cases {
		if got := DutyLevel(tc.permille, tc.top); got != tc.want {
			t.Errorf("DutyLevel(%d, %d) = %d, want %d", tc.permille, tc.top, got, tc.want)
		}
	}
}

var testOut = pinmux.PinAt(0, 6)

type fakeDev struct {
	id    pinmux.PeripheralID
	table *pinmux.Table
	hz    uint32
	log   []string
}

func newFakeDev(t *testing.T) *fakeDev {
	t.Helper()
	id := pinmux.PerID(pinmux.ClassPWM, 0)
	table, err := pinmux.NewTable("fake", []pinmux.Route{
		{Pin: testOut, Per: id, Sig: pinmux.SigPWMOut, Alt: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &fakeDev{id: id, table: table, hz: 48_000_000}
}

func (d *fakeDev) ID() pinmux.PeripheralID  { return d.id }
func (d *fakeDev) Table() *pinmux.Table     { return d.table }
func (d *fakeDev) ClockHz() (uint32, error) { return d.hz, nil }

func (d *fakeDev) PlanTiming(srcHz, freq uint32) (TimingPlan, error) {
	return Solve(srcHz, freq, 255, 65535)
}

func (d *fakeDev) GateOn()  { d.log = append(d.log, "gate") }
func (d *fakeDev) Disable() { d.log = append(d.log, "disable") }
func (d *fakeDev) MuxPin(r pinmux.Route) {
	d.log = append(d.log, fmt.Sprintf("mux %s %s alt%d", r.Pin, r.Sig, r.Alt))
}
func (d *fakeDev) ApplyTiming(p TimingPlan) {
	d.log = append(d.log, fmt.Sprintf("timing %d %d", p.Div, p.Top))
}
func (d *fakeDev) ApplyDuty(level uint32) {
	d.log = append(d.log, fmt.Sprintf("duty %d", level))
}
func (d *fakeDev) Enable() { d.log = append(d.log, "enable") }

func configured(t *testing.T, dev *fakeDev, tree *clktree.Tree) *Channel[*fakeDev] {
	t.Helper()
	c := NewChannel[*fakeDev](dev, tree, nil)
	if err := c.Configure(Config{Out: testOut, Frequency: 1000, Duty: 250}); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestConfigureOrder(t *testing.T) {
	dev := newFakeDev(t)
	configured(t, dev, nil)

	want := []string{
		"gate",
		"disable",
		"mux PA6 OUT alt5",
		"timing 1 47999",
		"duty 12000",
		"enable",
	}
	if !reflect.DeepEqual(dev.log, want) {
		t.Fatalf("write sequence:\n got %q\nwant %q", dev.log, want)
	}
}

func TestConfigureRejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want errcode.Code
	}{
		{"no pin", Config{Frequency: 1000}, errcode.InvalidConfig},
		{"no frequency", Config{Out: testOut}, errcode.InvalidConfig},
		{"duty range", Config{Out: testOut, Frequency: 1000, Duty: 1001}, errcode.InvalidConfig},
		{"unrouted pin", Config{Out: pinmux.PinAt(0, 7), Frequency: 1000}, errcode.NoRoute},
	}
	for _, tc := range cases {
		dev := newFakeDev(t)
		c := NewChannel[*fakeDev](dev, nil, nil)
		if err := c.Configure(tc.cfg); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
		if len(dev.log) != 0 {
			t.Errorf("%s: registers touched: %q", tc.name, dev.log)
		}
	}
}

func TestConfigureTwiceBusy(t *testing.T) {
	dev := newFakeDev(t)
	c := configured(t, dev, nil)
	if err := c.Configure(Config{Out: testOut, Frequency: 1000}); !errors.Is(err, errcode.Busy) {
		t.Fatalf("err = %v, want busy", err)
	}
}

func TestSetDuty(t *testing.T) {
	dev := newFakeDev(t)
	c := configured(t, dev, nil)

	mark := len(dev.log)
	if err := c.SetDuty(500); err != nil {
		t.Fatal(err)
	}
	if got := dev.log[mark:]; len(got) != 1 || got[0] != "duty 24000" {
		t.Fatalf("SetDuty wrote %q, want only the compare level", got)
	}
	if c.Duty() != 500 {
		t.Fatalf("Duty = %d", c.Duty())
	}

	if err := c.SetDuty(1001); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("over-range err = %v", err)
	}
	unconfigured := NewChannel[*fakeDev](newFakeDev(t), nil, nil)
	if err := unconfigured.SetDuty(1); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("unconfigured err = %v", err)
	}
}

// A master clock switch re-solves the timing and reprograms timing and
// compare level; the duty proportion is preserved, not the raw level.
func TestClockSwitchKeepsDuty(t *testing.T) {
	dev := newFakeDev(t)
	tree := clktree.MustNew("fake",
		[]clktree.Source{
			{Name: "OSC", Hz: 48_000_000},
			{Name: "PLL", Hz: 60_000_000, NeedsLock: true},
		},
		[]clktree.Domain{{Name: "PER", Div: 1}},
		0)
	c := configured(t, dev, tree)

	dev.hz = 60_000_000
	tree.SetLocked(1, true)
	mark := len(dev.log)
	if err := tree.SelectMaster(1); err != nil {
		t.Fatal(err)
	}

	want := []string{"timing 1 59999", "duty 15000"}
	if got := dev.log[mark:]; !reflect.DeepEqual(got, want) {
		t.Fatalf("recompute wrote %q, want %q", got, want)
	}
	if c.Duty() != 250 || c.Top() != 59_999 || c.ActualFrequency() != 1000 {
		t.Fatalf("duty=%d top=%d actual=%d", c.Duty(), c.Top(), c.ActualFrequency())
	}
}

// A clock the config cannot be solved against keeps the previous
// timing in place.
func TestClockSwitchUnreachableKeepsOldTiming(t *testing.T) {
	dev := newFakeDev(t)
	tree := clktree.MustNew("fake",
		[]clktree.Source{
			{Name: "OSC", Hz: 48_000_000},
			{Name: "SLOW", Hz: 100},
		},
		[]clktree.Domain{{Name: "PER", Div: 1}},
		0)
	c := configured(t, dev, tree)

	dev.hz = 100
	mark := len(dev.log)
	if err := tree.SelectMaster(1); err != nil {
		t.Fatal(err)
	}
	if got := dev.log[mark:]; len(got) != 0 {
		t.Fatalf("unreachable recompute wrote %q", got)
	}
	if c.Top() != 47_999 {
		t.Fatalf("Top = %d, want the old timing", c.Top())
	}
}

func TestClaimsAndRelease(t *testing.T) {
	dev := newFakeDev(t)
	claims := pinmux.NewClaims()
	c := NewChannel[*fakeDev](dev, nil, claims)
	if err := c.Configure(Config{Out: testOut, Frequency: 1000}); err != nil {
		t.Fatal(err)
	}
	if owner, _ := claims.PinOwner(testOut); owner != "PWM0" {
		t.Errorf("pin owner = %q", owner)
	}

	c.Release()
	if _, held := claims.PinOwner(testOut); held {
		t.Error("pin still claimed after Release")
	}
	if dev.log[len(dev.log)-1] != "disable" {
		t.Errorf("Release did not disable: %q", dev.log)
	}

	// Conflicting pin claim rolls the peripheral claim back.
	if err := claims.ClaimPin(testOut, "elsewhere"); err != nil {
		t.Fatal(err)
	}
	c2 := NewChannel[*fakeDev](newFakeDev(t), nil, claims)
	if err := c2.Configure(Config{Out: testOut, Frequency: 1000}); !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("err = %v, want pin_in_use", err)
	}
	if err := claims.ClaimPeripheral(pinmux.PerID(pinmux.ClassPWM, 0), "x"); err != nil {
		t.Errorf("peripheral leaked after failed configure: %v", err)
	}
}
