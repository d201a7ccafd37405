// Package pwm implements the generic PWM driver. A channel runs a
// counter from 0 to top at srcHz/div and drives the pin high while the
// counter is below the compare level, so frequency is srcHz/(div*(top+1))
// and duty is level/(top+1). Chip packages supply the Device view; the
// driver owns the timing solver and keeps the requested duty across
// clock switches.
package pwm

import (
	"sync"

	"github.com/Alloy-Embedded/alloy-sub003/clkdiv"
	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// TimingPlan is a solved counter setting. Actual is the achieved
// output frequency after rounding.
type TimingPlan struct {
	Div    uint32
	Top    uint32
	Actual uint32
}

// BestPeriod picks the counter period p in [1, pMax] minimizing the
// error of srcHz/(div*p) against target, comparing the resulting rates
// exactly via cross-multiplication. Ties break toward the lower rate,
// i.e. the larger period.
func BestPeriod(srcHz, target, div, pMax uint32) (p, actual uint32, err error) {
	if srcHz == 0 || target == 0 || div == 0 {
		return 0, 0, errcode.New(errcode.InvalidConfig, "pwm.BestPeriod", "zero frequency")
	}
	if pMax == 0 {
		return 0, 0, errcode.New(errcode.InvalidConfig, "pwm.BestPeriod", "empty period range")
	}

	clamp := func(v uint64) uint64 {
		if v < 1 {
			return 1
		}
		if v > uint64(pMax) {
			return uint64(pMax)
		}
		return v
	}

	ideal := uint64(srcHz) / (uint64(div) * uint64(target))
	floor := clamp(ideal)
	ceil := clamp(floor + 1)

	best := floor
	if floor != ceil {
		errF := periodError(srcHz, target, div, floor) * ceil
		errC := periodError(srcHz, target, div, ceil) * floor
		// On equal error the larger period wins: lower resulting rate.
		if errC <= errF {
			best = ceil
		}
	}
	return uint32(best), uint32(uint64(srcHz) / (uint64(div) * best)), nil
}

// periodError returns |srcHz - target*div*p|, the rate error scaled by
// div*p.
func periodError(srcHz, target, div uint32, p uint64) uint64 {
	want := uint64(target) * uint64(div) * p
	if uint64(srcHz) > want {
		return uint64(srcHz) - want
	}
	return want - uint64(srcHz)
}

// Solve picks (div, top) for a linear divider. The divider is the
// smallest value that brings the period within topMax+1, so the period
// stays as large as possible and carries the duty resolution; the
// period then minimizes the rate error. The solved rate must sit
// within the divisor tolerance.
func Solve(srcHz, target, divMax, topMax uint32) (TimingPlan, error) {
	if srcHz == 0 || target == 0 {
		return TimingPlan{}, errcode.New(errcode.InvalidConfig, "pwm.Solve", "zero frequency")
	}
	if divMax == 0 || topMax == 0 {
		return TimingPlan{}, errcode.New(errcode.InvalidConfig, "pwm.Solve", "empty divider range")
	}

	pMax := uint64(topMax) + 1
	span := uint64(target) * pMax
	div := uint64(1)
	if uint64(srcHz) > span {
		div = (uint64(srcHz) + span - 1) / span
	}
	if div > uint64(divMax) {
		return TimingPlan{}, errcode.New(errcode.InvalidConfig, "pwm.Solve", "frequency below divider range")
	}

	p, actual, err := BestPeriod(srcHz, target, uint32(div), uint32(pMax))
	if err != nil {
		return TimingPlan{}, err
	}
	if err := clkdiv.CheckTolerance(target, actual, clkdiv.TolerancePermille); err != nil {
		return TimingPlan{}, err
	}
	return TimingPlan{Div: uint32(div), Top: p - 1, Actual: actual}, nil
}

// DutyLevel converts a duty in permille to the compare level for a
// counter of period top+1, rounding to nearest. 1000 permille maps to
// level top+1, which the counter never reaches: the output stays high.
func DutyLevel(permille, top uint32) uint32 {
	return uint32((uint64(permille)*(uint64(top)+1) + 500) / 1000)
}

// Config is the logical PWM channel configuration.
type Config struct {
	Out       pinmux.Pin
	Frequency uint32
	// Duty is the initial duty cycle in permille of the period.
	Duty uint32
}

// Device is the chip-side capability of one PWM channel. PlanTiming is
// pure; the rest touch registers in bring-up order.
type Device interface {
	ID() pinmux.PeripheralID
	Table() *pinmux.Table
	ClockHz() (uint32, error)

	PlanTiming(srcHz, freq uint32) (TimingPlan, error)

	GateOn()
	Disable()
	MuxPin(r pinmux.Route)
	ApplyTiming(p TimingPlan)
	ApplyDuty(level uint32)
	Enable()
}

// Channel is a PWM handle bound to one Device.
type Channel[D Device] struct {
	dev    D
	tree   *clktree.Tree
	claims *pinmux.Claims

	mu         sync.Mutex
	cfg        Config
	plan       TimingPlan
	configured bool
	unsub      func()
}

// NewChannel binds a device. tree enables timing recompute on clock
// switches; claims enables ownership checking. Either may be nil.
func NewChannel[D Device](dev D, tree *clktree.Tree, claims *pinmux.Claims) *Channel[D] {
	return &Channel[D]{dev: dev, tree: tree, claims: claims}
}

// Configure solves the timing, claims the pin, and brings the channel
// up: gate -> disable -> pinmux -> timing -> duty -> enable.
func (c *Channel[D]) Configure(cfg Config) error {
	if !cfg.Out.Valid() {
		return errcode.New(errcode.InvalidConfig, "pwm.Configure", "output pin required")
	}
	if cfg.Frequency == 0 {
		return errcode.New(errcode.InvalidConfig, "pwm.Configure", "frequency required")
	}
	if cfg.Duty > 1000 {
		return errcode.New(errcode.InvalidConfig, "pwm.Configure", "duty above 1000 permille")
	}

	table := c.dev.Table()
	if err := table.Validate(c.dev.ID(), map[pinmux.Signal]pinmux.Pin{
		pinmux.SigPWMOut: cfg.Out,
	}); err != nil {
		return err
	}

	srcHz, err := c.dev.ClockHz()
	if err != nil {
		return err
	}
	plan, err := c.dev.PlanTiming(srcHz, cfg.Frequency)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configured {
		return errcode.New(errcode.Busy, "pwm.Configure", c.dev.ID().String()+" already configured")
	}

	if c.claims != nil {
		if err := c.claims.ClaimPeripheral(c.dev.ID(), "pwm"); err != nil {
			return err
		}
		if err := c.claims.ClaimPin(cfg.Out, c.dev.ID().String()); err != nil {
			c.claims.ReleasePeripheral(c.dev.ID())
			return err
		}
	}

	c.dev.GateOn()
	c.dev.Disable()
	r, _ := table.Find(cfg.Out, c.dev.ID(), pinmux.SigPWMOut)
	c.dev.MuxPin(r)
	c.dev.ApplyTiming(plan)
	c.dev.ApplyDuty(DutyLevel(cfg.Duty, plan.Top))
	c.dev.Enable()

	c.cfg = cfg
	c.plan = plan
	c.configured = true
	if c.tree != nil {
		c.unsub = c.tree.Subscribe(c.recompute)
	}
	return nil
}

// recompute re-solves the timing after a clock switch and reprograms
// timing and compare level so the output keeps the requested frequency
// and duty. An unreachable rate under the new clock keeps the previous
// timing.
func (c *Channel[D]) recompute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.configured {
		return
	}
	srcHz, err := c.dev.ClockHz()
	if err != nil {
		return
	}
	plan, err := c.dev.PlanTiming(srcHz, c.cfg.Frequency)
	if err != nil {
		return
	}
	c.dev.ApplyTiming(plan)
	c.dev.ApplyDuty(DutyLevel(c.cfg.Duty, plan.Top))
	c.plan = plan
}

// SetDuty reprograms the compare level. The permille value is retained,
// so later clock switches keep the proportion, not the raw level.
func (c *Channel[D]) SetDuty(permille uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.configured {
		return errcode.New(errcode.InvalidConfig, "pwm.SetDuty", "channel not configured")
	}
	if permille > 1000 {
		return errcode.New(errcode.InvalidConfig, "pwm.SetDuty", "duty above 1000 permille")
	}
	c.dev.ApplyDuty(DutyLevel(permille, c.plan.Top))
	c.cfg.Duty = permille
	return nil
}

// Duty returns the requested duty in permille.
func (c *Channel[D]) Duty() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Duty
}

// Top returns the programmed counter top.
func (c *Channel[D]) Top() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan.Top
}

// Div returns the programmed clock divider.
func (c *Channel[D]) Div() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan.Div
}

// ActualFrequency returns the achieved output frequency.
func (c *Channel[D]) ActualFrequency() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan.Actual
}

// Release disables the channel, unsubscribes from clock updates, and
// returns every claim.
func (c *Channel[D]) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	c.dev.Disable()
	if c.claims != nil {
		c.claims.ReleasePin(c.cfg.Out)
		c.claims.ReleasePeripheral(c.dev.ID())
	}
	c.configured = false
}
