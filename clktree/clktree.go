// Package clktree models a chip's clock distribution: oscillator and
// PLL sources, one master clock mux, per-domain dividers, and
// per-peripheral clock gates.
//
// Configuration builders derive divisors from clock frequencies, so a
// master clock switch invalidates every frequency-derived setting.
// That dependency is explicit here: drivers subscribe, and a
// successful switch synchronously notifies them to recompute.
package clktree

import (
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// SourceID indexes a clock source in the tree's source table.
type SourceID uint8

// DomainID indexes a clock domain (CPU, bus, peripheral clock).
type DomainID uint8

// Source is one oscillator or PLL. Sources with NeedsLock start
// unlocked and may not drive the master mux until locked.
type Source struct {
	Name      string
	Hz        uint32
	NeedsLock bool
}

// Domain is one divided output of the master clock.
type Domain struct {
	Name string
	Div  uint32
}

// Tree is the clock tree for one chip. All methods are safe for
// concurrent use; subscriber callbacks run outside the tree lock.
type Tree struct {
	mu      sync.Mutex
	chip    string
	sources []Source
	domains []Domain
	master  SourceID
	locked  []bool
	gates   map[pinmux.PeripheralID]bool
	subs    []func()
}

// New builds a tree with the given source and domain tables and the
// initial master source, which must not require a lock (reset state
// runs from a free-running oscillator).
func New(chip string, sources []Source, domains []Domain, master SourceID) (*Tree, error) {
	if int(master) >= len(sources) {
		return nil, errcode.New(errcode.InvalidConfig, "clktree.New", "master source out of range")
	}
	if sources[master].NeedsLock {
		return nil, errcode.New(errcode.InvalidConfig, "clktree.New",
			"initial master "+sources[master].Name+" requires lock")
	}
	for _, d := range domains {
		if d.Div == 0 {
			return nil, errcode.New(errcode.InvalidConfig, "clktree.New",
				"domain "+d.Name+" has zero divider")
		}
	}
	t := &Tree{
		chip:    chip,
		sources: append([]Source(nil), sources...),
		domains: append([]Domain(nil), domains...),
		master:  master,
		locked:  make([]bool, len(sources)),
		gates:   make(map[pinmux.PeripheralID]bool),
	}
	return t, nil
}

// MustNew is New for package-level chip trees.
func MustNew(chip string, sources []Source, domains []Domain, master SourceID) *Tree {
	t, err := New(chip, sources, domains, master)
	if err != nil {
		panic(err)
	}
	return t
}

// Chip returns the chip name the tree was built for.
func (t *Tree) Chip() string { return t.chip }

// Master returns the currently selected master source.
func (t *Tree) Master() SourceID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.master
}

// MasterHz returns the master clock frequency.
func (t *Tree) MasterHz() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sources[t.master].Hz
}

// SourceHz returns the raw frequency of a source.
func (t *Tree) SourceHz(src SourceID) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(src) >= len(t.sources) {
		return 0, errcode.New(errcode.InvalidConfig, "clktree.SourceHz", "source out of range")
	}
	return t.sources[src].Hz, nil
}

// Hz returns the effective frequency of a clock domain.
func (t *Tree) Hz(dom DomainID) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(dom) >= len(t.domains) {
		return 0, errcode.New(errcode.InvalidConfig, "clktree.Hz", "domain out of range")
	}
	return t.sources[t.master].Hz / t.domains[dom].Div, nil
}

// DomainName returns the name of a clock domain, for tooling.
func (t *Tree) DomainName(dom DomainID) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(dom) >= len(t.domains) {
		return "DOM" + strconv.Itoa(int(dom))
	}
	return t.domains[dom].Name
}

// Domains returns the number of domains.
func (t *Tree) Domains() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.domains)
}

// SetDivider reprograms a domain divider and notifies subscribers.
func (t *Tree) SetDivider(dom DomainID, div uint32) error {
	t.mu.Lock()
	if int(dom) >= len(t.domains) {
		t.mu.Unlock()
		return errcode.New(errcode.InvalidConfig, "clktree.SetDivider", "domain out of range")
	}
	if div == 0 {
		t.mu.Unlock()
		return errcode.New(errcode.InvalidConfig, "clktree.SetDivider", "zero divider")
	}
	t.domains[dom].Div = div
	subs := t.snapshotSubs()
	t.mu.Unlock()

	notify(subs)
	return nil
}

// Locked reports whether a source has achieved lock. Sources that do
// not need a lock always report true.
func (t *Tree) Locked(src SourceID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(src) >= len(t.sources) {
		return false
	}
	return !t.sources[src].NeedsLock || t.locked[src]
}

// SetLocked records a source's lock state, mirroring the hardware lock
// flag. Chip bring-up code calls this after polling the real bit; the
// simulated tree calls it directly.
func (t *Tree) SetLocked(src SourceID, locked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(src) < len(t.sources) {
		t.locked[src] = locked
	}
}

// WaitLocked polls a source's lock state, bounded by timeout.
func (t *Tree) WaitLocked(src SourceID, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if t.Locked(src) {
			return nil
		}
		if time.Now().After(deadline) {
			if t.Locked(src) {
				return nil
			}
			return errcode.New(errcode.Timeout, "clktree.WaitLocked",
				t.sourceName(src)+" never locked")
		}
		runtime.Gosched()
	}
}

// SelectMaster switches the master clock mux. An unlocked source is
// refused: transiently running the chip from an unstable source is the
// undefined-behavior case the lock check exists to prevent. On
// success, subscribers are notified to recompute frequency-derived
// state. Selecting the current source is a no-op.
func (t *Tree) SelectMaster(src SourceID) error {
	t.mu.Lock()
	if int(src) >= len(t.sources) {
		t.mu.Unlock()
		return errcode.New(errcode.InvalidConfig, "clktree.SelectMaster", "source out of range")
	}
	if t.sources[src].NeedsLock && !t.locked[src] {
		name := t.sources[src].Name
		t.mu.Unlock()
		return errcode.New(errcode.ClockNotLocked, "clktree.SelectMaster", name)
	}
	if src == t.master {
		t.mu.Unlock()
		return nil
	}
	t.master = src
	subs := t.snapshotSubs()
	t.mu.Unlock()

	notify(subs)
	return nil
}

// Subscribe registers a recompute callback, fired synchronously after
// every master switch or divider change. The returned function cancels
// the subscription and is idempotent. Cancelled slots are reused, so
// configure/release cycles keep the subscriber table at its high-water
// size.
func (t *Tree) Subscribe(fn func()) (cancel func()) {
	t.mu.Lock()
	i := -1
	for j := range t.subs {
		if t.subs[j] == nil {
			i = j
			break
		}
	}
	if i < 0 {
		t.subs = append(t.subs, fn)
		i = len(t.subs) - 1
	} else {
		t.subs[i] = fn
	}
	t.mu.Unlock()

	done := false
	return func() {
		t.mu.Lock()
		if !done {
			t.subs[i] = nil
			done = true
		}
		t.mu.Unlock()
	}
}

func (t *Tree) snapshotSubs() []func() {
	subs := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}

// GateOn enables a peripheral's clock gate. Writing any other register
// of an unclocked block is undefined on real silicon, so drivers gate
// on before configuring.
func (t *Tree) GateOn(id pinmux.PeripheralID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gates[id] = true
}

// GateOff disables a peripheral's clock gate.
func (t *Tree) GateOff(id pinmux.PeripheralID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.gates, id)
}

// Gated reports whether a peripheral's clock gate is enabled.
func (t *Tree) Gated(id pinmux.PeripheralID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gates[id]
}

func (t *Tree) sourceName(src SourceID) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(src) >= len(t.sources) {
		return "SRC" + strconv.Itoa(int(src))
	}
	return t.sources[src].Name
}
