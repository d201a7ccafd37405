package clktree

import (
	"errors"
	"testing"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

const (
	srcOSC SourceID = iota
	srcXTAL
	srcPLL
)

const (
	domCPU DomainID = iota
	domBus
)

func testTree(t *testing.T) *Tree {
	t.Helper()
	tr, err := New("testchip",
		[]Source{
			{Name: "OSC8M", Hz: 8_000_000},
			{Name: "XOSC", Hz: 12_000_000},
			{Name: "PLL", Hz: 48_000_000, NeedsLock: true},
		},
		[]Domain{
			{Name: "CPU", Div: 1},
			{Name: "BUS", Div: 4},
		},
		srcOSC)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestNewRejectsBadTables(t *testing.T) {
	srcs := []Source{{Name: "OSC", Hz: 8_000_000}, {Name: "PLL", Hz: 96_000_000, NeedsLock: true}}
	doms := []Domain{{Name: "CPU", Div: 1}}

	if _, err := New("c", srcs, doms, 7); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("out-of-range master err = %v", err)
	}
	if _, err := New("c", srcs, doms, 1); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("locked initial master err = %v", err)
	}
	if _, err := New("c", srcs, []Domain{{Name: "CPU", Div: 0}}, 0); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("zero divider err = %v", err)
	}
}

func TestHzThroughDividers(t *testing.T) {
	tr := testTree(t)
	if hz, _ := tr.Hz(domCPU); hz != 8_000_000 {
		t.Errorf("CPU Hz = %d", hz)
	}
	if hz, _ := tr.Hz(domBus); hz != 2_000_000 {
		t.Errorf("BUS Hz = %d", hz)
	}
	if _, err := tr.Hz(99); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("unknown domain err = %v", err)
	}
}

// Switching to a source that has not locked is refused and the master
// stays put; after lock the same switch succeeds.
func TestSelectMasterLockCheck(t *testing.T) {
	tr := testTree(t)

	err := tr.SelectMaster(srcPLL)
	if !errors.Is(err, errcode.ClockNotLocked) {
		t.Fatalf("err = %v, want clock_not_locked", err)
	}
	if tr.Master() != srcOSC {
		t.Fatal("master changed on a refused switch")
	}
	if tr.MasterHz() != 8_000_000 {
		t.Fatalf("MasterHz = %d after refused switch", tr.MasterHz())
	}

	tr.SetLocked(srcPLL, true)
	if err := tr.SelectMaster(srcPLL); err != nil {
		t.Fatalf("switch after lock: %v", err)
	}
	if tr.MasterHz() != 48_000_000 {
		t.Fatalf("MasterHz = %d, want 48 MHz", tr.MasterHz())
	}
	if hz, _ := tr.Hz(domBus); hz != 12_000_000 {
		t.Errorf("BUS Hz after switch = %d", hz)
	}
}

func TestSelectMasterNoLockNeeded(t *testing.T) {
	tr := testTree(t)
	if err := tr.SelectMaster(srcXTAL); err != nil {
		t.Fatalf("free-running source refused: %v", err)
	}
	if err := tr.SelectMaster(42); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("unknown source err = %v", err)
	}
}

// A successful switch notifies each subscriber exactly once; a refused
// switch and a same-source switch notify nobody.
func TestObserverContract(t *testing.T) {
	tr := testTree(t)

	var a, b int
	cancelA := tr.Subscribe(func() { a++ })
	tr.Subscribe(func() { b++ })

	tr.SelectMaster(srcPLL) // refused, unlocked
	if a != 0 || b != 0 {
		t.Fatalf("refused switch notified: a=%d b=%d", a, b)
	}

	tr.SetLocked(srcPLL, true)
	if err := tr.SelectMaster(srcPLL); err != nil {
		t.Fatal(err)
	}
	if a != 1 || b != 1 {
		t.Fatalf("switch notified a=%d b=%d, want 1/1", a, b)
	}

	if err := tr.SelectMaster(srcPLL); err != nil {
		t.Fatal(err)
	}
	if a != 1 || b != 1 {
		t.Fatalf("same-source switch notified: a=%d b=%d", a, b)
	}

	cancelA()
	tr.SelectMaster(srcOSC)
	if a != 1 {
		t.Errorf("cancelled subscriber ran: a=%d", a)
	}
	if b != 2 {
		t.Errorf("b = %d, want 2", b)
	}
}

// A cancelled slot is handed to the next subscriber, so repeated
// configure/release cycles do not grow the table, and a stale cancel
// cannot evict the slot's new owner.
func TestSubscribeReusesCancelledSlots(t *testing.T) {
	tr := testTree(t)

	var n int
	for i := 0; i < 100; i++ {
		cancel := tr.Subscribe(func() { n++ })
		cancel()
	}
	if got := len(tr.subs); got != 1 {
		t.Fatalf("subscriber table grew to %d slots, want 1", got)
	}

	cancelA := tr.Subscribe(func() {})
	cancelA()
	cancelA() // idempotent

	var b int
	tr.Subscribe(func() { b++ })
	cancelA() // stale; must not touch the reused slot

	if err := tr.SetDivider(domBus, 2); err != nil {
		t.Fatal(err)
	}
	if b != 1 {
		t.Fatalf("reused subscriber ran %d times, want 1", b)
	}
}

// Subscribers may query the tree from inside the callback.
func TestSubscriberMayQueryTree(t *testing.T) {
	tr := testTree(t)
	var seen uint32
	tr.Subscribe(func() { seen = tr.MasterHz() })

	tr.SetLocked(srcPLL, true)
	if err := tr.SelectMaster(srcPLL); err != nil {
		t.Fatal(err)
	}
	if seen != 48_000_000 {
		t.Fatalf("subscriber saw %d", seen)
	}
}

func TestSetDividerNotifies(t *testing.T) {
	tr := testTree(t)
	var n int
	tr.Subscribe(func() { n++ })

	if err := tr.SetDivider(domBus, 8); err != nil {
		t.Fatal(err)
	}
	if hz, _ := tr.Hz(domBus); hz != 1_000_000 {
		t.Errorf("BUS Hz = %d after redivide", hz)
	}
	if n != 1 {
		t.Errorf("notified %d times, want 1", n)
	}

	if err := tr.SetDivider(domBus, 0); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("zero divider err = %v", err)
	}
	if err := tr.SetDivider(99, 1); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("unknown domain err = %v", err)
	}
}

func TestWaitLocked(t *testing.T) {
	tr := testTree(t)

	start := time.Now()
	err := tr.WaitLocked(srcPLL, 15*time.Millisecond)
	if !errors.Is(err, errcode.Timeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("wait ran far past its bound")
	}

	// Lock arrives while waiting.
	go func() {
		time.Sleep(5 * time.Millisecond)
		tr.SetLocked(srcPLL, true)
	}()
	if err := tr.WaitLocked(srcPLL, time.Second); err != nil {
		t.Fatalf("err = %v after lock", err)
	}

	// Sources without a lock requirement are always ready.
	if err := tr.WaitLocked(srcOSC, 0); err != nil {
		t.Fatalf("free-running source: %v", err)
	}
}

func TestGates(t *testing.T) {
	tr := testTree(t)
	id := pinmux.PerID(pinmux.ClassUART, 0)

	if tr.Gated(id) {
		t.Fatal("gate enabled at reset")
	}
	tr.GateOn(id)
	if !tr.Gated(id) {
		t.Fatal("gate off after GateOn")
	}
	tr.GateOn(id) // idempotent
	tr.GateOff(id)
	if tr.Gated(id) {
		t.Fatal("gate on after GateOff")
	}
}
