package gpio

import (
	"errors"
	"testing"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// fakePort is a 16-pin port recording mux and level state in plain
// bitmasks.
type fakePort struct {
	dirOut   uint16
	out      uint16
	enabled  uint16
	pulls    [16]Pull
	disables int
}

func (f *fakePort) HasPin(i uint8) bool { return i < 16 }
func (f *fakePort) PinDirOutput(i uint8) {
	f.dirOut |= 1 << i
	f.enabled |= 1 << i
}
func (f *fakePort) PinDirInput(i uint8, pull Pull) {
	f.dirOut &^= 1 << i
	f.enabled |= 1 << i
	f.pulls[i] = pull
}
func (f *fakePort) PinDisable(i uint8) {
	f.enabled &^= 1 << i
	f.disables++
}
func (f *fakePort) PinSet(i uint8)    { f.out |= 1 << i }
func (f *fakePort) PinClear(i uint8)  { f.out &^= 1 << i }
func (f *fakePort) PinToggle(i uint8) { f.out ^= 1 << i }
func (f *fakePort) PinRead(i uint8) bool {
	return f.out&(1<<i) != 0
}

func TestOutputRoundTrip(t *testing.T) {
	f := new(fakePort)
	p, err := Output[*fakePort](f, pinmux.PinAt(0, 3), nil)
	if err != nil {
		t.Fatal(err)
	}

	p.Set()
	if !p.Read() {
		t.Fatal("Read after Set = Low")
	}
	p.Clear()
	if p.Read() {
		t.Fatal("Read after Clear = High")
	}
	p.Toggle()
	if !p.Read() {
		t.Fatal("Read after Toggle = Low")
	}
	p.Write(false)
	if p.Read() {
		t.Fatal("Read after Write(false) = High")
	}

	if f.dirOut&(1<<3) == 0 {
		t.Error("direction not set to output")
	}
}

func TestInputPull(t *testing.T) {
	f := new(fakePort)
	if _, err := Input[*fakePort](f, pinmux.PinAt(0, 5), PullUp, nil); err != nil {
		t.Fatal(err)
	}
	if f.pulls[5] != PullUp {
		t.Errorf("pull = %d, want PullUp", f.pulls[5])
	}
	if f.dirOut&(1<<5) != 0 {
		t.Error("input pin left as output")
	}
}

func TestUnknownPin(t *testing.T) {
	f := new(fakePort)
	_, err := Output[*fakePort](f, pinmux.PinAt(0, 16), nil)
	if !errors.Is(err, errcode.UnknownPin) {
		t.Fatalf("err = %v, want unknown_pin", err)
	}
}

func TestClaimLifecycle(t *testing.T) {
	f := new(fakePort)
	claims := pinmux.NewClaims()
	pin := pinmux.PinAt(0, 7)

	p, err := Output[*fakePort](f, pin, claims)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Input[*fakePort](f, pin, PullNone, claims); !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("second configure err = %v, want pin_in_use", err)
	}

	p.Release()
	if f.disables != 1 {
		t.Errorf("disables = %d, want 1", f.disables)
	}
	if _, err := Output[*fakePort](f, pin, claims); err != nil {
		t.Fatalf("reconfigure after release: %v", err)
	}
}

// A failed claim must not touch the hardware.
func TestFailedClaimLeavesPortAlone(t *testing.T) {
	f := new(fakePort)
	claims := pinmux.NewClaims()
	pin := pinmux.PinAt(0, 2)
	if err := claims.ClaimPin(pin, "uart0"); err != nil {
		t.Fatal(err)
	}

	if _, err := Output[*fakePort](f, pin, claims); err == nil {
		t.Fatal("claim conflict not reported")
	}
	if f.enabled != 0 || f.dirOut != 0 {
		t.Error("port mutated by failed configure")
	}
}
