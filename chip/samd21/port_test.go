package samd21

import (
	"testing"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/gpio"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

func TestPortOutput(t *testing.T) {
	resetBlocks()
	claims := pinmux.NewClaims()

	p, err := gpio.Output(PortA(), PA02, claims)
	if err != nil {
		t.Fatal(err)
	}
	grp := &PORT.Group[0]
	if !grp.DIR.HasBits(1 << 2) {
		t.Fatal("DIR bit not set")
	}
	if got := grp.PINCFG[2].Get(); got != pincfgINEN {
		t.Fatalf("PINCFG = %#x, want INEN", got)
	}

	p.Set()
	if !grp.OUT.HasBits(1<<2) || !p.Read() {
		t.Fatal("Set did not drive the output latch")
	}
	p.Toggle()
	if grp.OUT.HasBits(1<<2) || p.Read() {
		t.Fatal("Toggle did not invert the latch")
	}
	p.Write(true)
	if !p.Read() {
		t.Fatal("Write(true) did not drive high")
	}

	if _, err := gpio.Output(PortA(), PA02, claims); !errcode.Is(err, errcode.PinInUse) {
		t.Fatalf("second claim = %v, want PinInUse", err)
	}

	p.Release()
	if grp.PINCFG[2].Get() != 0 {
		t.Fatal("Release left PINCFG configured")
	}
	if _, held := claims.PinOwner(PA02); held {
		t.Fatal("Release left the pin claimed")
	}
}

func TestPortInputPulls(t *testing.T) {
	resetBlocks()
	grp := &PORT.Group[0]

	up, err := gpio.Input(PortA(), PA03, gpio.PullUp, nil)
	if err != nil {
		t.Fatal(err)
	}
	if grp.DIR.HasBits(1 << 3) {
		t.Fatal("input left DIR set")
	}
	if got := grp.PINCFG[3].Get(); got != pincfgINEN|pincfgPULLEN {
		t.Fatalf("PINCFG = %#x, want INEN|PULLEN", got)
	}
	// Pull direction rides on the output latch.
	if !grp.OUT.HasBits(1 << 3) {
		t.Fatal("pull-up did not set the output latch")
	}

	if up.Read() {
		t.Fatal("input reads high with IN clear")
	}
	grp.IN.SetBits(1 << 3)
	if !up.Read() {
		t.Fatal("input misses the IN level")
	}

	if _, err := gpio.Input(PortA(), PA05, gpio.PullDown, nil); err != nil {
		t.Fatal(err)
	}
	if grp.OUT.HasBits(1 << 5) {
		t.Fatal("pull-down set the output latch")
	}
}

func TestPortRejectsUnknownPin(t *testing.T) {
	resetBlocks()
	if _, err := gpio.Output(PortA(), pinmux.PinAt(0, 40), nil); !errcode.Is(err, errcode.UnknownPin) {
		t.Fatalf("index 40 = %v, want UnknownPin", err)
	}
	if _, err := gpio.Output(PortA(), pinmux.NoPin, nil); !errcode.Is(err, errcode.UnknownPin) {
		t.Fatalf("NoPin = %v, want UnknownPin", err)
	}
}

func TestPortMuxNibbles(t *testing.T) {
	resetBlocks()
	pa := PortA()

	pa.muxPin(5, funcC)
	if got := PORT.Group[0].PMUX[2].Get(); got != 0x20 {
		t.Fatalf("PMUX[2] = %#x after odd-pin mux, want 0x20", got)
	}
	pa.muxPin(4, funcD)
	if got := PORT.Group[0].PMUX[2].Get(); got != 0x23 {
		t.Fatalf("PMUX[2] = %#x after even-pin mux, want 0x23", got)
	}
	if got := PORT.Group[0].PINCFG[4].Get(); got != pincfgPMUXEN|pincfgINEN {
		t.Fatalf("PINCFG[4] = %#x, want PMUXEN|INEN", got)
	}
}
