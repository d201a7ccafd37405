package rp2040

import (
	"bytes"
	"testing"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
	"github.com/Alloy-Embedded/alloy-sub003/spi"
)

func TestSPIPlanRate(t *testing.T) {
	resetBlocks()
	dev := NewSPI0(NewClockTree())

	tests := []struct {
		srcHz, freq uint32
		cps, scr    uint32
		actual      uint32
		wantErr     bool
	}{
		// The fastest setting the PL022 reaches: prescale 2, SCR 0.
		{125_000_000, 62_500_000, 2, 0, 62_500_000, false},
		// 1 MHz divides to 126: the closest grid point from below.
		{125_000_000, 1_000_000, 2, 62, 992_063, false},
		{6_500_000, 1_000_000, 2, 3, 812_500, false},
		// Faster than the source can go: saturates at srcHz/2.
		{125_000_000, 200_000_000, 2, 0, 62_500_000, false},
		// Slower than the largest divider reaches.
		{125_000_000, 1000, 0, 0, 0, true},
		{125_000_000, 0, 0, 0, 0, true},
	}
	for _, tt := range tests {
		plan, err := dev.PlanRate(tt.srcHz, tt.freq)
		if tt.wantErr {
			if err == nil {
				t.Errorf("PlanRate(%d, %d) accepted", tt.srcHz, tt.freq)
			}
			continue
		}
		if err != nil {
			t.Errorf("PlanRate(%d, %d): %v", tt.srcHz, tt.freq, err)
			continue
		}
		if plan.A != tt.cps || plan.B != tt.scr || plan.Actual != tt.actual {
			t.Errorf("PlanRate(%d, %d) = cps %d scr %d actual %d, want cps %d scr %d actual %d",
				tt.srcHz, tt.freq, plan.A, plan.B, plan.Actual, tt.cps, tt.scr, tt.actual)
		}
		if plan.Actual > tt.freq {
			t.Errorf("PlanRate(%d, %d) overshoots: %d", tt.srcHz, tt.freq, plan.Actual)
		}
	}
}

func TestSPIConfigureRegisters(t *testing.T) {
	resetBlocks()
	tree := pllTree(t)
	claims := pinmux.NewClaims()
	bus := spi.NewBus(NewSPI0(tree), claims)

	err := bus.Configure(spi.Config{
		Frequency: 1_000_000,
		Mode:      spi.Mode3,
		SCK:       GP18,
		SDO:       GP19,
		SDI:       GP16,
		CS:        GP17,
	})
	if err != nil {
		t.Fatal(err)
	}

	if Resets.RESET.HasBits(rstSPI0) {
		t.Fatal("SPI0 still held in reset")
	}
	s := SPI0Regs
	if got := s.CPSR.Get(); got != 2 {
		t.Fatalf("CPSR = %d, want 2", got)
	}
	if got := spiSCR.Read(&s.CR0); got != 62 {
		t.Fatalf("SCR = %d, want 62", got)
	}
	if got := spiDSS.Read(&s.CR0); got != 7 {
		t.Fatalf("DSS = %d, want 8-bit frames", got)
	}
	if !s.CR0.HasBits(spiSPO | spiSPH) {
		t.Fatalf("CR0 = %#x, mode 3 must set SPO and SPH", s.CR0.Get())
	}
	if !s.CR1.HasBits(spiSSE) {
		t.Fatal("bus left disabled")
	}
	for _, pin := range []uint8{16, 17, 18, 19} {
		if got := IOBank0.GPIO[pin].CTRL.Get(); got != funcSPI {
			t.Fatalf("GP%d FUNCSEL = %d, want SPI", pin, got)
		}
	}
	if owner, _ := claims.PinOwner(GP18); owner != "SPI0" {
		t.Fatalf("GP18 owner = %q, want SPI0", owner)
	}
	if got := bus.ActualFrequency(); got != 992_063 {
		t.Fatalf("ActualFrequency = %d, want 992063", got)
	}
}

func TestSPILSBFirstUnsupported(t *testing.T) {
	resetBlocks()
	tree := pllTree(t)
	claims := pinmux.NewClaims()
	bus := spi.NewBus(NewSPI0(tree), claims)

	// The PL022 shifts MSB first only.
	err := bus.Configure(spi.Config{Order: spi.LSBFirst, SCK: GP18, SDO: GP19})
	if !errcode.Is(err, errcode.Unsupported) {
		t.Fatalf("LSB-first order = %v, want Unsupported", err)
	}
	if _, held := claims.PinOwner(GP18); held {
		t.Fatal("failed configure left pins claimed")
	}
}

func TestSPIExchangeEcho(t *testing.T) {
	resetBlocks()
	tree := pllTree(t)
	bus := spi.NewBus(NewSPI0(tree), nil)
	if err := bus.Configure(spi.Config{SCK: GP18, SDO: GP19, SDI: GP16}); err != nil {
		t.Fatal(err)
	}

	got, err := bus.Transfer(0xA5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xA5 {
		t.Fatalf("Transfer = %#x, want the echoed frame 0xA5", got)
	}

	w := []byte{1, 2, 3}
	r := make([]byte, 3)
	if err := bus.Tx(w, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, w) {
		t.Fatalf("Tx read %v, want echo of %v", r, w)
	}
}
