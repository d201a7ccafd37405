package stm32f4

import (
	"reflect"
	"testing"

	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

func resetBlocks() {
	GPIOA = new(GPIORegs)
	GPIOB = new(GPIORegs)
	GPIOC = new(GPIORegs)
	GPIOD = new(GPIORegs)
	GPIOE = new(GPIORegs)
	RCC = new(RCCRegs)
	USART1Regs = new(USARTRegs)
	USART2Regs = new(USARTRegs)
	USART6Regs = new(USARTRegs)
	SPI1Regs = new(SPIRegs)
	SPI2Regs = new(SPIRegs)
}

func TestRoutesResolve(t *testing.T) {
	r, ok := Routes.Find(PA9, UART1, pinmux.SigUARTTX)
	if !ok {
		t.Fatal("PA9 does not route UART1 TX")
	}
	if r.Alt != af7 {
		t.Fatalf("PA9 TX route = AF%d, want AF%d", r.Alt, af7)
	}

	if _, ok := Routes.Find(PA9, UART2, pinmux.SigUARTTX); ok {
		t.Fatal("PA9 routes UART2 TX; it belongs to USART1")
	}

	want := []pinmux.Pin{PA9, PB6}
	if got := Routes.PinsFor(UART1, pinmux.SigUARTTX); !reflect.DeepEqual(got, want) {
		t.Fatalf("UART1 TX pins = %v, want %v", got, want)
	}
}

func TestRoutesSharedPinAlternates(t *testing.T) {
	// PA11 carries USART1 CTS under AF7 and USART6 TX under AF8. The
	// table resolves the AF number from the full (pin, peripheral,
	// signal) triple, never from the pin alone.
	cts, ok := Routes.Find(PA11, UART1, pinmux.SigUARTCTS)
	if !ok || cts.Alt != af7 {
		t.Fatalf("PA11 UART1 CTS = (%+v, %v), want AF7", cts, ok)
	}
	tx, ok := Routes.Find(PA11, UART6, pinmux.SigUARTTX)
	if !ok || tx.Alt != af8 {
		t.Fatalf("PA11 UART6 TX = (%+v, %v), want AF8", tx, ok)
	}
}

func TestRoutesValidate(t *testing.T) {
	err := Routes.Validate(SPI1, map[pinmux.Signal]pinmux.Pin{
		pinmux.SigSPISCK: PA5,
		pinmux.SigSPISDO: PA7,
	})
	if err != nil {
		t.Fatalf("valid SPI1 layout rejected: %v", err)
	}

	err = Routes.Validate(SPI1, map[pinmux.Signal]pinmux.Pin{
		pinmux.SigSPISCK: PB13, // SPI2 pin
	})
	if err == nil {
		t.Fatal("SCK on PB13 accepted for SPI1")
	}
}

func TestClockDomains(t *testing.T) {
	tree := NewClockTree()

	for _, dom := range []struct {
		id   clktree.DomainID
		want uint32
	}{{DomainAHB, 16_000_000}, {DomainAPB1, 16_000_000}, {DomainAPB2, 16_000_000}} {
		hz, err := tree.Hz(dom.id)
		if err != nil || hz != dom.want {
			t.Fatalf("Hz(%s) = %d, %v; want %d", tree.DomainName(dom.id), hz, err, dom.want)
		}
	}

	// The RM caps APB1 at 42 MHz, so the switch to the 84 MHz PLL
	// divides that bus down first.
	if err := tree.SetDivider(DomainAPB1, 2); err != nil {
		t.Fatal(err)
	}
	tree.SetLocked(SrcPLL, true)
	if err := tree.SelectMaster(SrcPLL); err != nil {
		t.Fatal(err)
	}
	if hz, _ := tree.Hz(DomainAPB1); hz != 42_000_000 {
		t.Fatalf("APB1 after PLL switch = %d, want 42000000", hz)
	}
	if hz, _ := tree.Hz(DomainAPB2); hz != 84_000_000 {
		t.Fatalf("APB2 after PLL switch = %d, want 84000000", hz)
	}
}
