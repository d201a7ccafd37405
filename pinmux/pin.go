// Package pinmux models pins, peripheral identities, and per-chip
// signal-route tables, and validates requested pin assignments against
// those tables before any register is touched.
package pinmux

import (
	"strconv"
	"strings"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// Port is a GPIO port group index: 0 for PA, 1 for PB, and so on.
// Chips with a single flat pin bank use port 0.
type Port uint8

// Pin packs a port and a pin index into one comparable value. The
// zero value is NoPin, so an unset pin field in a configuration can
// never alias a real pin.
type Pin uint16

// NoPin is the absent-pin sentinel.
const NoPin Pin = 0

// PinAt builds a Pin from a port group and an index within it.
func PinAt(port Port, index uint8) Pin {
	return Pin(uint16(port+1)<<8 | uint16(index))
}

func (p Pin) Port() Port   { return Port(p>>8) - 1 }
func (p Pin) Index() uint8 { return uint8(p) }

// Valid reports whether p names a pin at all.
func (p Pin) Valid() bool { return p != NoPin }

func (p Pin) String() string {
	if p == NoPin {
		return "NONE"
	}
	return "P" + string(rune('A'+p.Port())) + strconv.Itoa(int(p.Index()))
}

// ParsePin reads "PA3", "pb11" or the flat-bank spelling "GPIO7"
// (port 0). Host tooling only; firmware code names pins by chip-package
// constants.
func ParsePin(s string) (Pin, error) {
	orig := s
	s = strings.ToUpper(strings.TrimSpace(s))

	if n, ok := strings.CutPrefix(s, "GPIO"); ok {
		idx, err := strconv.Atoi(n)
		if err != nil || idx < 0 || idx > 255 {
			return 0, errcode.New(errcode.UnknownPin, "pinmux.ParsePin", orig)
		}
		return PinAt(0, uint8(idx)), nil
	}

	if len(s) < 3 || s[0] != 'P' || s[1] < 'A' || s[1] > 'P' {
		return 0, errcode.New(errcode.UnknownPin, "pinmux.ParsePin", orig)
	}
	idx, err := strconv.Atoi(s[2:])
	if err != nil || idx < 0 || idx > 255 {
		return 0, errcode.New(errcode.UnknownPin, "pinmux.ParsePin", orig)
	}
	return PinAt(Port(s[1]-'A'), uint8(idx)), nil
}

// Class is a peripheral kind.
type Class uint8

const (
	ClassGPIO Class = iota + 1
	ClassUART
	ClassSPI
	ClassI2C
	ClassPWM
)

func (c Class) String() string {
	switch c {
	case ClassGPIO:
		return "GPIO"
	case ClassUART:
		return "UART"
	case ClassSPI:
		return "SPI"
	case ClassI2C:
		return "I2C"
	case ClassPWM:
		return "PWM"
	}
	return "CLASS" + strconv.Itoa(int(c))
}

// PeripheralID identifies one peripheral instance: class + index.
type PeripheralID uint16

// PerID builds a PeripheralID from a class and an instance index.
func PerID(c Class, instance uint8) PeripheralID {
	return PeripheralID(uint16(c)<<8 | uint16(instance))
}

func (id PeripheralID) Class() Class    { return Class(id >> 8) }
func (id PeripheralID) Instance() uint8 { return uint8(id) }

func (id PeripheralID) String() string {
	return id.Class().String() + strconv.Itoa(int(id.Instance()))
}

// ParsePeripheral reads an instance name as written in board files:
// "UART0", "spi1", "PWM3". Host tooling only.
func ParsePeripheral(s string) (PeripheralID, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range []Class{ClassGPIO, ClassUART, ClassSPI, ClassI2C, ClassPWM} {
		name := c.String()
		if !strings.HasPrefix(want, name) {
			continue
		}
		n, err := strconv.Atoi(want[len(name):])
		if err != nil || n < 0 || n > 255 {
			break
		}
		return PerID(c, uint8(n)), nil
	}
	return 0, errcode.New(errcode.UnknownPeripheral, "pinmux.ParsePeripheral", s)
}

// Signal is a logical peripheral signal that routes to a pin.
type Signal uint8

const (
	SigUARTTX Signal = iota + 1
	SigUARTRX
	SigUARTRTS
	SigUARTCTS
	SigSPISCK
	SigSPISDO
	SigSPISDI
	SigSPICS
	SigI2CSDA
	SigI2CSCL
	SigPWMOut
)

var signalNames = map[Signal]string{
	SigUARTTX:  "TX",
	SigUARTRX:  "RX",
	SigUARTRTS: "RTS",
	SigUARTCTS: "CTS",
	SigSPISCK:  "SCK",
	SigSPISDO:  "SDO",
	SigSPISDI:  "SDI",
	SigSPICS:   "CS",
	SigI2CSDA:  "SDA",
	SigI2CSCL:  "SCL",
	SigPWMOut:  "OUT",
}

func (s Signal) String() string {
	if n, ok := signalNames[s]; ok {
		return n
	}
	return "SIG" + strconv.Itoa(int(s))
}

// ParseSignal reads a signal name as written in board files.
func ParseSignal(s string) (Signal, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for sig, name := range signalNames {
		if name == want {
			return sig, nil
		}
	}
	return 0, errcode.New(errcode.InvalidConfig, "pinmux.ParseSignal", s)
}
