// Package gpio provides the generic pin handle. The handle is
// parameterized by the chip's port implementation and monomorphized by
// the compiler: the data path (Set/Clear/Toggle/Read) contains no
// interface values and no dynamic dispatch.
package gpio

import (
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Pull selects the input pull resistor.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// PortIO is the capability a chip port type implements. Configure
// methods select the GPIO function on the pin mux as part of setting
// direction. PinRead reports the pin level: the input stage for
// inputs, the driven level for outputs.
type PortIO interface {
	HasPin(index uint8) bool
	PinDirOutput(index uint8)
	PinDirInput(index uint8, pull Pull)
	PinDisable(index uint8)
	PinSet(index uint8)
	PinClear(index uint8)
	PinToggle(index uint8)
	PinRead(index uint8) bool
}

// Pin is a configured GPIO pin on port P.
type Pin[P PortIO] struct {
	port   P
	pin    pinmux.Pin
	claims *pinmux.Claims
}

// Output configures a pin as an output and claims it. claims may be
// nil when no ownership registry is in play (bare-metal bring-up,
// isolated tests).
func Output[P PortIO](port P, pin pinmux.Pin, claims *pinmux.Claims) (Pin[P], error) {
	p, err := claim[P](port, pin, claims)
	if err != nil {
		return Pin[P]{}, err
	}
	port.PinDirOutput(pin.Index())
	return p, nil
}

// Input configures a pin as an input with the given pull and claims it.
func Input[P PortIO](port P, pin pinmux.Pin, pull Pull, claims *pinmux.Claims) (Pin[P], error) {
	p, err := claim[P](port, pin, claims)
	if err != nil {
		return Pin[P]{}, err
	}
	port.PinDirInput(pin.Index(), pull)
	return p, nil
}

func claim[P PortIO](port P, pin pinmux.Pin, claims *pinmux.Claims) (Pin[P], error) {
	if !pin.Valid() || !port.HasPin(pin.Index()) {
		return Pin[P]{}, errcode.New(errcode.UnknownPin, "gpio.Configure", pin.String())
	}
	if claims != nil {
		if err := claims.ClaimPin(pin, "gpio:"+pin.String()); err != nil {
			return Pin[P]{}, err
		}
	}
	return Pin[P]{port: port, pin: pin, claims: claims}, nil
}

// Set drives the pin high.
func (p Pin[P]) Set() { p.port.PinSet(p.pin.Index()) }

// Clear drives the pin low.
func (p Pin[P]) Clear() { p.port.PinClear(p.pin.Index()) }

// Toggle inverts the driven level.
func (p Pin[P]) Toggle() { p.port.PinToggle(p.pin.Index()) }

// Read returns the pin level.
func (p Pin[P]) Read() bool { return p.port.PinRead(p.pin.Index()) }

// Write drives the pin to the given level.
func (p Pin[P]) Write(high bool) {
	if high {
		p.Set()
	} else {
		p.Clear()
	}
}

// Pin returns the pin identity this handle drives.
func (p Pin[P]) Pin() pinmux.Pin { return p.pin }

// Release disconnects the pin (input, no pull, mux off) and returns
// the claim.
func (p Pin[P]) Release() {
	p.port.PinDisable(p.pin.Index())
	if p.claims != nil {
		p.claims.ReleasePin(p.pin)
	}
}
