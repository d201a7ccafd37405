package pinmux

import (
	"sync"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// Claims is the runtime ownership registry for pins and peripheral
// instances. Register blocks are singleton resources: exactly one
// handle may drive a peripheral instance, and exactly one handle may
// mux a pin, until released.
type Claims struct {
	mu   sync.Mutex
	pins map[Pin]string
	pers map[PeripheralID]string
}

func NewClaims() *Claims {
	return &Claims{
		pins: make(map[Pin]string),
		pers: make(map[PeripheralID]string),
	}
}

// ClaimPin records owner as the holder of pin. A second claim fails
// with PinInUse naming the current holder.
func (c *Claims) ClaimPin(pin Pin, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.pins[pin]; ok {
		return errcode.New(errcode.PinInUse, "pinmux.ClaimPin",
			pin.String()+" held by "+cur)
	}
	c.pins[pin] = owner
	return nil
}

// ReleasePin returns a pin. Releasing an unclaimed pin is a no-op.
func (c *Claims) ReleasePin(pin Pin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pins, pin)
}

// PinOwner reports the current holder of a pin.
func (c *Claims) PinOwner(pin Pin) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.pins[pin]
	return o, ok
}

// ClaimPeripheral records owner as the holder of a peripheral instance.
func (c *Claims) ClaimPeripheral(id PeripheralID, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.pers[id]; ok {
		return errcode.New(errcode.PeripheralInUse, "pinmux.ClaimPeripheral",
			id.String()+" held by "+cur)
	}
	c.pers[id] = owner
	return nil
}

// ReleasePeripheral returns a peripheral instance.
func (c *Claims) ReleasePeripheral(id PeripheralID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pers, id)
}

// ClaimPins claims every pin in the set, rolling back on the first
// conflict so a failed configure leaves nothing held.
func (c *Claims) ClaimPins(pins []Pin, owner string) error {
	for i, p := range pins {
		if err := c.ClaimPin(p, owner); err != nil {
			for _, q := range pins[:i] {
				c.ReleasePin(q)
			}
			return err
		}
	}
	return nil
}

// ReleasePins releases every pin in the set.
func (c *Claims) ReleasePins(pins []Pin) {
	for _, p := range pins {
		c.ReleasePin(p)
	}
}
