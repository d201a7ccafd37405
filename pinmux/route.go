package pinmux

import (
	"sort"
	"strings"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// AltFunc is the chip's function-select code for a route: PMUX function
// on SAMD, AF number on STM32, FUNCSEL on RP2040.
type AltFunc uint8

// Route is one routing fact: signal Sig of peripheral Per may appear on
// Pin under function code Alt. Unit carries a chip-specific sub-channel
// (SERCOM pad, PWM slice channel); zero where unused.
type Route struct {
	Pin  Pin
	Per  PeripheralID
	Sig  Signal
	Alt  AltFunc
	Unit uint8
}

func (r Route) key() uint64 {
	return uint64(r.Pin)<<24 | uint64(r.Per)<<8 | uint64(r.Sig)
}

// Table is an immutable, sorted signal-route table for one chip.
type Table struct {
	chip   string
	routes []Route
}

// NewTable copies, sorts, and checks the route list. A duplicate
// (pin, peripheral, signal) entry is a data defect in the chip table.
func NewTable(chip string, routes []Route) (*Table, error) {
	rs := make([]Route, len(routes))
	copy(rs, routes)
	sort.Slice(rs, func(i, j int) bool { return rs[i].key() < rs[j].key() })

	for i := 1; i < len(rs); i++ {
		if rs[i].key() == rs[i-1].key() {
			return nil, errcode.New(errcode.InvalidConfig, "pinmux.NewTable",
				chip+": duplicate route "+rs[i].Pin.String()+"/"+rs[i].Per.String()+"/"+rs[i].Sig.String())
		}
	}
	return &Table{chip: chip, routes: rs}, nil
}

// MustTable is NewTable for package-level chip tables, where a bad
// table is unrecoverable.
func MustTable(chip string, routes []Route) *Table {
	t, err := NewTable(chip, routes)
	if err != nil {
		panic(err)
	}
	return t
}

// Chip returns the chip name the table was built for.
func (t *Table) Chip() string { return t.chip }

// Len returns the number of routes.
func (t *Table) Len() int { return len(t.routes) }

// Routes returns a copy of the route list, for tools and tests.
func (t *Table) Routes() []Route {
	rs := make([]Route, len(t.routes))
	copy(rs, t.routes)
	return rs
}

// Find looks up the route for (pin, peripheral, signal).
func (t *Table) Find(pin Pin, per PeripheralID, sig Signal) (Route, bool) {
	key := Route{Pin: pin, Per: per, Sig: sig}.key()
	i := sort.Search(len(t.routes), func(i int) bool { return t.routes[i].key() >= key })
	if i < len(t.routes) && t.routes[i].key() == key {
		return t.routes[i], true
	}
	return Route{}, false
}

// PinsFor lists every pin that can carry (peripheral, signal), in pin
// order.
func (t *Table) PinsFor(per PeripheralID, sig Signal) []Pin {
	var pins []Pin
	for _, r := range t.routes {
		if r.Per == per && r.Sig == sig {
			pins = append(pins, r.Pin)
		}
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i] < pins[j] })
	return pins
}

// Validate checks that every requested signal of a peripheral instance
// has a route to its assigned pin. All offending assignments are
// reported in one error.
func (t *Table) Validate(per PeripheralID, want map[Signal]Pin) error {
	var bad []string
	for sig, pin := range want {
		if _, ok := t.Find(pin, per, sig); !ok {
			bad = append(bad, per.String()+"."+sig.String()+"->"+pin.String())
		}
	}
	if len(bad) == 0 {
		return nil
	}
	sort.Strings(bad)
	return errcode.New(errcode.NoRoute, "pinmux.Validate",
		t.chip+": "+strings.Join(bad, ", "))
}
