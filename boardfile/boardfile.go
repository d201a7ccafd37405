// Package boardfile loads YAML board descriptors and validates their
// pin assignments against the chip's signal-route table before anything
// gets flashed. A board file is the host-tool rendition of the board
// configuration external interface: it names an MCU, gives logical
// names to bare GPIO pins, and assigns pins to peripheral signals.
//
//	name: control-board
//	mcu: rp2040
//	pins:
//	  led: GPIO25
//	peripherals:
//	  - name: UART0
//	    signals:
//	      TX: GPIO0
//	      RX: GPIO1
package boardfile

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/Alloy-Embedded/alloy-sub003/chip/rp2040"
	"github.com/Alloy-Embedded/alloy-sub003/chip/samd21"
	"github.com/Alloy-Embedded/alloy-sub003/chip/stm32f4"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// Board is a parsed board descriptor.
type Board struct {
	Name        string            `yaml:"name"`
	MCU         string            `yaml:"mcu"`
	Pins        map[string]string `yaml:"pins"`
	Peripherals []Peripheral      `yaml:"peripherals"`
}

// Peripheral assigns pins to the signals of one peripheral instance.
type Peripheral struct {
	Name    string            `yaml:"name"`
	Signals map[string]string `yaml:"signals"`
}

// tables maps the mcu field to the chip's route table.
var tables = map[string]*pinmux.Table{
	rp2040.Chip:  rp2040.Routes,
	samd21.Chip:  samd21.Routes,
	stm32f4.Chip: stm32f4.Routes,
}

// Chips lists the MCU names board files may use.
func Chips() []string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Parse decodes a board descriptor. Strict decoding: an unknown or
// misspelled key is an error, not a silently dropped assignment.
func Parse(data []byte) (*Board, error) {
	var b Board
	if err := yaml.UnmarshalStrict(data, &b); err != nil {
		return nil, fmt.Errorf("boardfile: %w", err)
	}
	if b.Name == "" {
		return nil, errcode.New(errcode.InvalidConfig, "boardfile.Parse", "missing board name")
	}
	if b.MCU == "" {
		return nil, errcode.New(errcode.InvalidConfig, "boardfile.Parse", "missing mcu")
	}
	return &b, nil
}

// Load reads and decodes a board descriptor file.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("boardfile: %w", err)
	}
	return Parse(data)
}

// Problem is one failed check, precise enough to fix the file: which
// entry, which pin, which signal.
type Problem struct {
	Entry  string // "pins.led" or "UART0.TX"
	Pin    string
	Detail string
}

func (p Problem) String() string {
	return p.Entry + " (" + p.Pin + "): " + p.Detail
}

// Validate checks every assignment in the board file against the MCU's
// route table and reports all problems at once, so one pass over the
// output fixes the file.
func (b *Board) Validate() ([]Problem, error) {
	table, ok := tables[b.MCU]
	if !ok {
		return nil, errcode.New(errcode.InvalidConfig, "boardfile.Validate",
			"unknown mcu "+b.MCU)
	}

	var problems []Problem
	claims := pinmux.NewClaims()

	claim := func(entry, pinName string, pin pinmux.Pin) {
		if err := claims.ClaimPin(pin, entry); err != nil {
			owner, _ := claims.PinOwner(pin)
			problems = append(problems, Problem{
				Entry: entry, Pin: pinName,
				Detail: "pin already assigned to " + owner,
			})
		}
	}

	// Bare GPIO pins, in name order for stable output.
	names := make([]string, 0, len(b.Pins))
	for n := range b.Pins {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		entry := "pins." + n
		pin, err := pinmux.ParsePin(b.Pins[n])
		if err != nil {
			problems = append(problems, Problem{Entry: entry, Pin: b.Pins[n], Detail: "unknown pin"})
			continue
		}
		claim(entry, b.Pins[n], pin)
	}

	for _, per := range b.Peripherals {
		id, err := pinmux.ParsePeripheral(per.Name)
		if err != nil {
			problems = append(problems, Problem{
				Entry: per.Name, Pin: "", Detail: "unknown peripheral",
			})
			continue
		}
		sigNames := make([]string, 0, len(per.Signals))
		for s := range per.Signals {
			sigNames = append(sigNames, s)
		}
		sort.Strings(sigNames)
		for _, s := range sigNames {
			entry := per.Name + "." + s
			pinName := per.Signals[s]

			sig, err := pinmux.ParseSignal(s)
			if err != nil {
				problems = append(problems, Problem{Entry: entry, Pin: pinName, Detail: "unknown signal"})
				continue
			}
			pin, err := pinmux.ParsePin(pinName)
			if err != nil {
				problems = append(problems, Problem{Entry: entry, Pin: pinName, Detail: "unknown pin"})
				continue
			}
			if _, ok := table.Find(pin, id, sig); !ok {
				alts := table.PinsFor(id, sig)
				detail := "no route on " + b.MCU
				if len(alts) > 0 {
					detail += "; routable pins: " + pinList(alts)
				}
				problems = append(problems, Problem{Entry: entry, Pin: pinName, Detail: detail})
				continue
			}
			claim(entry, pinName, pin)
		}
	}
	return problems, nil
}

func pinList(pins []pinmux.Pin) string {
	s := ""
	for i, p := range pins {
		if i > 0 {
			s += " "
		}
		s += p.String()
	}
	return s
}
