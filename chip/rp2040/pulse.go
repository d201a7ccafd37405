//go:build rp2040

package rp2040

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
	"github.com/Alloy-Embedded/alloy-sub003/pinmux"
)

// buildPulseProgram assembles the pulse generator. One FIFO word buys
// one pulse: 8 PIO cycles high, then the word's value in clocks low,
// so spacing is hardware-timed regardless of CPU jitter.
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                   // 0: pull block
		asm.Out(rp2pio.OutDestY, 32).Encode(),            // 1: out y, 32 (gap clocks)
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 2: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 3: set pins, 0
		asm.Jmp(4, rp2pio.JmpYNZeroDec).Encode(),         // 4: jmp y--, 4
		// .wrap
	}
}

// pulseOrigin pins the program at offset 0 so the encoded jump target
// stays valid.
const pulseOrigin = 0

// PulseTrain generates hardware-timed pulse bursts on one pin through
// a PIO state machine. The CPU only feeds the FIFO; pulse width and
// spacing come from the PIO clock, so bursts stay jitter-free at rates
// the data-path drivers cannot reach.
type PulseTrain struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewPulseTrain binds a state machine; pioNum selects PIO0 or PIO1,
// smNum one of its four state machines.
func NewPulseTrain(pioNum, smNum uint8) *PulseTrain {
	p := rp2pio.PIO0
	if pioNum != 0 {
		p = rp2pio.PIO1
	}
	return &PulseTrain{pio: p, sm: p.StateMachine(smNum)}
}

// Init claims the state machine, loads the program, and parks the pin
// low with the machine running.
func (g *PulseTrain) Init(pin pinmux.Pin) error {
	if !pin.Valid() || !Bank0().HasPin(pin.Index()) {
		return errcode.New(errcode.UnknownPin, "rp2040.PulseTrain", pin.String())
	}
	g.pin = machine.Pin(pin.Index())

	g.sm.TryClaim()

	program := buildPulseProgram()
	offset, err := g.pio.AddProgram(program, pulseOrigin)
	if err != nil {
		return err
	}
	g.offset = offset

	g.pin.Configure(machine.PinConfig{Mode: g.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(g.pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1, 0)

	g.sm.Init(offset, cfg)
	g.sm.SetPindirsConsecutive(g.pin, 1, true)
	g.sm.SetPinsConsecutive(g.pin, 1, false)
	g.sm.SetEnabled(true)
	return nil
}

// Emit queues count pulses, each 8 PIO clocks high then gapClocks low
// before the next begins; instruction overhead adds three clocks per
// period. The call blocks while the four-deep FIFO is full.
func (g *PulseTrain) Emit(count int, gapClocks uint32) {
	for i := 0; i < count; i++ {
		for g.sm.IsTxFIFOFull() {
		}
		g.sm.TxPut(gapClocks)
	}
}

// Cancel drops queued pulses and leaves the generator armed for new
// ones.
func (g *PulseTrain) Cancel() {
	g.sm.SetEnabled(false)
	g.sm.ClearFIFOs()
	g.sm.Restart()
	g.sm.SetEnabled(true)
}
