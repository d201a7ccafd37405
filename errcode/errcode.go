// Package errcode defines the result codes surfaced by the HAL.
//
// Hardware-facing operations report failure through values, never panics:
// the same code paths run in interrupt context on silicon and in plain
// goroutines on the host. Code is a string newtype, comparable,
// allocation-free, and implements error.
package errcode

type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Configuration-time failures.
	InvalidConfig     Code = "invalid_config"
	NoRoute           Code = "no_route"
	UnknownPin        Code = "unknown_pin"
	PinInUse          Code = "pin_in_use"
	UnknownPeripheral Code = "unknown_peripheral"
	PeripheralInUse   Code = "peripheral_in_use"
	ClockNotLocked    Code = "clock_not_locked"
	Unsupported       Code = "unsupported"

	// Operational failures.
	Busy    Code = "busy"
	Timeout Code = "timeout"
	HwFault Code = "hw_fault"

	Error Code = "error" // generic fallback
)

// E keeps context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is makes errors.Is(err, errcode.Timeout) work through the wrapper.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && e.C == c
}

// New builds an *E with an operation name and message.
func New(c Code, op, msg string) error {
	return &E{C: c, Op: op, Msg: msg}
}

// Wrap attaches a code and operation to a cause.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Is reports whether err carries the given code.
func Is(err error, c Code) bool { return Of(err) == c }
