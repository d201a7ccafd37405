package probe

// Access-trace ring. Every successful peek and poke is recorded so a
// post-mortem dump can show what the host touched last. Recording is
// non-blocking and fixed-size; old entries are overwritten.

type traceOp uint8

const (
	traceOpPeek traceOp = 1
	traceOpPoke traceOp = 2
)

// AccessEvent is one recorded register access.
type AccessEvent struct {
	Op    traceOp
	Addr  uint32
	Width uint8
	Value uint32
}

func (o traceOp) String() string {
	switch o {
	case traceOpPeek:
		return "peek"
	case traceOpPoke:
		return "poke"
	}
	return "?"
}

type traceRing struct {
	events []AccessEvent
	head   int // next write position
	count  int
}

func (r *traceRing) init(depth int) {
	r.events = make([]AccessEvent, depth)
}

func (r *traceRing) record(op traceOp, addr uint32, width uint8, value uint32) {
	r.events[r.head] = AccessEvent{Op: op, Addr: addr, Width: width, Value: value}
	r.head = (r.head + 1) % len(r.events)
	if r.count < len(r.events) {
		r.count++
	}
	if debugPrintln != nil {
		debugPrintln("probe: " + op.String())
	}
}

// last returns up to n events, oldest first.
func (r *traceRing) last(n int) []AccessEvent {
	if n > r.count {
		n = r.count
	}
	out := make([]AccessEvent, 0, n)
	start := r.head - n
	if start < 0 {
		start += len(r.events)
	}
	for i := 0; i < n; i++ {
		out = append(out, r.events[(start+i)%len(r.events)])
	}
	return out
}

// debugPrintln is the settable debug sink. Nil by default: tracing into
// the ring is always on, narration is opt-in because it costs time on
// the device.
var debugPrintln func(string)

// SetDebugWriter routes probe debug lines to a platform writer (UART,
// USB console). Pass nil to silence.
func SetDebugWriter(w func(string)) {
	debugPrintln = w
}
