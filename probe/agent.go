package probe

import (
	"io"

	"github.com/Alloy-Embedded/alloy-sub003/clktree"
	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// Space is word access into one address window. regs.Window satisfies
// it on Linux hosts; on silicon a zero-cost wrapper over the register
// cells does; tests use a RAM-backed space.
type Space interface {
	Peek32(off uintptr) (uint32, error)
	Poke32(off uintptr, v uint32) error
}

// Window is one whitelisted address range the agent will touch.
// Requests name absolute addresses; the agent translates to an offset
// within the owning window. Anything outside every window is refused
// before any access happens.
type Window struct {
	Name string
	Base uint32
	Size uint32
	Mem  Space
}

func (w *Window) contains(addr uint32, width uint32) bool {
	return addr >= w.Base && addr-w.Base+width/8 <= w.Size
}

// AgentConfig parameterizes the device side of the probe link.
type AgentConfig struct {
	MCU     string
	Clock   *clktree.Tree
	Windows []Window

	// TraceDepth sizes the access-trace ring. Zero takes
	// DefaultTraceDepth.
	TraceDepth int
}

// Agent is the device side: it consumes raw link bytes through Feed,
// executes commands against the whitelisted windows, and writes ACK
// and response frames to out. Responses never allocate per byte; the
// scratch buffers are reused across frames.
//
// Run it from the peripheral's receive path: every chunk a UART read
// returns goes straight into Feed.
type Agent struct {
	out io.Writer
	cfg AgentConfig

	rx      Deframer
	nextSeq uint8

	ident   []byte // compressed identity blob, built once
	trace   traceRing
	scratch []byte // response payload scratch
	txbuf   []byte // frame scratch
}

// DefaultTraceDepth is the access-trace ring size when the config
// leaves it zero.
const DefaultTraceDepth = 32

// NewAgent builds the agent and its identity blob. out receives every
// frame the agent emits; on silicon it is the UART handle.
func NewAgent(out io.Writer, cfg AgentConfig) *Agent {
	if cfg.TraceDepth == 0 {
		cfg.TraceDepth = DefaultTraceDepth
	}
	a := &Agent{out: out, cfg: cfg}
	a.trace.init(cfg.TraceDepth)
	a.ident = buildIdent(cfg)
	return a
}

// Feed processes raw bytes from the link. Complete valid frames are
// dispatched; garbage desynchronizes the deframer until the next sync
// byte.
func (a *Agent) Feed(data []byte) {
	a.rx.Feed(data, a.handleFrame)
}

func (a *Agent) handleFrame(seq uint8, payload []byte) {
	// Sequence nibble 0 while we expect otherwise means the host
	// restarted; fall back in step with it.
	if seq == 0 && a.nextSeq != 0 {
		a.nextSeq = 0
	}

	if seq != a.nextSeq {
		// Mismatch: the bare ACK carries the sequence we wanted,
		// which is the NAK.
		a.send(nil)
		return
	}
	a.nextSeq = (a.nextSeq + 1) & seqMask
	// ACK first so the host can separate link liveness from command
	// latency; responses follow under the same sequence.
	a.send(nil)
	a.dispatch(payload)
}

// dispatch executes every command packed in one frame payload.
func (a *Agent) dispatch(payload []byte) {
	for len(payload) > 0 {
		cmd, err := ReadUint(&payload)
		if err != nil {
			a.sendError(err)
			return
		}
		if err := a.exec(cmd, &payload); err != nil {
			a.sendError(err)
			return
		}
	}
}

func (a *Agent) exec(cmd uint32, args *[]byte) error {
	switch cmd {
	case CmdIdentify:
		return a.cmdIdentify(args)
	case CmdPeek:
		return a.cmdPeek(args)
	case CmdPoke:
		return a.cmdPoke(args)
	case CmdHz:
		return a.cmdHz(args)
	case CmdTrace:
		return a.cmdTrace(args)
	}
	return errcode.New(errcode.Unsupported, "probe.Agent", "unknown command")
}

func (a *Agent) cmdIdentify(args *[]byte) error {
	offset, err := ReadUint(args)
	if err != nil {
		return err
	}
	count, err := ReadUint(args)
	if err != nil {
		return err
	}
	if count > IdentChunk {
		count = IdentChunk
	}
	blob := a.ident
	if offset > uint32(len(blob)) {
		offset = uint32(len(blob))
	}
	chunk := blob[offset:]
	if uint32(len(chunk)) > count {
		chunk = chunk[:count]
	}

	p := a.payload(RspIdentify)
	p = AppendUint(p, offset)
	p = AppendBytes(p, chunk)
	a.send(p)
	return nil
}

func (a *Agent) cmdPeek(args *[]byte) error {
	addr, err := ReadUint(args)
	if err != nil {
		return err
	}
	width, err := ReadUint(args)
	if err != nil {
		return err
	}
	v, err := a.peek(addr, width)
	if err != nil {
		return err
	}
	a.trace.record(traceOpPeek, addr, uint8(width), v)

	p := a.payload(RspPeek)
	p = AppendUint(p, addr)
	p = AppendUint(p, v)
	a.send(p)
	return nil
}

func (a *Agent) cmdPoke(args *[]byte) error {
	addr, err := ReadUint(args)
	if err != nil {
		return err
	}
	width, err := ReadUint(args)
	if err != nil {
		return err
	}
	value, err := ReadUint(args)
	if err != nil {
		return err
	}
	if err := a.poke(addr, width, value); err != nil {
		return err
	}
	a.trace.record(traceOpPoke, addr, uint8(width), value)

	p := a.payload(RspPoke)
	p = AppendUint(p, addr)
	a.send(p)
	return nil
}

func (a *Agent) cmdHz(args *[]byte) error {
	domain, err := ReadUint(args)
	if err != nil {
		return err
	}
	if a.cfg.Clock == nil {
		return errcode.New(errcode.Unsupported, "probe.Agent", "no clock tree")
	}
	hz, err := a.cfg.Clock.Hz(clktree.DomainID(domain))
	if err != nil {
		return err
	}
	p := a.payload(RspHz)
	p = AppendUint(p, domain)
	p = AppendUint(p, hz)
	a.send(p)
	return nil
}

// maxTraceResp bounds the events one response frame is guaranteed to
// carry at worst-case encoding (1 op + 5 addr + 1 width + 5 value).
const maxTraceResp = (MaxPayload - 2) / 12

func (a *Agent) cmdTrace(args *[]byte) error {
	count, err := ReadUint(args)
	if err != nil {
		return err
	}
	if count > maxTraceResp {
		count = maxTraceResp
	}
	events := a.trace.last(int(count))

	p := a.payload(RspTrace)
	p = AppendUint(p, uint32(len(events)))
	for _, e := range events {
		p = AppendUint(p, uint32(e.Op))
		p = AppendUint(p, e.Addr)
		p = AppendUint(p, uint32(e.Width))
		p = AppendUint(p, e.Value)
	}
	a.send(p)
	return nil
}

// window finds the whitelisted window containing [addr, addr+width/8).
func (a *Agent) window(addr, width uint32) (*Window, error) {
	for i := range a.cfg.Windows {
		if a.cfg.Windows[i].contains(addr, width) {
			return &a.cfg.Windows[i], nil
		}
	}
	return nil, errcode.New(errcode.InvalidConfig, "probe.Agent", "address outside probe windows")
}

func checkAccess(addr, width uint32) error {
	switch width {
	case 8, 16, 32:
	default:
		return errcode.New(errcode.Unsupported, "probe.Agent", "width must be 8, 16 or 32")
	}
	if addr%(width/8) != 0 {
		return errcode.New(errcode.InvalidConfig, "probe.Agent", "misaligned address")
	}
	return nil
}

// peek reads one value. Sub-word widths read the containing word and
// extract; device registers on the supported chips tolerate 32-bit
// reads of any field.
func (a *Agent) peek(addr, width uint32) (uint32, error) {
	if err := checkAccess(addr, width); err != nil {
		return 0, err
	}
	w, err := a.window(addr, width)
	if err != nil {
		return 0, err
	}
	word := addr &^ 3
	v, err := w.Mem.Peek32(uintptr(word - w.Base))
	if err != nil {
		return 0, err
	}
	shift := (addr & 3) * 8
	switch width {
	case 8:
		return v >> shift & 0xff, nil
	case 16:
		return v >> shift & 0xffff, nil
	}
	return v, nil
}

// poke writes one value. Sub-word widths are a read-modify-write of
// the containing word; an interrupt on the target can interleave
// between the read and the write, which is acceptable for a debug tool.
func (a *Agent) poke(addr, width, value uint32) error {
	if err := checkAccess(addr, width); err != nil {
		return err
	}
	if width < 32 && value >= 1<<width {
		return errcode.New(errcode.InvalidConfig, "probe.Agent", "value exceeds width")
	}
	w, err := a.window(addr, width)
	if err != nil {
		return err
	}
	word := addr &^ 3
	if width == 32 {
		return w.Mem.Poke32(uintptr(word-w.Base), value)
	}
	old, err := w.Mem.Peek32(uintptr(word - w.Base))
	if err != nil {
		return err
	}
	shift := (addr & 3) * 8
	mask := (uint32(1)<<width - 1) << shift
	return w.Mem.Poke32(uintptr(word-w.Base), old&^mask|value<<shift)
}

// payload starts a response payload in the shared scratch buffer.
func (a *Agent) payload(rsp uint32) []byte {
	a.scratch = AppendUint(a.scratch[:0], rsp)
	return a.scratch
}

func (a *Agent) sendError(err error) {
	code := string(errcode.Of(err))
	detail := err.Error()
	// Both strings plus their length prefixes must fit one frame.
	if limit := MaxPayload - 3 - len(code); len(detail) > limit {
		detail = detail[:limit]
	}
	p := a.payload(RspError)
	p = AppendString(p, code)
	p = AppendString(p, detail)
	a.send(p)
}

// send frames payload (nil for a bare ACK) under the current sequence
// and writes it out.
func (a *Agent) send(payload []byte) {
	a.txbuf = AppendFrame(a.txbuf[:0], a.nextSeq, payload)
	a.out.Write(a.txbuf)
}
