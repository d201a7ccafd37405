// Package probe implements the register-probe wire protocol: a framed
// request/response link between a host tool and a running target, used
// for bring-up and post-mortem inspection. The device side (Agent)
// answers peek/poke/clock/identify requests against a whitelist of
// address windows; the host side (Client) drives it over any
// io.ReadWriter, typically a serial port.
//
// The protocol is byte-oriented so it survives lossy links: every
// frame carries a length, a sequence nibble, a CRC16 and a trailing
// sync byte, and either end resynchronizes by scanning for the sync
// byte after any framing or CRC error.
package probe

// Version is reported by the identify command.
const Version = "alloy-0.1.0"

// Command identifiers (request frames, host to device).
const (
	CmdIdentify uint32 = 0 // offset, count -> RspIdentify
	CmdPeek     uint32 = 1 // addr, width -> RspPeek
	CmdPoke     uint32 = 2 // addr, width, value -> RspPoke
	CmdHz       uint32 = 3 // domain -> RspHz
	CmdTrace    uint32 = 4 // count -> RspTrace
)

// Response identifiers (device to host).
const (
	RspIdentify uint32 = 0x20
	RspPeek     uint32 = 0x21
	RspPoke     uint32 = 0x22
	RspHz       uint32 = 0x23
	RspTrace    uint32 = 0x24
	RspError    uint32 = 0x2f // code string, detail string
)

// IdentChunk is the identify transfer unit. The device answers at most
// this many blob bytes per request so a response always fits one frame.
const IdentChunk = 40
