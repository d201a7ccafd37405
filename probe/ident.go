package probe

import (
	"hash/adler32"
	"strconv"

	"github.com/Alloy-Embedded/alloy-sub003/clktree"
)

// The identify blob is a zlib stream the host inflates with its stock
// zlib. The device side emits stored (uncompressed) DEFLATE blocks
// only: correct zlib framing at a few dozen bytes of code, no
// compress/flate in the firmware image.

// buildIdent renders the agent's identity dictionary as JSON and wraps
// it in a zlib stream. Built once at agent construction; identify
// serves it in chunks.
func buildIdent(cfg AgentConfig) []byte {
	return zlibStored(identJSON(cfg))
}

// identJSON builds the dictionary by hand: the key set is small and
// fixed, and encoding/json pulls reflection into the firmware image.
func identJSON(cfg AgentConfig) []byte {
	b := make([]byte, 0, 256)
	b = append(b, `{"version":"`...)
	b = append(b, Version...)
	b = append(b, `","mcu":"`...)
	b = append(b, cfg.MCU...)
	b = append(b, `","clocks":{`...)
	if cfg.Clock != nil {
		for d := 0; d < cfg.Clock.Domains(); d++ {
			if d > 0 {
				b = append(b, ',')
			}
			hz, _ := cfg.Clock.Hz(clktree.DomainID(d))
			b = append(b, '"')
			b = append(b, cfg.Clock.DomainName(clktree.DomainID(d))...)
			b = append(b, `":`...)
			b = strconv.AppendUint(b, uint64(hz), 10)
		}
	}
	b = append(b, `},"windows":{`...)
	for i, w := range cfg.Windows {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '"')
		b = append(b, w.Name...)
		b = append(b, `":[`...)
		b = strconv.AppendUint(b, uint64(w.Base), 10)
		b = append(b, ',')
		b = strconv.AppendUint(b, uint64(w.Size), 10)
		b = append(b, ']')
	}
	b = append(b, `},"commands":{"identify":0,"peek":1,"poke":2,"hz":3,"trace":4}}`...)
	return b
}

const storedBlockMax = 0xffff

// zlibStored wraps data in a zlib stream of stored DEFLATE blocks.
func zlibStored(data []byte) []byte {
	blocks := (len(data) + storedBlockMax - 1) / storedBlockMax
	if blocks == 0 {
		blocks = 1
	}
	out := make([]byte, 0, 2+len(data)+5*blocks+4)

	// Zlib header: deflate, 32K window, default level, no dict.
	out = append(out, 0x78, 0x9c)

	rest := data
	for {
		n := len(rest)
		if n > storedBlockMax {
			n = storedBlockMax
		}
		final := byte(0)
		if n == len(rest) {
			final = 1
		}
		// Stored block: BFINAL/BTYPE=00, then LEN and NLEN little-endian.
		out = append(out, final,
			byte(n), byte(n>>8),
			byte(^uint16(n)), byte(^uint16(n)>>8))
		out = append(out, rest[:n]...)
		rest = rest[n:]
		if final == 1 {
			break
		}
	}

	sum := adler32.Checksum(data)
	return append(out, byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))
}
