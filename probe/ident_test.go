package probe

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"io"
	"testing"

	"github.com/Alloy-Embedded/alloy-sub003/clktree"
)

// The device-built blob must be a stream a stock zlib inflates: the
// host side never sees the stored-block shortcut.
func TestIdentBlobInflates(t *testing.T) {
	clock := clktree.MustNew("sim",
		[]clktree.Source{{Name: "OSC", Hz: 48_000_000}},
		[]clktree.Domain{{Name: "clk_sys", Div: 1}},
		0)
	cfg := AgentConfig{
		MCU:   "samd21",
		Clock: clock,
		Windows: []Window{
			{Name: "PORT", Base: 0x4100_4400, Size: 0x200},
		},
	}

	blob := buildIdent(cfg)
	zr, err := zlib.NewReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("zlib header rejected: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Equal(raw, identJSON(cfg)) {
		t.Fatal("inflated blob differs from source dictionary")
	}

	var id Ident
	if err := json.Unmarshal(raw, &id); err != nil {
		t.Fatalf("dictionary is not valid JSON: %v\n%s", err, raw)
	}
	if id.Version != Version || id.MCU != "samd21" {
		t.Errorf("ident = %q/%q", id.Version, id.MCU)
	}
	if id.Clocks["clk_sys"] != 48_000_000 {
		t.Errorf("clk_sys = %d", id.Clocks["clk_sys"])
	}
	if w := id.Windows["PORT"]; w != [2]uint32{0x4100_4400, 0x200} {
		t.Errorf("PORT window = %v", w)
	}
	if id.Commands["peek"] != int(CmdPeek) {
		t.Errorf("commands table = %v", id.Commands)
	}
}

// Inputs past one stored block must split correctly; checksum covers
// the whole payload.
func TestZlibStoredMultiBlock(t *testing.T) {
	data := make([]byte, storedBlockMax+100)
	for i := range data {
		data[i] = byte(i * 7)
	}
	zr, err := zlib.NewReader(bytes.NewReader(zlibStored(data)))
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("multi-block payload corrupted")
	}
}

func TestZlibStoredEmpty(t *testing.T) {
	zr, err := zlib.NewReader(bytes.NewReader(zlibStored(nil)))
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	out, err := io.ReadAll(zr)
	if err != nil || len(out) != 0 {
		t.Fatalf("empty stream = % x, %v", out, err)
	}
}
