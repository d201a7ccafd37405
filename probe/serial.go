//go:build !tinygo

package probe

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is the host-side link the Client runs over. Reads are expected
// to time out rather than block forever; the client polls.
type Port interface {
	io.ReadWriteCloser
}

// SerialConfig selects the serial device for OpenSerial.
type SerialConfig struct {
	Device string // "/dev/ttyACM0", "COM3"
	Baud   int    // ignored by USB CDC targets

	// ReadTimeout is the per-Read timeout. Zero takes 100ms, long
	// enough for a frame at any supported baud, short enough for the
	// client's deadline loop.
	ReadTimeout time.Duration
}

type serialPort struct {
	port *serial.Port
}

// OpenSerial opens the device for probe traffic.
func OpenSerial(cfg SerialConfig) (Port, error) {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 100 * time.Millisecond
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("probe: open %s: %w", cfg.Device, err)
	}
	return &serialPort{port: p}, nil
}

func (p *serialPort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *serialPort) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *serialPort) Close() error                { return p.port.Close() }
