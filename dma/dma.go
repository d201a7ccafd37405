// Package dma models the buffer handoff of a DMA-driven transfer. The
// engine and the CPU are two independent actors on the same memory;
// exactly one of them owns the buffer at any moment. Submit hands the
// buffer to the engine, the completion signal hands it back, and every
// software access in between goes through Buffer so the race is caught
// instead of silently corrupting data.
package dma

import (
	"runtime"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// Engine is one chip DMA channel, bound at construction to its
// peripheral, direction, and trigger. Start begins moving len(buf)
// bytes and the engine owns buf until Done reports true or Abort
// stops it.
type Engine interface {
	Start(buf []byte) error
	Done() bool
	Abort()
}

// Transfer tracks who owns the buffer of one submitted transfer.
type Transfer struct {
	eng Engine
	buf []byte

	// complete latches once the engine's done flag has been observed;
	// after that the engine no longer touches the buffer.
	complete bool
}

// Submit hands buf to the engine and starts the transfer. From this
// point the engine owns the buffer: read it only through Buffer, which
// refuses access until completion. Callers must not keep reading the
// slice they passed in; the accessor is the checked path.
func Submit(eng Engine, buf []byte) (*Transfer, error) {
	if len(buf) == 0 {
		return nil, errcode.New(errcode.InvalidConfig, "dma.Submit", "empty buffer")
	}
	if err := eng.Start(buf); err != nil {
		return nil, err
	}
	return &Transfer{eng: eng, buf: buf}, nil
}

// Done polls the completion signal. Once it reports true the buffer
// belongs to software again.
func (t *Transfer) Done() bool {
	if t.complete {
		return true
	}
	if t.eng.Done() {
		t.complete = true
	}
	return t.complete
}

// Buffer returns the transferred data. While the engine still owns the
// buffer it fails with Busy; it never returns a slice the engine may
// still write.
func (t *Transfer) Buffer() ([]byte, error) {
	if !t.Done() {
		return nil, errcode.New(errcode.Busy, "dma.Buffer", "transfer in flight")
	}
	return t.buf, nil
}

// Wait polls the completion signal for at most timeout.
func (t *Transfer) Wait(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for !t.Done() {
		if time.Now().After(deadline) {
			if t.Done() {
				return nil
			}
			return errcode.New(errcode.Timeout, "dma.Wait", "transfer not complete")
		}
		runtime.Gosched()
	}
	return nil
}

// Abort stops the engine and takes the buffer back. The data is
// whatever the engine had moved so far.
func (t *Transfer) Abort() {
	if t.complete {
		return
	}
	t.eng.Abort()
	t.complete = true
}

// Copier is a software engine: Start copies the submitted buffer into
// dst and completes synchronously. It stands in for silicon channels in
// host builds and exercises the handoff without hardware.
type Copier struct {
	dst  []byte
	n    int
	done bool
}

// NewCopier returns a memory-to-memory engine writing into dst.
func NewCopier(dst []byte) *Copier {
	return &Copier{dst: dst}
}

func (c *Copier) Start(buf []byte) error {
	if c.dst == nil {
		return errcode.New(errcode.InvalidConfig, "dma.Copier", "no destination")
	}
	c.n = copy(c.dst, buf)
	c.done = true
	return nil
}

func (c *Copier) Done() bool { return c.done }
func (c *Copier) Abort()     { c.done = true }

// Copied reports how many bytes the last transfer moved.
func (c *Copier) Copied() int { return c.n }
