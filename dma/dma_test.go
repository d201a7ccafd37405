package dma

import (
	"bytes"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/errcode"
)

// fakeEngine is a channel whose completion flag the test flips by hand.
type fakeEngine struct {
	done     atomic.Bool
	started  []byte
	startErr error
	aborted  bool
}

func (e *fakeEngine) Start(buf []byte) error {
	if e.startErr != nil {
		return e.startErr
	}
	e.started = buf
	return nil
}
func (e *fakeEngine) Done() bool { return e.done.Load() }
func (e *fakeEngine) Abort()     { e.aborted = true }

func TestBufferHeldUntilComplete(t *testing.T) {
	eng := &fakeEngine{}
	tr, err := Submit(eng, []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}

	if tr.Done() {
		t.Fatal("transfer done before engine finished")
	}
	if _, err := tr.Buffer(); !errors.Is(err, errcode.Busy) {
		t.Fatalf("Buffer during flight err = %v, want busy", err)
	}

	eng.done.Store(true)
	if !tr.Done() {
		t.Fatal("completion signal not observed")
	}
	buf, err := tr.Buffer()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{1, 2, 3}) {
		t.Fatalf("buffer = %v", buf)
	}
}

func TestSubmitRejects(t *testing.T) {
	eng := &fakeEngine{}
	if _, err := Submit(eng, nil); !errors.Is(err, errcode.InvalidConfig) {
		t.Errorf("empty buffer err = %v", err)
	}

	eng.startErr = errcode.New(errcode.Busy, "fake.Start", "channel in use")
	if _, err := Submit(eng, []byte{1}); !errors.Is(err, errcode.Busy) {
		t.Errorf("start failure err = %v", err)
	}
}

func TestWaitBounded(t *testing.T) {
	eng := &fakeEngine{}
	tr, err := Submit(eng, []byte{1})
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	werr := tr.Wait(20 * time.Millisecond)
	elapsed := time.Since(start)
	if !errors.Is(werr, errcode.Timeout) {
		t.Fatalf("err = %v, want timeout", werr)
	}
	if elapsed < 20*time.Millisecond {
		t.Fatalf("returned before the bound: %v", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("wait ran far past its bound: %v", elapsed)
	}
}

func TestWaitSeesCompletion(t *testing.T) {
	eng := &fakeEngine{}
	tr, err := Submit(eng, []byte{1})
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		eng.done.Store(true)
	}()
	if err := tr.Wait(time.Second); err != nil {
		t.Fatalf("Wait = %v", err)
	}
	if _, err := tr.Buffer(); err != nil {
		t.Fatalf("Buffer after Wait = %v", err)
	}
}

func TestAbortReturnsOwnership(t *testing.T) {
	eng := &fakeEngine{}
	tr, err := Submit(eng, []byte{9})
	if err != nil {
		t.Fatal(err)
	}

	tr.Abort()
	if !eng.aborted {
		t.Fatal("engine not stopped")
	}
	if _, err := tr.Buffer(); err != nil {
		t.Fatalf("Buffer after Abort = %v", err)
	}

	// Abort after completion leaves the engine alone.
	eng2 := &fakeEngine{}
	tr2, _ := Submit(eng2, []byte{1})
	eng2.done.Store(true)
	tr2.Done()
	tr2.Abort()
	if eng2.aborted {
		t.Fatal("completed transfer aborted the engine")
	}
}

func TestCopier(t *testing.T) {
	dst := make([]byte, 4)
	eng := NewCopier(dst)
	tr, err := Submit(eng, []byte("data"))
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Wait(time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if string(dst) != "data" || eng.Copied() != 4 {
		t.Fatalf("dst = %q, copied = %d", dst, eng.Copied())
	}

	if _, err := Submit(NewCopier(nil), []byte{1}); !errors.Is(err, errcode.InvalidConfig) {
		t.Fatalf("nil destination err = %v", err)
	}
}
