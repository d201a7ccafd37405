// Command alloyprobe talks the probe protocol to a running target, or
// runs the agent in-process against a local mmap register window.
//
// Usage:
//
//	alloyprobe [flags] peek <addr> [width]
//	alloyprobe [flags] poke <addr> <value> [width]
//	alloyprobe [flags] hz [domain]
//	alloyprobe [flags] ident
//	alloyprobe [flags] trace [count]
//	alloyprobe check <board.yaml>
//
// The target is either -device (serial) or -mem (local mmap window,
// Linux only; peek/poke/ident).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Alloy-Embedded/alloy-sub003/boardfile"
	"github.com/Alloy-Embedded/alloy-sub003/probe"
)

var (
	device  = flag.String("device", "", "serial device of the target (/dev/ttyACM0)")
	baud    = flag.Int("baud", 115200, "serial baud rate (ignored by USB CDC)")
	memPath = flag.String("mem", "", "device file for local register window mode (/dev/gpiomem)")
	memBase = flag.String("base", "0", "bus address the local window starts at")
	memSize = flag.Int("size", 4096, "local window size in bytes")
	timeout = flag.Duration("timeout", 2*time.Second, "per-command timeout")
	verbose = flag.Bool("v", false, "debug logging")
)

var logLevel = new(slog.LevelVar)

var log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: logLevel,
})).With("component", "alloyprobe")

func main() {
	flag.Usage = usage
	flag.Parse()
	if *verbose {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelWarn)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "peek":
		err = runPeek(rest)
	case "poke":
		err = runPoke(rest)
	case "hz":
		err = runHz(rest)
	case "ident":
		err = runIdent()
	case "trace":
		err = runTrace(rest)
	case "check":
		err = runCheck(rest)
	default:
		fmt.Fprintf(os.Stderr, "alloyprobe: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: alloyprobe [flags] <command>

commands:
  peek <addr> [width]          read a register (width 8/16/32, default 32)
  poke <addr> <value> [width]  write a register
  hz [domain]                  query a clock domain frequency (default 0)
  ident                        fetch and print the target identity
  trace [count]                dump the target's access trace (default 16)
  check <board.yaml>           validate a board file against its chip
                               (known chips: %s)

flags:
`, strings.Join(boardfile.Chips(), ", "))
	flag.PrintDefaults()
}

// connect opens the selected transport and returns the probe client
// plus a cleanup func.
func connect() (*probe.Client, func(), error) {
	switch {
	case *device != "" && *memPath != "":
		return nil, nil, fmt.Errorf("-device and -mem are mutually exclusive")
	case *device != "":
		port, err := probe.OpenSerial(probe.SerialConfig{Device: *device, Baud: *baud})
		if err != nil {
			return nil, nil, err
		}
		log.Debug("serial link open", "device", *device, "baud", *baud)
		return probe.NewClient(port, *timeout), func() { port.Close() }, nil
	case *memPath != "":
		return openLocal()
	}
	return nil, nil, fmt.Errorf("no target: pass -device or -mem")
}

func parseNum(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32) // accepts 0x.., 0.., decimal
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	return uint32(v), nil
}

func parseWidth(args []string, pos int) (uint32, error) {
	if len(args) <= pos {
		return 32, nil
	}
	w, err := parseNum(args[pos])
	if err != nil {
		return 0, err
	}
	return w, nil
}

func runPeek(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: peek <addr> [width]")
	}
	addr, err := parseNum(args[0])
	if err != nil {
		return err
	}
	width, err := parseWidth(args, 1)
	if err != nil {
		return err
	}
	c, done, err := connect()
	if err != nil {
		return err
	}
	defer done()

	v, err := c.Peek(addr, width)
	if err != nil {
		return err
	}
	fmt.Printf("0x%08x: 0x%0*x\n", addr, width/4, v)
	return nil
}

func runPoke(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: poke <addr> <value> [width]")
	}
	addr, err := parseNum(args[0])
	if err != nil {
		return err
	}
	value, err := parseNum(args[1])
	if err != nil {
		return err
	}
	width, err := parseWidth(args, 2)
	if err != nil {
		return err
	}
	c, done, err := connect()
	if err != nil {
		return err
	}
	defer done()

	if err := c.Poke(addr, width, value); err != nil {
		return err
	}
	log.Debug("poked", "addr", fmt.Sprintf("%#x", addr), "value", fmt.Sprintf("%#x", value))
	return nil
}

func runHz(args []string) error {
	domain := uint32(0)
	if len(args) > 0 {
		d, err := parseNum(args[0])
		if err != nil {
			return err
		}
		domain = d
	}
	c, done, err := connect()
	if err != nil {
		return err
	}
	defer done()

	hz, err := c.Hz(domain)
	if err != nil {
		return err
	}
	fmt.Printf("domain %d: %d Hz\n", domain, hz)
	return nil
}

func runIdent() error {
	c, done, err := connect()
	if err != nil {
		return err
	}
	defer done()

	id, err := c.Identify()
	if err != nil {
		return err
	}
	fmt.Printf("version: %s\nmcu:     %s\n", id.Version, id.MCU)

	names := make([]string, 0, len(id.Clocks))
	for n := range id.Clocks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("clock %-10s %d Hz\n", n, id.Clocks[n])
	}

	names = names[:0]
	for n := range id.Windows {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		w := id.Windows[n]
		fmt.Printf("window %-9s 0x%08x +0x%x\n", n, w[0], w[1])
	}
	return nil
}

func runTrace(args []string) error {
	count := 16
	if len(args) > 0 {
		n, err := parseNum(args[0])
		if err != nil {
			return err
		}
		count = int(n)
	}
	c, done, err := connect()
	if err != nil {
		return err
	}
	defer done()

	events, err := c.Trace(count)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("trace empty")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s%-2d 0x%08x = 0x%08x\n", e.Op, e.Width, e.Addr, e.Value)
	}
	return nil
}

func runCheck(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: check <board.yaml>")
	}
	b, err := boardfile.Load(args[0])
	if err != nil {
		return err
	}
	problems, err := b.Validate()
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Printf("%s: %s board ok\n", b.Name, b.MCU)
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "%s: %s\n", b.Name, p)
	}
	return fmt.Errorf("%d problem(s)", len(problems))
}
