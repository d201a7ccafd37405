package main

import (
	"fmt"

	"github.com/Alloy-Embedded/alloy-sub003/probe"
	"github.com/Alloy-Embedded/alloy-sub003/regs"
)

// openLocal maps the -mem device file and runs the agent in-process
// over it. Addresses on the command line stay bus-absolute: -base
// declares where the mapped window lives on the bus.
func openLocal() (*probe.Client, func(), error) {
	base, err := parseNum(*memBase)
	if err != nil {
		return nil, nil, err
	}
	w, err := regs.MapWindow(*memPath, 0, *memSize)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("window mapped", "path", *memPath,
		"base", fmt.Sprintf("%#x", base), "size", *memSize)

	c := probe.Local(probe.AgentConfig{
		MCU: "local",
		Windows: []probe.Window{
			{Name: "mem", Base: base, Size: uint32(*memSize), Mem: w},
		},
	})
	return c, func() { w.Close() }, nil
}
