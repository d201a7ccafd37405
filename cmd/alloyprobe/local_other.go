//go:build !linux

package main

import (
	"fmt"

	"github.com/Alloy-Embedded/alloy-sub003/probe"
)

func openLocal() (*probe.Client, func(), error) {
	return nil, nil, fmt.Errorf("-mem requires linux (mmap register window)")
}
