//go:build !tinygo

package probe

import "bytes"

// localPort runs an Agent in-process: every write is handled
// synchronously and the agent's frames queue up for the next read.
// There is no link to lose, so no goroutines and no timeouts fire.
type localPort struct {
	agent *Agent
	out   bytes.Buffer
}

func (p *localPort) Write(b []byte) (int, error) {
	p.agent.Feed(b)
	return len(b), nil
}

func (p *localPort) Read(b []byte) (int, error) {
	return p.out.Read(b)
}

// Local builds a Client wired straight to an in-process Agent. The
// probe tool's local mode uses it over an mmap register window, so
// peek/poke/identify behave identically with and without a wire.
func Local(cfg AgentConfig) *Client {
	p := &localPort{}
	p.agent = NewAgent(&p.out, cfg)
	return NewClient(p, 0)
}
