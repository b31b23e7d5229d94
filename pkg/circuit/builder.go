package circuit

import (
	"fmt"

	"github.com/pkg/errors"
)

// Builder construction errors.
var (
	// ErrNoActiveNetwork is returned when gates are constructed through a
	// builder that has already been finished.
	ErrNoActiveNetwork = errors.New("no active network: builder already finished")
	// ErrBadGate is returned for structurally invalid gate requests.
	ErrBadGate = errors.New("invalid gate construction")
)

// Builder incrementally assembles a Network. It owns the naming counters
// used to deduplicate line and gate names, so independent builders never
// share state and may be used concurrently with each other. After Build is
// called the builder is finished and further construction fails with
// ErrNoActiveNetwork.
type Builder struct {
	net        *Network
	nameCounts map[string]int
	nextLineID int
	nextGateID int
	finished   bool
}

// NewBuilder creates a builder for a network with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		net:        &Network{Name: name},
		nameCounts: make(map[string]int),
	}
}

// uniqueName deduplicates a requested name: the first use is returned
// verbatim, later uses get a numeric suffix.
func (b *Builder) uniqueName(name string) string {
	count := b.nameCounts[name]
	b.nameCounts[name]++
	if count > 0 {
		return fmt.Sprintf("%s_%d", name, count)
	}
	return name
}

// Line creates a line and registers it with the network under construction.
// An empty name is replaced by an auto-generated one.
func (b *Builder) Line(name string) *Line {
	if name == "" {
		name = "line"
	}
	l := NewLine(b.nextLineID, b.uniqueName(name))
	b.nextLineID++
	b.net.Lines = append(b.net.Lines, l)
	return l
}

// Lines creates one line per name.
func (b *Builder) Lines(names ...string) []*Line {
	lines := make([]*Line, len(names))
	for i, name := range names {
		lines[i] = b.Line(name)
	}
	return lines
}

// Gate creates a gate of the given type, wires it between the input lines
// and the output line, and registers it with the network. A nil output
// creates a fresh auto-named line. An empty name defaults to the gate type.
func (b *Builder) Gate(t GateType, inputs []*Line, output *Line, name string) (*Gate, error) {
	if b.finished {
		return nil, errors.Wrapf(ErrNoActiveNetwork, "cannot add %s gate to network %q", t, b.net.Name)
	}
	if len(inputs) == 0 {
		return nil, errors.Wrapf(ErrBadGate, "%s gate needs at least one input", t)
	}
	if t == NOT && len(inputs) != 1 {
		return nil, errors.Wrapf(ErrBadGate, "NOT gate must have exactly one input, got %d", len(inputs))
	}
	for i, in := range inputs {
		if in == nil {
			return nil, errors.Wrapf(ErrBadGate, "%s gate input %d is nil", t, i)
		}
	}
	if output == nil {
		output = b.Line("")
	}
	if output.Parent != nil {
		return nil, errors.Wrapf(ErrBadGate, "line %s is already driven by %s", output.Name, output.Parent.Name)
	}

	if name == "" {
		name = t.String()
	}
	g := &Gate{
		ID:     b.nextGateID,
		Name:   b.uniqueName(name),
		Type:   t,
		Inputs: inputs,
		Output: output,
	}
	b.nextGateID++

	for _, in := range inputs {
		in.Children = append(in.Children, g)
		b.adopt(in)
	}
	output.Parent = g
	b.adopt(output)
	b.net.Gates = append(b.net.Gates, g)
	return g, nil
}

// adopt registers a line the builder has not seen yet, so lines created
// outside the builder still end up owned by the network.
func (b *Builder) adopt(l *Line) {
	for _, known := range b.net.Lines {
		if known == l {
			return
		}
	}
	l.ID = b.nextLineID
	b.nextLineID++
	b.net.Lines = append(b.net.Lines, l)
}

// Build finishes construction and returns the network. The builder cannot
// be used afterwards.
func (b *Builder) Build() (*Network, error) {
	if b.finished {
		return nil, errors.Wrapf(ErrNoActiveNetwork, "network %q already built", b.net.Name)
	}
	b.finished = true
	return b.net, nil
}
