package circuit

import (
	"fmt"
	"strings"
)

// Network aggregates the gates and lines reachable through construction.
// It is built once by a Builder and queried many times; it owns no search
// state.
type Network struct {
	Name  string
	Gates []*Gate // in construction order
	Lines []*Line // in construction order
}

// Inputs returns the primary inputs: lines with no driving gate.
func (n *Network) Inputs() []*Line {
	var inputs []*Line
	for _, l := range n.Lines {
		if l.IsPrimaryInput() {
			inputs = append(inputs, l)
		}
	}
	return inputs
}

// Outputs returns the primary outputs: lines that feed no gate.
func (n *Network) Outputs() []*Line {
	var outputs []*Line
	for _, l := range n.Lines {
		if l.IsPrimaryOutput() {
			outputs = append(outputs, l)
		}
	}
	return outputs
}

// LineByName returns the line with the given name, or nil.
func (n *Network) LineByName(name string) *Line {
	for _, l := range n.Lines {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Contains reports whether the line belongs to this network.
func (n *Network) Contains(line *Line) bool {
	for _, l := range n.Lines {
		if l == line {
			return true
		}
	}
	return false
}

// Reset returns every line to UNKNOWN. It is idempotent.
func (n *Network) Reset() {
	for _, l := range n.Lines {
		l.Reset()
	}
}

// String returns a string representation of the network state.
func (n *Network) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Network: %s\n", n.Name)
	b.WriteString("Inputs:")
	for _, l := range n.Inputs() {
		fmt.Fprintf(&b, " %s", l)
	}
	b.WriteString("\nOutputs:")
	for _, l := range n.Outputs() {
		fmt.Fprintf(&b, " %s", l)
	}
	return b.String()
}
