package circuit

import (
	"fmt"

	"github.com/fyerfyer/datpg/pkg/logic"
)

// Line represents a signal wire in the network. A line is driven by at most
// one gate (nil Parent means primary input) and feeds any number of gates
// (no Children means primary output). Structure is fixed after construction
// except for the engine's temporary fault-site splice; only Value changes
// during a search.
type Line struct {
	ID       int
	Name     string
	Value    logic.FiveValue
	Parent   *Gate   // Gate driving this line, nil for primary inputs
	Children []*Gate // Gates this line feeds into

	// For statistics and debugging
	AssignmentCount int
}

// NewLine creates a new line with the given ID and name.
func NewLine(id int, name string) *Line {
	return &Line{
		ID:    id,
		Name:  name,
		Value: logic.Unknown,
	}
}

// SetValue sets the value of the line.
func (l *Line) SetValue(v logic.FiveValue) {
	l.Value = v
	l.AssignmentCount++
}

// Reset returns the line to UNKNOWN.
func (l *Line) Reset() {
	l.Value = logic.Unknown
}

// IsPrimaryInput reports whether the line has no driving gate.
func (l *Line) IsPrimaryInput() bool { return l.Parent == nil }

// IsPrimaryOutput reports whether no gate consumes the line.
func (l *Line) IsPrimaryOutput() bool { return len(l.Children) == 0 }

// IsAssigned reports whether the line holds a determined value.
func (l *Line) IsAssigned() bool { return l.Value.IsKnown() }

// IsSensitized reports whether the line carries a fault effect (D or D').
func (l *Line) IsSensitized() bool { return l.Value.IsSensitized() }

// EquationString renders the expression driving this line, or the line's
// own name if it is a primary input.
func (l *Line) EquationString() string {
	if l.Parent != nil {
		return l.Parent.EquationString()
	}
	return l.Name
}

// String returns a string representation of the line.
func (l *Line) String() string {
	return fmt.Sprintf("%s=%s", l.Name, l.Value)
}
