package algorithm

import (
	"fmt"

	"github.com/fyerfyer/datpg/pkg/circuit"
	"github.com/fyerfyer/datpg/pkg/logic"
)

// Direction tells the implication procedure which neighbors of a line to
// revisit after the line received a value.
type Direction int

const (
	// Backward recomputes the driving gate's frontier membership.
	Backward Direction = iota
	// Forward recomputes each consuming gate's frontier membership and
	// output.
	Forward
	// Both propagates in both directions.
	Both
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// AssignmentQueueItem is one pending unit of work: assign Value to Line,
// then propagate in Dir.
type AssignmentQueueItem struct {
	Line  *circuit.Line
	Value logic.FiveValue
	Dir   Direction
}

// String returns a string representation of the queue item.
func (it AssignmentQueueItem) String() string {
	return fmt.Sprintf("(%s, %s, %s)", it.Line.Name, it.Value, it.Dir)
}

// AssignmentContext is a transactional log of line mutations. Assign
// records the previous value before overwriting; Revert undoes all
// recorded mutations in reverse order. One context covers one search
// level: the implication pass plus any deeper branch that fails.
type AssignmentContext struct {
	entries []undoEntry
}

type undoEntry struct {
	line *circuit.Line
	prev logic.FiveValue
}

// Assign records the line's current value and overwrites it.
func (c *AssignmentContext) Assign(line *circuit.Line, value logic.FiveValue) {
	c.entries = append(c.entries, undoEntry{line: line, prev: line.Value})
	line.SetValue(value)
}

// Revert restores every recorded line to its previous value, newest first,
// and clears the log.
func (c *AssignmentContext) Revert() {
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		e.line.Value = e.prev
	}
	c.entries = nil
}
