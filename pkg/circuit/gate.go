package circuit

import (
	"fmt"
	"strings"

	"github.com/fyerfyer/datpg/pkg/logic"
)

// GateType is the closed set of gate variants. The set is fixed and matched
// exhaustively wherever gates are evaluated or rendered.
type GateType int

const (
	AND GateType = iota
	NAND
	OR
	NOR
	XOR
	XNOR
	NOT
)

// String returns a string representation of the gate type.
func (gt GateType) String() string {
	switch gt {
	case AND:
		return "AND"
	case NAND:
		return "NAND"
	case OR:
		return "OR"
	case NOR:
		return "NOR"
	case XOR:
		return "XOR"
	case XNOR:
		return "XNOR"
	case NOT:
		return "NOT"
	default:
		return "UNKNOWN"
	}
}

// Controlling returns the input value that alone determines the gate's
// output regardless of the other inputs: 0 for AND/NAND, 1 for OR/NOR.
// XOR, XNOR and NOT have no true controlling value; the convention below
// is arbitrary but fixed.
func (gt GateType) Controlling() logic.FiveValue {
	switch gt {
	case AND, NAND, XNOR, NOT:
		return logic.Off
	case OR, NOR, XOR:
		return logic.On
	default:
		return logic.Unknown
	}
}

// Inversion reports the gate's inversion parity: ON for inverting gates.
func (gt GateType) Inversion() logic.FiveValue {
	switch gt {
	case AND, OR:
		return logic.Off
	case NAND, NOR, XOR, XNOR, NOT:
		return logic.On
	default:
		return logic.Unknown
	}
}

// Gate is a computation node: an ordered list of input lines and exactly one
// output line. Gates are immutable after construction; only the output
// line's value changes.
type Gate struct {
	ID     int
	Name   string
	Type   GateType
	Inputs []*Line
	Output *Line
}

// Forward computes the gate's output value from the current input values
// via the five-valued algebra. It has no side effects and is safe to call
// repeatedly.
func (g *Gate) Forward() logic.FiveValue {
	switch g.Type {
	case AND:
		return g.reduce(logic.FiveValue.And)
	case NAND:
		return g.reduce(logic.FiveValue.And).Not()
	case OR:
		return g.reduce(logic.FiveValue.Or)
	case NOR:
		return g.reduce(logic.FiveValue.Or).Not()
	case XOR:
		return g.reduce(logic.FiveValue.Xor)
	case XNOR:
		return g.reduce(logic.FiveValue.Xor).Not()
	case NOT:
		return g.Inputs[0].Value.Not()
	default:
		return logic.Unknown
	}
}

func (g *Gate) reduce(op func(logic.FiveValue, logic.FiveValue) logic.FiveValue) logic.FiveValue {
	acc := g.Inputs[0].Value
	for _, in := range g.Inputs[1:] {
		acc = op(acc, in.Value)
	}
	return acc
}

// HasSensitizedInput reports whether any input carries a fault effect.
func (g *Gate) HasSensitizedInput() bool {
	for _, in := range g.Inputs {
		if in.IsSensitized() {
			return true
		}
	}
	return false
}

// CanImplyOutput reports whether the current inputs forward-imply the
// output's current value.
func (g *Gate) CanImplyOutput() bool {
	return g.Output.Value.Equal(g.Forward())
}

// UnknownInput returns the first input still holding UNKNOWN, or nil.
func (g *Gate) UnknownInput() *Line {
	for _, in := range g.Inputs {
		if !in.IsAssigned() {
			return in
		}
	}
	return nil
}

// EquationString renders the gate as a nested expression over the primary
// inputs that feed it.
func (g *Gate) EquationString() string {
	operands := make([]string, 0, len(g.Inputs))
	for _, in := range g.Inputs {
		if in.Parent == nil {
			operands = append(operands, in.Name)
		} else {
			operands = append(operands, in.Parent.EquationString())
		}
	}
	return fmt.Sprintf("%s(%s)", g.Name, strings.Join(operands, ", "))
}

// String returns a string representation of the gate.
func (g *Gate) String() string {
	return fmt.Sprintf("%s(%s)", g.Name, g.Type)
}
