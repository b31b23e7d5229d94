package logic

import "fmt"

// FiveValue is the composite value of a signal: the value the fault-free
// circuit produces paired with the value the faulty circuit produces. If
// either side is unknown the whole value collapses to UNKNOWN, which leaves
// exactly five reachable states: ON, OFF, UNKNOWN, ON_IS_OFF (D) and
// OFF_IS_ON (D').
type FiveValue struct {
	good   TriValue
	faulty TriValue
}

// The five canonical values.
var (
	On      = FiveValue{TriOn, TriOn}
	Off     = FiveValue{TriOff, TriOff}
	Unknown = FiveValue{TriUnknown, TriUnknown}
	OnIsOff = FiveValue{TriOn, TriOff} // D: good 1, faulty 0
	OffIsOn = FiveValue{TriOff, TriOn} // D': good 0, faulty 1
)

// NewFiveValue pairs a good-circuit and a faulty-circuit value, collapsing
// to UNKNOWN when either component is unknown.
func NewFiveValue(good, faulty TriValue) FiveValue {
	if good.Equal(TriUnknown) || faulty.Equal(TriUnknown) {
		return FiveValue{TriUnknown, TriUnknown}
	}
	return FiveValue{good, faulty}
}

// Good returns the fault-free circuit component.
func (v FiveValue) Good() TriValue { return v.good }

// Faulty returns the faulty circuit component.
func (v FiveValue) Faulty() TriValue { return v.faulty }

// Not complements both components.
func (v FiveValue) Not() FiveValue {
	return NewFiveValue(v.good.Not(), v.faulty.Not())
}

// And conjoins component-wise.
func (v FiveValue) And(o FiveValue) FiveValue {
	return NewFiveValue(v.good.And(o.good), v.faulty.And(o.faulty))
}

// Or disjoins component-wise.
func (v FiveValue) Or(o FiveValue) FiveValue {
	return NewFiveValue(v.good.Or(o.good), v.faulty.Or(o.faulty))
}

// Xor combines component-wise.
func (v FiveValue) Xor(o FiveValue) FiveValue {
	return NewFiveValue(v.good.Xor(o.good), v.faulty.Xor(o.faulty))
}

// Equal compares only the first element of each component pair, ignoring any
// wider vector content. This narrowing is asymmetric with construction,
// which preserves the full vectors; it is kept for compatibility with the
// behavior the engine was built against. Use SameAs for full-pair equality.
func (v FiveValue) Equal(o FiveValue) bool {
	return v.good.code(0) == o.good.code(0) && v.faulty.code(0) == o.faulty.code(0)
}

// SameAs reports full equality of both components over their whole width.
func (v FiveValue) SameAs(o FiveValue) bool {
	return v.good.Equal(o.good) && v.faulty.Equal(o.faulty)
}

// IsKnown reports whether the value has been determined.
func (v FiveValue) IsKnown() bool { return !v.Equal(Unknown) }

// IsSensitized reports whether the value carries a fault effect, that is,
// the good and faulty components disagree.
func (v FiveValue) IsSensitized() bool {
	return v.Equal(OnIsOff) || v.Equal(OffIsOn)
}

// String renders the usual ATPG symbols: 0, 1, X, D and D'.
func (v FiveValue) String() string {
	switch {
	case v.Equal(On):
		return "1"
	case v.Equal(Off):
		return "0"
	case v.Equal(Unknown):
		return "X"
	case v.Equal(OnIsOff):
		return "D"
	case v.Equal(OffIsOn):
		return "D'"
	}
	return fmt.Sprintf("%s/%s", v.good, v.faulty)
}
