package logic

import "fmt"

// NineValue is the general pair-of-TriValue algebra spanning all nine
// combinations of good and faulty circuit values. Unlike FiveValue it does
// not collapse mixed-unknown states, so partially determined fault effects
// such as 1/X remain representable. Nothing in the search engine consumes
// it today.
type NineValue struct {
	good   TriValue
	faulty TriValue
}

// The nine canonical values.
var (
	NineOn           = NineValue{TriOn, TriOn}
	NineOff          = NineValue{TriOff, TriOff}
	NineUnknown      = NineValue{TriUnknown, TriUnknown}
	NineOnIsOff      = NineValue{TriOn, TriOff}      // D: 1/0
	NineOffIsOn      = NineValue{TriOff, TriOn}      // D': 0/1
	NineOnIsUnknown  = NineValue{TriOn, TriUnknown}  // 1/X
	NineOffIsUnknown = NineValue{TriOff, TriUnknown} // 0/X
	NineUnknownIsOn  = NineValue{TriUnknown, TriOn}  // X/1
	NineUnknownIsOff = NineValue{TriUnknown, TriOff} // X/0
)

// NewNineValue pairs a good-circuit and a faulty-circuit value.
func NewNineValue(good, faulty TriValue) NineValue {
	return NineValue{good, faulty}
}

// Good returns the fault-free circuit component.
func (v NineValue) Good() TriValue { return v.good }

// Faulty returns the faulty circuit component.
func (v NineValue) Faulty() TriValue { return v.faulty }

// Not complements both components.
func (v NineValue) Not() NineValue {
	return NineValue{v.good.Not(), v.faulty.Not()}
}

// And conjoins component-wise.
func (v NineValue) And(o NineValue) NineValue {
	return NineValue{v.good.And(o.good), v.faulty.And(o.faulty)}
}

// Or disjoins component-wise.
func (v NineValue) Or(o NineValue) NineValue {
	return NineValue{v.good.Or(o.good), v.faulty.Or(o.faulty)}
}

// Xor combines component-wise.
func (v NineValue) Xor(o NineValue) NineValue {
	return NineValue{v.good.Xor(o.good), v.faulty.Xor(o.faulty)}
}

// Equal reports full equality of both components.
func (v NineValue) Equal(o NineValue) bool {
	return v.good.Equal(o.good) && v.faulty.Equal(o.faulty)
}

func (v NineValue) String() string {
	return fmt.Sprintf("%s/%s", v.good, v.faulty)
}
