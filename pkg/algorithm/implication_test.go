package algorithm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/datpg/pkg/circuit"
	"github.com/fyerfyer/datpg/pkg/logic"
)

func TestAssignmentContextRevert(t *testing.T) {
	a := circuit.NewLine(0, "a")
	b := circuit.NewLine(1, "b")
	a.SetValue(logic.On)

	ctx := &AssignmentContext{}
	ctx.Assign(a, logic.Off)
	ctx.Assign(b, logic.OnIsOff)
	assert.True(t, a.Value.Equal(logic.Off))
	assert.True(t, b.Value.Equal(logic.OnIsOff))

	ctx.Revert()
	assert.True(t, a.Value.Equal(logic.On), "a should be restored to its prior value")
	assert.True(t, b.Value.Equal(logic.Unknown))

	// A reverted context is empty; reverting again changes nothing.
	a.SetValue(logic.OnIsOff)
	ctx.Revert()
	assert.True(t, a.Value.Equal(logic.OnIsOff))
}

func TestImplyDetectsContradiction(t *testing.T) {
	net, a, bb, o := buildSingleAnd(t)
	e := NewEngine(net, quietLogger())
	net.Reset()

	// Force o=1 while a=0 already implies o=0.
	a.SetValue(logic.Off)
	queue := []AssignmentQueueItem{{Line: o, Value: logic.On, Dir: Both}}
	ctx := &AssignmentContext{}
	ok := e.imply(gateSet{}, gateSet{}, &queue, lineSet{}, ctx)
	assert.False(t, ok)
	assert.True(t, o.Value.Equal(logic.Unknown), "contradiction must revert the assignment")
	assert.True(t, bb.Value.Equal(logic.Unknown))
}

func TestImplySkipsRedundantAssignment(t *testing.T) {
	net, a, _, _ := buildSingleAnd(t)
	e := NewEngine(net, quietLogger())
	net.Reset()

	a.SetValue(logic.On)
	before := a.AssignmentCount
	queue := []AssignmentQueueItem{{Line: a, Value: logic.On, Dir: Both}}
	ok := e.imply(gateSet{}, gateSet{}, &queue, lineSet{}, &AssignmentContext{})
	assert.True(t, ok)
	assert.Equal(t, before, a.AssignmentCount, "re-assigning the same value is a no-op")
}

func TestImplyMaintainsFrontiers(t *testing.T) {
	net, a, bb, o := buildSingleAnd(t)
	e := NewEngine(net, quietLogger())
	net.Reset()
	g := net.Gates[0]

	// A sensitized input with an unknown output puts the gate on the
	// D-frontier.
	dFront, jFront := gateSet{}, gateSet{}
	queue := []AssignmentQueueItem{{Line: a, Value: logic.OnIsOff, Dir: Both}}
	require.True(t, e.imply(dFront, jFront, &queue, lineSet{}, &AssignmentContext{}))
	assert.Contains(t, dFront, g)
	assert.NotContains(t, jFront, g)

	// Membership is recomputed on every deduction, never cached: once the
	// output is known, the next assignment touching the gate prunes it.
	o.SetValue(logic.OnIsOff)
	queue = []AssignmentQueueItem{{Line: bb, Value: logic.On, Dir: Both}}
	require.True(t, e.imply(dFront, jFront, &queue, lineSet{}, &AssignmentContext{}))
	assert.NotContains(t, dFront, g)
}

func TestImplyAddsUnjustifiedGateToJFrontier(t *testing.T) {
	net, _, _, o := buildSingleAnd(t)
	e := NewEngine(net, quietLogger())
	net.Reset()
	g := net.Gates[0]

	// Output gets a value the unknown inputs cannot yet imply.
	dFront, jFront := gateSet{}, gateSet{}
	queue := []AssignmentQueueItem{{Line: o, Value: logic.On, Dir: Both}}
	require.True(t, e.imply(dFront, jFront, &queue, lineSet{}, &AssignmentContext{}))
	assert.Contains(t, jFront, g)
	assert.NotContains(t, dFront, g)
}

// A failed deeper branch must not leak assignments into the committed
// solution: every level reverts its own log on the way out.
func TestFailedBranchesLeaveNoTrace(t *testing.T) {
	net, lines := buildAndIntoOr(t)
	e := NewEngine(net, quietLogger())

	// o stuck-at-1: the OR output must be justified to 0. The controlling
	// choice n=1 contradicts and is rolled back before n=0 is committed.
	found, err := e.Run(lines["o"], true)
	require.NoError(t, err)
	require.True(t, found)

	assert.True(t, lines["n"].Value.Equal(logic.Off))
	assert.True(t, lines["c"].Value.Equal(logic.Off))
	assert.True(t, lines["a"].Value.Equal(logic.Off))
	assert.True(t, lines["b"].Value.Equal(logic.Unknown), "b is a free choice and must stay unknown")
	assert.True(t, lines["o"].Value.Equal(logic.OffIsOn))
}

func TestGateSetPickIsDeterministic(t *testing.T) {
	net, lines := buildAndIntoOr(t)
	_ = lines
	s := gateSet{}
	for _, g := range net.Gates {
		s.add(g)
	}
	first := s.pick()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.pick())
	}
	assert.Equal(t, net.Gates[0], first, "lowest gate ID wins")
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "backward", Backward.String())
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "both", Both.String())
}
