package algorithm

import (
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/datpg/pkg/circuit"
)

// gateSet is a frontier: a set of gates eligible for one kind of
// non-deterministic choice.
type gateSet map[*circuit.Gate]struct{}

func (s gateSet) add(g *circuit.Gate)    { s[g] = struct{}{} }
func (s gateSet) remove(g *circuit.Gate) { delete(s, g) }

func (s gateSet) copy() gateSet {
	c := make(gateSet, len(s))
	for g := range s {
		c[g] = struct{}{}
	}
	return c
}

// pick returns the gate with the smallest ID, so frontier selection is
// deterministic and test runs are reproducible.
func (s gateSet) pick() *circuit.Gate {
	var best *circuit.Gate
	for g := range s {
		if best == nil || g.ID < best.ID {
			best = g
		}
	}
	return best
}

// lineSet tracks the primary outputs touched so far in a search branch.
type lineSet map[*circuit.Line]struct{}

func (s lineSet) add(l *circuit.Line) { s[l] = struct{}{} }

func (s lineSet) copy() lineSet {
	c := make(lineSet, len(s))
	for l := range s {
		c[l] = struct{}{}
	}
	return c
}

// imply drains the work queue, computing all forced consequences of the
// pending assignments and maintaining the frontiers. It reports false on a
// contradiction, in which case every mutation recorded in ctx has already
// been reverted. Contradictions are an expected search outcome, not an
// error.
func (e *Engine) imply(dFront, jFront gateSet, queue *[]AssignmentQueueItem, visited lineSet, ctx *AssignmentContext) bool {
	for len(*queue) > 0 {
		item := (*queue)[len(*queue)-1]
		*queue = (*queue)[:len(*queue)-1]

		line := item.Line
		if line.IsPrimaryOutput() {
			visited.add(line)
		}

		switch {
		case !line.Value.IsKnown():
			e.log.WithFields(logrus.Fields{
				"line":  line.Name,
				"value": item.Value.String(),
				"dir":   item.Dir.String(),
			}).Trace("assign")
			ctx.Assign(line, item.Value)
		case line.Value.Equal(item.Value):
			continue // already assigned, nothing to do
		default:
			e.log.WithFields(logrus.Fields{
				"line": line.Name,
				"held": line.Value.String(),
				"want": item.Value.String(),
			}).Debug("contradiction, reverting")
			ctx.Revert()
			return false
		}

		if item.Dir == Backward || item.Dir == Both {
			e.deduce(line.Parent, dFront, jFront, queue)
		}
		if item.Dir == Forward || item.Dir == Both {
			for _, g := range line.Children {
				e.deduce(g, dFront, jFront, queue)
			}
		}
	}
	return true
}

// deduce recomputes one gate after a neighboring assignment: enqueues the
// gate's output if it became determinate and refreshes the gate's frontier
// membership. Membership is recomputed from current state every time, never
// cached.
func (e *Engine) deduce(g *circuit.Gate, dFront, jFront gateSet, queue *[]AssignmentQueueItem) {
	if g == nil {
		return
	}

	if deduction := g.Forward(); deduction.IsKnown() {
		*queue = append(*queue, AssignmentQueueItem{Line: g.Output, Value: deduction, Dir: Forward})
	}

	// D-frontier: sensitized input, output still unknown.
	if g.HasSensitizedInput() && !g.Output.Value.IsKnown() {
		dFront.add(g)
	} else {
		dFront.remove(g)
	}

	// J-frontier: output known but not yet implied by the inputs.
	if !g.CanImplyOutput() && g.Output.Value.IsKnown() {
		jFront.add(g)
	} else {
		jFront.remove(g)
	}
}

// faultAtPrimaryOutput reports whether any visited primary output carries a
// fault effect.
func faultAtPrimaryOutput(visited lineSet) bool {
	for l := range visited {
		if l.Value.IsSensitized() {
			return true
		}
	}
	return false
}

func copyQueue(q []AssignmentQueueItem) []AssignmentQueueItem {
	return append([]AssignmentQueueItem(nil), q...)
}
