package algorithm

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/datpg/pkg/circuit"
	"github.com/fyerfyer/datpg/pkg/logic"
)

// Stats collects counters about one engine run.
type Stats struct {
	Decisions    int           // Number of non-deterministic choices made
	Backtracks   int           // Number of failed branches
	Implications int           // Number of implication passes
	TotalTime    time.Duration // Wall time of the run
}

// Engine runs the D-Algorithm against one network. It may be reused for any
// number of faults; every run starts with a full reset.
//
// The search is single-threaded and purely synchronous. Frontier sets, the
// work queue and the visited-output set are copied per recursive branch;
// line values are shared mutable state and are rolled back per branch
// through each level's AssignmentContext, so a failed branch never leaks
// assignments into its siblings.
type Engine struct {
	Net   *circuit.Network
	Stats Stats
	log   logrus.FieldLogger
}

// NewEngine creates an engine for the given network. A nil logger falls
// back to the logrus standard logger.
func NewEngine(net *circuit.Network, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{Net: net, log: log}
}

// Run searches for a test vector exposing the given stuck-at fault. It
// reports whether one was found; on success the network's primary inputs
// hold the vector and its outputs the expected divergence, readable until
// the next run. A false result means the search exhausted its choices: the
// fault is undetectable under this fault model as far as this search can
// tell.
//
// The fault site is temporarily spliced: a synthetic line takes the place
// of the fault line as the original driver's output, so the driver's good
// value can be implied independently of the injected fault effect. The
// original wiring is restored before Run returns.
func (e *Engine) Run(faultLine *circuit.Line, stuckAtOne bool) (bool, error) {
	if faultLine == nil {
		return false, errors.New("fault line is nil")
	}
	if !e.Net.Contains(faultLine) {
		return false, errors.Errorf("line %s does not belong to network %q", faultLine.Name, e.Net.Name)
	}

	start := time.Now()
	e.Stats = Stats{}
	e.Net.Reset()

	polarity := 0
	if stuckAtOne {
		polarity = 1
	}
	e.log.WithFields(logrus.Fields{
		"network": e.Net.Name,
		"fault":   fmt.Sprintf("%s/%d", faultLine.Name, polarity),
	}).Info("starting test generation")

	// Splice a synthetic line between the fault line and its driver.
	driver := faultLine.Parent
	incoming := circuit.NewLine(-1, faultLine.Name+"_in")
	incoming.Parent = driver
	if driver != nil {
		driver.Output = incoming
	}
	faultLine.Parent = nil
	defer func() {
		faultLine.Parent = driver
		if driver != nil {
			driver.Output = faultLine
		}
	}()

	// Activate the fault: the good circuit must drive the fault site to
	// the complement of the stuck value, and the fault effect enters at the
	// fault site itself.
	var queue []AssignmentQueueItem
	if stuckAtOne {
		queue = []AssignmentQueueItem{
			{Line: incoming, Value: logic.Off, Dir: Backward},
			{Line: faultLine, Value: logic.OffIsOn, Dir: Forward},
		}
	} else {
		queue = []AssignmentQueueItem{
			{Line: incoming, Value: logic.On, Dir: Backward},
			{Line: faultLine, Value: logic.OnIsOff, Dir: Forward},
		}
	}

	found := e.search(gateSet{}, gateSet{}, queue, lineSet{}, 0)

	e.Stats.TotalTime = time.Since(start)
	e.log.WithFields(logrus.Fields{
		"found":        found,
		"decisions":    e.Stats.Decisions,
		"backtracks":   e.Stats.Backtracks,
		"implications": e.Stats.Implications,
		"elapsed":      e.Stats.TotalTime,
	}).Info("test generation finished")
	return found, nil
}

// search is one level of the recursive D-Algorithm: implication to
// exhaustion, then either fault propagation (D-frontier choice) or
// backward justification (J-frontier choice). Each level owns an
// AssignmentContext; whenever the level fails, everything it assigned is
// reverted before returning, so sibling branches start from clean state.
func (e *Engine) search(dFront, jFront gateSet, queue []AssignmentQueueItem, visited lineSet, depth int) bool {
	ctx := &AssignmentContext{}
	e.Stats.Implications++
	if !e.imply(dFront, jFront, &queue, visited, ctx) {
		e.Stats.Backtracks++
		return false
	}

	if !faultAtPrimaryOutput(visited) {
		// Propagation: drive the fault effect one gate closer to a primary
		// output by setting the chosen gate's remaining inputs to the
		// non-controlling value. Exactly one frontier gate is tried per
		// level.
		if len(dFront) == 0 {
			ctx.Revert()
			e.Stats.Backtracks++
			return false
		}
		g := dFront.pick()
		dFront.remove(g)
		e.Stats.Decisions++
		e.log.WithFields(logrus.Fields{
			"gate":  g.Name,
			"depth": depth,
		}).Debug("propagating through gate")

		nonControlling := g.Type.Controlling().Not()
		for _, in := range g.Inputs {
			if !in.IsAssigned() {
				queue = append(queue, AssignmentQueueItem{Line: in, Value: nonControlling, Dir: Both})
			}
		}
		if e.search(dFront.copy(), jFront.copy(), copyQueue(queue), visited.copy(), depth+1) {
			return true
		}
		ctx.Revert()
		e.Stats.Backtracks++
		return false
	}

	// The fault effect has reached a primary output; justify the remaining
	// unimplied assignments.
	for len(jFront) > 0 {
		g := jFront.pick()
		jFront.remove(g)
		e.log.WithFields(logrus.Fields{
			"gate":  g.Name,
			"depth": depth,
		}).Debug("justifying gate")

		controlling := g.Type.Controlling()
		for _, in := range g.Inputs {
			if in.IsAssigned() {
				continue
			}
			for _, value := range []logic.FiveValue{controlling, controlling.Not()} {
				e.Stats.Decisions++
				next := append(copyQueue(queue), AssignmentQueueItem{Line: in, Value: value, Dir: Both})
				if e.search(dFront.copy(), jFront.copy(), next, visited.copy(), depth+1) {
					return true
				}
			}
			// Neither value of this input can be made consistent.
			ctx.Revert()
			e.Stats.Backtracks++
			return false
		}
		// No unknown input left to choose, yet the gate's output is still
		// not implied.
		ctx.Revert()
		e.Stats.Backtracks++
		return false
	}
	return true
}

// TestVector returns the primary input assignment of the last successful
// run, skipping inputs that stayed UNKNOWN (free choices).
func (e *Engine) TestVector() map[string]logic.FiveValue {
	vector := make(map[string]logic.FiveValue)
	for _, in := range e.Net.Inputs() {
		if in.IsAssigned() {
			vector[in.Name] = in.Value
		}
	}
	return vector
}

// ExpectedOutputs returns the primary output values of the last successful
// run, skipping outputs that stayed UNKNOWN. Sensitized entries are where
// the good and faulty circuits diverge.
func (e *Engine) ExpectedOutputs() map[string]logic.FiveValue {
	outs := make(map[string]logic.FiveValue)
	for _, out := range e.Net.Outputs() {
		if out.IsAssigned() {
			outs[out.Name] = out.Value
		}
	}
	return outs
}

// GenerateAllTests runs the engine for both stuck-at polarities of every
// line in the network and returns the vectors found, keyed by fault
// ("name/0", "name/1"). Undetectable faults are skipped.
func (e *Engine) GenerateAllTests() (map[string]map[string]logic.FiveValue, error) {
	tests := make(map[string]map[string]logic.FiveValue)
	for _, line := range e.Net.Lines {
		for polarity, stuckAtOne := range []bool{false, true} {
			found, err := e.Run(line, stuckAtOne)
			if err != nil {
				return nil, errors.Wrapf(err, "fault %s/%d", line.Name, polarity)
			}
			if found {
				tests[fmt.Sprintf("%s/%d", line.Name, polarity)] = e.TestVector()
			}
		}
	}
	return tests, nil
}
