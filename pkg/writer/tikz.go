// Package writer exports a network as a standalone circuitikz (LaTeX)
// document. It is a consumer of the network's read-only structural queries
// and value state; it never mutates the network.
package writer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyerfyer/datpg/pkg/circuit"
	"github.com/fyerfyer/datpg/pkg/logic"
)

const header = `\documentclass{standalone}
\usepackage{tikz}
\usepackage{circuitikz}
\begin{document}
\begin{circuitikz}[ieee ports, scale=%.1f, font=\small]
`

const footer = `\end{circuitikz}
\end{document}
`

// lineStyle maps a line's current value to a wire style, so a rendered
// diagram shows the state of a finished search at a glance.
func lineStyle(v logic.FiveValue) string {
	switch {
	case v.Equal(logic.On):
		return "green!50!black, thick"
	case v.Equal(logic.Off):
		return "red, thick"
	case v.Equal(logic.OnIsOff):
		return "green!50!black, dashed, thick"
	case v.Equal(logic.OffIsOn):
		return "red, dashed, thick"
	default:
		return ""
	}
}

type coord struct{ x, y int }

// TikzWriter renders one network. Gates are placed in layers by distance
// from the primary outputs; every wire gets its own vertical track within
// the gap left of the layer it feeds, so parallel wires never overlap.
type TikzWriter struct {
	Net *circuit.Network

	SingleTrackWidth float64 // horizontal spacing between wire tracks
	PinWidth         float64 // extra spacing compensating for gate pins
	ComponentWidth   float64 // vertical spacing between gates in a layer
	Scale            float64

	nodeNames      map[*circuit.Gate]string
	lineNames      map[*circuit.Line]string
	gateCoords     map[*circuit.Gate]coord
	gatePositions  map[*circuit.Gate][2]float64
	lineTracks     map[*circuit.Line]int
	tracksPerLayer map[int]int
}

// NewTikzWriter creates a writer for the given network with default
// spacing.
func NewTikzWriter(net *circuit.Network) *TikzWriter {
	return &TikzWriter{
		Net:              net,
		SingleTrackWidth: 0.2,
		PinWidth:         1.2,
		ComponentWidth:   1.4,
		Scale:            1.0,
	}
}

func (w *TikzWriter) nodeName(g *circuit.Gate) string {
	if name, ok := w.nodeNames[g]; ok {
		return name
	}
	name := fmt.Sprintf("g%d", len(w.nodeNames))
	w.nodeNames[g] = name
	return name
}

func (w *TikzWriter) lineName(l *circuit.Line) string {
	if name, ok := w.lineNames[l]; ok {
		return name
	}
	name := fmt.Sprintf("l%d", len(w.lineNames))
	w.lineNames[l] = name
	return name
}

// computePositions places gates in layers working backwards from the
// primary outputs. A gate moves to the next layer once all consumers of
// its output are placed. Each line is then assigned a track in the layer
// gap just left of its right-most consumer.
func (w *TikzWriter) computePositions() {
	w.nodeNames = make(map[*circuit.Gate]string)
	w.lineNames = make(map[*circuit.Line]string)
	w.gateCoords = make(map[*circuit.Gate]coord)
	w.gatePositions = make(map[*circuit.Gate][2]float64)
	w.lineTracks = make(map[*circuit.Line]int)
	w.tracksPerLayer = make(map[int]int)

	visited := make(map[*circuit.Gate]bool)
	layer := w.Net.Outputs()
	depth := 0
	for len(layer) > 0 {
		var next []*circuit.Line
		for i, line := range layer {
			if line.Parent == nil {
				continue
			}
			gate := line.Parent
			w.gateCoords[gate] = coord{x: depth, y: i}
			visited[gate] = true
			for _, in := range gate.Inputs {
				if visited[in.Parent] {
					continue
				}
				ready := true
				for _, child := range in.Children {
					if !visited[child] {
						ready = false
						break
					}
				}
				if ready {
					next = append(next, in)
				}
			}
		}
		depth++
		layer = next
	}

	for _, line := range w.Net.Lines {
		maxX := -1
		for _, child := range line.Children {
			if c, ok := w.gateCoords[child]; ok && c.x > maxX {
				maxX = c.x
			}
		}
		w.lineTracks[line] = w.tracksPerLayer[maxX]
		w.tracksPerLayer[maxX]++
	}

	accumulated := make([]float64, 1, depth)
	for layer := 1; layer < depth; layer++ {
		width := float64(w.tracksPerLayer[layer]+1)*w.SingleTrackWidth + w.PinWidth
		accumulated = append(accumulated, accumulated[len(accumulated)-1]+width)
	}
	for gate, c := range w.gateCoords {
		w.gatePositions[gate] = [2]float64{
			-(float64(c.x) + accumulated[c.x]),
			float64(c.y) * w.ComponentWidth,
		}
	}
}

// Write renders the network as a complete LaTeX document.
func (w *TikzWriter) Write(out io.Writer) error {
	w.computePositions()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, header, w.Scale)
	for _, gate := range w.Net.Gates {
		w.writeGate(&buf, gate)
	}
	for _, line := range w.Net.Lines {
		w.writeLine(&buf, line)
	}
	buf.WriteString(footer)

	_, err := out.Write(buf.Bytes())
	return errors.Wrap(err, "writing diagram")
}

func (w *TikzWriter) writeGate(buf *bytes.Buffer, g *circuit.Gate) {
	pos := w.gatePositions[g]
	fmt.Fprintf(buf, "\\node [%s port, number inputs=%d] (%s) at (%.1f, %.1f) {\\verb|%s|};\n",
		strings.ToLower(g.Type.String()), len(g.Inputs), w.nodeName(g), pos[0], pos[1], g.Name)
}

// inputIndex is the 1-based circuitikz pin number of a line on a gate.
func inputIndex(g *circuit.Gate, l *circuit.Line) int {
	for i, in := range g.Inputs {
		if in == l {
			return i + 1
		}
	}
	return 1
}

func (w *TikzWriter) writeLine(buf *bytes.Buffer, l *circuit.Line) {
	modifier := ""
	if style := lineStyle(l.Value); style != "" {
		modifier = fmt.Sprintf(" [%s]", style)
	}
	id := w.lineName(l)
	trackOffset := float64(w.lineTracks[l]+1) * w.SingleTrackWidth

	switch {
	case l.Parent == nil && len(l.Children) == 0:
		// Isolated line, nothing to connect.
		fmt.Fprintf(buf, "\\draw%s node {%s};\n", modifier, id)

	case l.Parent == nil:
		// Primary input: place a label left of the deepest consumer and fan
		// out to every consumer's pin.
		deepest := l.Children[0]
		for _, child := range l.Children[1:] {
			if w.gateCoords[child].x > w.gateCoords[deepest].x {
				deepest = child
			}
		}
		layer := w.gateCoords[deepest].x
		layerWidth := float64(w.tracksPerLayer[layer]+1) * w.SingleTrackWidth
		fmt.Fprintf(buf, "\\draw (%s.in %d) ++(-%.1f, 0)%s node[left] (%s) {\\verb|%s|};\n",
			w.nodeName(deepest), inputIndex(deepest, l), layerWidth, modifier, id, l.Name)
		fmt.Fprintf(buf, "\\draw%s", modifier)
		for _, child := range l.Children {
			fmt.Fprintf(buf, " (%s.east) -- ++(%.1f, 0) |- (%s.in %d)",
				id, trackOffset, w.nodeName(child), inputIndex(child, l))
		}
		buf.WriteString(";\n")

	case len(l.Children) == 0:
		// Primary output: label at the driver's output pin.
		fmt.Fprintf(buf, "\\draw%s (%s.out) node[right] {\\verb|%s|};\n",
			modifier, w.nodeName(l.Parent), l.Name)

	default:
		// Internal wire: route from the driver's output over a dedicated
		// track to every consumer.
		fmt.Fprintf(buf, "\\draw%s", modifier)
		for _, child := range l.Children {
			fmt.Fprintf(buf, " (%s.out) -- ++(%.1f, 0) |- (%s.in %d)",
				w.nodeName(l.Parent), trackOffset, w.nodeName(child), inputIndex(child, l))
		}
		fmt.Fprintf(buf, " node[above, pos=1] {\\verb|%s|};\n", l.Name)
	}
}
