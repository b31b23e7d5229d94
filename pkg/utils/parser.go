package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyerfyer/datpg/pkg/circuit"
	"github.com/fyerfyer/datpg/pkg/logic"
)

// Regular expressions for parsing BENCH format
var (
	inputRegex  = regexp.MustCompile(`^INPUT\((\w+)\)$`)
	outputRegex = regexp.MustCompile(`^OUTPUT\((\w+)\)$`)
	gateRegex   = regexp.MustCompile(`^(\w+)\s*=\s*(\w+)\((.+)\)$`)
)

// ParseBench reads a circuit description in BENCH format and builds a
// Network. Lines named in OUTPUT declarations are primary outputs as long
// as no gate consumes them; the network model derives input/output status
// from structure alone.
func ParseBench(r io.Reader, name string) (*circuit.Network, error) {
	b := circuit.NewBuilder(name)
	lines := make(map[string]*circuit.Line)

	getLine := func(lineName string) *circuit.Line {
		if l, ok := lines[lineName]; ok {
			return l
		}
		l := b.Line(lineName)
		lines[lineName] = l
		return l
	}

	type gateDecl struct {
		output   string
		gateType circuit.GateType
		inputs   []string
	}
	var decls []gateDecl

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if matches := inputRegex.FindStringSubmatch(text); matches != nil {
			getLine(matches[1])
			continue
		}
		if matches := outputRegex.FindStringSubmatch(text); matches != nil {
			getLine(matches[1])
			continue
		}
		if matches := gateRegex.FindStringSubmatch(text); matches != nil {
			gt, err := parseGateType(matches[2])
			if err != nil {
				return nil, errors.Wrapf(err, "line %q", text)
			}
			decl := gateDecl{output: matches[1], gateType: gt}
			getLine(decl.output)
			for _, in := range strings.Split(matches[3], ",") {
				in = strings.TrimSpace(in)
				decl.inputs = append(decl.inputs, in)
				getLine(in)
			}
			decls = append(decls, decl)
			continue
		}
		return nil, errors.Errorf("unrecognized BENCH statement: %q", text)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading circuit")
	}

	for _, decl := range decls {
		inputs := make([]*circuit.Line, len(decl.inputs))
		for i, in := range decl.inputs {
			inputs[i] = lines[in]
		}
		if _, err := b.Gate(decl.gateType, inputs, lines[decl.output], ""); err != nil {
			return nil, errors.Wrapf(err, "gate driving %s", decl.output)
		}
	}

	return b.Build()
}

// ParseBenchFile reads a BENCH file; the circuit is named after the file.
func ParseBenchFile(filename string) (*circuit.Network, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open circuit file")
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), ".bench")
	return ParseBench(file, name)
}

// parseGateType converts a BENCH gate type to a GateType.
func parseGateType(s string) (circuit.GateType, error) {
	switch strings.ToUpper(s) {
	case "AND":
		return circuit.AND, nil
	case "NAND":
		return circuit.NAND, nil
	case "OR":
		return circuit.OR, nil
	case "NOR":
		return circuit.NOR, nil
	case "XOR":
		return circuit.XOR, nil
	case "XNOR":
		return circuit.XNOR, nil
	case "NOT", "INV":
		return circuit.NOT, nil
	default:
		return 0, errors.Errorf("unsupported gate type: %s", s)
	}
}

// ParseFaultString parses a fault like "a/0" or "net34/1" against a network
// and returns the fault line and polarity.
func ParseFaultString(faultStr string, net *circuit.Network) (*circuit.Line, bool, error) {
	lineName, polarity, found := strings.Cut(faultStr, "/")
	if !found {
		return nil, false, errors.Errorf("invalid fault string format: %s (expected: net/value)", faultStr)
	}

	line := net.LineByName(lineName)
	if line == nil {
		return nil, false, errors.Errorf("line not found: %s", lineName)
	}

	switch polarity {
	case "0":
		return line, false, nil
	case "1":
		return line, true, nil
	default:
		return nil, false, errors.Errorf("invalid fault type: %s (expected: 0 or 1)", polarity)
	}
}

// WriteTestVectors writes the generated vectors, one fault per block, with
// inputs in a fixed order taken from the network.
func WriteTestVectors(w io.Writer, net *circuit.Network, tests map[string]map[string]logic.FiveValue) error {
	bw := bufio.NewWriter(w)

	var inputNames []string
	for _, in := range net.Inputs() {
		inputNames = append(inputNames, in.Name)
	}

	faults := make([]string, 0, len(tests))
	for fault := range tests {
		faults = append(faults, fault)
	}
	sort.Strings(faults)

	fmt.Fprintf(bw, "# Test vectors generated by datpg\n")
	fmt.Fprintf(bw, "# Format: %s\n", strings.Join(inputNames, " "))
	for _, fault := range faults {
		fmt.Fprintf(bw, "# Fault %s\n", fault)
		vector := tests[fault]
		for _, name := range inputNames {
			value, ok := vector[name]
			if !ok {
				value = logic.Unknown
			}
			fmt.Fprintf(bw, "%s ", value.Good())
		}
		fmt.Fprintln(bw)
	}

	return errors.Wrap(bw.Flush(), "writing test vectors")
}
