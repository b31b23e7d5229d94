package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/datpg/pkg/algorithm"
	"github.com/fyerfyer/datpg/pkg/circuit"
	"github.com/fyerfyer/datpg/pkg/logic"
)

const smallBench = `# two-level example
INPUT(a)
INPUT(b)
INPUT(c)
OUTPUT(o)

n = AND(a, b)
o = OR(n, c)
`

func TestParseBench(t *testing.T) {
	net, err := ParseBench(strings.NewReader(smallBench), "small")
	require.NoError(t, err)

	assert.Equal(t, "small", net.Name)
	require.Len(t, net.Gates, 2)
	assert.Equal(t, circuit.AND, net.Gates[0].Type)
	assert.Equal(t, circuit.OR, net.Gates[1].Type)

	inputs := net.Inputs()
	require.Len(t, inputs, 3)
	outputs := net.Outputs()
	require.Len(t, outputs, 1)
	assert.Equal(t, "o", outputs[0].Name)

	n := net.LineByName("n")
	require.NotNil(t, n)
	assert.Equal(t, net.Gates[0], n.Parent)
	assert.Equal(t, []*circuit.Gate{net.Gates[1]}, n.Children)
}

func TestParseBenchErrors(t *testing.T) {
	_, err := ParseBench(strings.NewReader("o = FLIPFLOP(a)\n"), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported gate type")

	_, err = ParseBench(strings.NewReader("this is not bench\n"), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized")
}

func TestParseBenchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.bench")
	require.NoError(t, os.WriteFile(path, []byte(smallBench), 0o644))

	net, err := ParseBenchFile(path)
	require.NoError(t, err)
	assert.Equal(t, "small", net.Name)
	require.Len(t, net.Gates, 2)

	_, err = ParseBenchFile(filepath.Join(t.TempDir(), "missing.bench"))
	require.Error(t, err)
}

func TestParseFaultString(t *testing.T) {
	net, err := ParseBench(strings.NewReader(smallBench), "small")
	require.NoError(t, err)

	line, stuckAtOne, err := ParseFaultString("n/1", net)
	require.NoError(t, err)
	assert.Equal(t, "n", line.Name)
	assert.True(t, stuckAtOne)

	line, stuckAtOne, err = ParseFaultString("a/0", net)
	require.NoError(t, err)
	assert.Equal(t, "a", line.Name)
	assert.False(t, stuckAtOne)

	_, _, err = ParseFaultString("n", net)
	require.Error(t, err)
	_, _, err = ParseFaultString("zz/0", net)
	require.Error(t, err)
	_, _, err = ParseFaultString("n/2", net)
	require.Error(t, err)
}

// Parsed circuits feed straight into the engine.
func TestParsedCircuitEndToEnd(t *testing.T) {
	net, err := ParseBench(strings.NewReader(smallBench), "small")
	require.NoError(t, err)

	faultLine, stuckAtOne, err := ParseFaultString("n/0", net)
	require.NoError(t, err)

	e := algorithm.NewEngine(net, nil)
	found, err := e.Run(faultLine, stuckAtOne)
	require.NoError(t, err)
	require.True(t, found)

	vector := e.TestVector()
	assert.True(t, vector["a"].Equal(logic.On))
	assert.True(t, vector["b"].Equal(logic.On))
	assert.True(t, vector["c"].Equal(logic.Off))
}

func TestWriteTestVectors(t *testing.T) {
	net, err := ParseBench(strings.NewReader(smallBench), "small")
	require.NoError(t, err)

	tests := map[string]map[string]logic.FiveValue{
		"n/0": {"a": logic.On, "b": logic.On, "c": logic.Off},
		"c/1": {"c": logic.Off},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTestVectors(&buf, net, tests))

	out := buf.String()
	assert.Contains(t, out, "# Format: a b c")
	assert.Contains(t, out, "# Fault c/1")
	assert.Contains(t, out, "# Fault n/0")
	assert.Contains(t, out, "1 1 0")
	// Unassigned inputs are reported as X.
	assert.Contains(t, out, "X X 0")
	// Faults come out sorted.
	assert.Less(t, strings.Index(out, "c/1"), strings.Index(out, "n/0"))
}
