package qor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ilpsched/internal/glpk"
	"ilpsched/internal/mobility"
	"ilpsched/pkg/domain"
)

func attrs(ru, cu, rc, cc int) domain.EdgeAttrs {
	return domain.EdgeAttrs{RootUnit: ru, ChildUnit: cu, RootCost: rc, ChildCost: cc}
}

// chainGraph строит цепочку s -> a -> b -> t
func chainGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	require.NoError(t, g.AddEdge("s", "a", attrs(0, 1, 0, 2)))
	require.NoError(t, g.AddEdge("a", "b", attrs(1, 2, 2, 3)))
	require.NoError(t, g.AddEdge("b", "t", attrs(2, 3, 3, 0)))
	require.NoError(t, g.Freeze("s", "t"))
	return g
}

func mlrcData(t *testing.T) *ReportData {
	t.Helper()
	g := chainGraph(t)
	win, latency, err := mobility.Analyze(g, 3)
	require.NoError(t, err)

	// при L=3 оба внутренних узла подвижны, решатель выбирает такты
	sol := &glpk.Solution{
		Objective: "7",
		Activities: map[string]int{
			"x_1_1": 1, "x_1_2": 0,
			"x_2_2": 1, "x_2_3": 0,
		},
	}
	data := BuildMLRC(g, win, latency, nil, sol)
	data.RunID = "test-run"
	return data
}

func TestBuildMLRC(t *testing.T) {
	data := mlrcData(t)

	assert.Equal(t, "ML-RC", data.Objective)
	require.Len(t, data.NodeCycles, 2)
	assert.Equal(t, NodeCycle{Node: "a", Cycle: 1}, data.NodeCycles[0])
	assert.Equal(t, NodeCycle{Node: "b", Cycle: 2}, data.NodeCycles[1])
	assert.Equal(t, 2, data.MinLatency)
}

func TestBuildMLRCCriticalFirst(t *testing.T) {
	g := chainGraph(t)
	win, latency, err := mobility.Analyze(g, 0)
	require.NoError(t, err)

	// при L=2 вся цепочка критическая: такты берутся из ASAP
	sol := &glpk.Solution{Activities: map[string]int{"x_1_1": 1, "x_2_2": 1}}
	data := BuildMLRC(g, win, latency, []string{"a", "b"}, sol)

	require.Len(t, data.NodeCycles, 2)
	assert.True(t, data.NodeCycles[0].Critical)
	assert.Equal(t, "a", data.NodeCycles[0].Node)
	assert.Equal(t, 1, data.NodeCycles[0].Cycle)
	assert.Equal(t, 2, data.MinLatency)
}

func TestBuildMRLC(t *testing.T) {
	g := chainGraph(t)
	sol := &glpk.Solution{
		Objective:  "5",
		Activities: map[string]int{"a1": 1, "a2": 1, "x_1_1": 1},
	}
	data := BuildMRLC(g, 2, sol)

	assert.Equal(t, "MR-LC", data.Objective)
	assert.Equal(t, "5", data.MinArea)
	require.Len(t, data.UnitCounts, 2)
	assert.Equal(t, UnitCount{Unit: 1, Resource: "a1", Count: 1}, data.UnitCounts[0])
	assert.Equal(t, UnitCount{Unit: 2, Resource: "a2", Count: 1}, data.UnitCounts[1])
}

func TestTextGenerator(t *testing.T) {
	out, err := NewTextGenerator().Generate(context.Background(), mlrcData(t))
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "The minimized latency is 2.")
	assert.Contains(t, text, "Node")
	assert.Contains(t, text, "Cycle")
	assert.Contains(t, text, "a")

	mrlc := &ReportData{
		Objective:  "MR-LC",
		MinArea:    "12",
		UnitCounts: []UnitCount{{Unit: 1, Resource: "a1", Count: 2}},
	}
	out, err = NewTextGenerator().Generate(context.Background(), mrlc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "The minimized area is 12.")
	assert.Contains(t, string(out), "a1")
}

func TestMarkdownGenerator(t *testing.T) {
	data := mlrcData(t)
	data.GeneratedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data.Raw = map[string]int{"x_1_1": 1}

	out, err := NewMarkdownGenerator().Generate(context.Background(), data)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "# Minimum Latency Schedule"))
	assert.Contains(t, text, "| a | 1 |")
	assert.Contains(t, text, "**Run:** test-run")
	assert.Contains(t, text, "## Solver Variables")
}

func TestCSVGenerator(t *testing.T) {
	out, err := NewCSVGenerator().Generate(context.Background(), mlrcData(t))
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Minimized Latency,2")
	assert.Contains(t, text, "Node,Cycle,Critical Path")
	assert.Contains(t, text, "a,1,false")
}

func TestExcelGenerator(t *testing.T) {
	out, err := NewExcelGenerator().Generate(context.Background(), mlrcData(t))
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(strings.NewReader(string(out)))
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("Schedule", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Minimum Latency Schedule", value)
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"text", "markdown", "csv", "xlsx"} {
		gen, err := ForFormat(format)
		require.NoError(t, err)
		assert.Equal(t, format, gen.Format())
	}

	_, err := ForFormat("pdf")
	require.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".txt", Extension("text"))
	assert.Equal(t, ".md", Extension("markdown"))
	assert.Equal(t, ".csv", Extension("csv"))
	assert.Equal(t, ".xlsx", Extension("xlsx"))
}
