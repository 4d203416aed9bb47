package ilp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilpsched/internal/mobility"
	"ilpsched/pkg/apperror"
	"ilpsched/pkg/domain"
)

func attrs(ru, cu, rc, cc int) domain.EdgeAttrs {
	return domain.EdgeAttrs{RootUnit: ru, ChildUnit: cu, RootCost: rc, ChildCost: cc}
}

func fixtureGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	edges := []struct {
		from, to string
		a        domain.EdgeAttrs
	}{
		{"s", "v1", attrs(0, 3, 0, 3)},
		{"s", "v2", attrs(0, 3, 0, 3)},
		{"s", "v3", attrs(0, 4, 0, 5)},
		{"v1", "v4", attrs(3, 1, 3, 2)},
		{"v2", "v5", attrs(3, 2, 3, 2)},
		{"v2", "v8", attrs(3, 4, 3, 5)},
		{"v3", "v6", attrs(4, 3, 5, 3)},
		{"v4", "v8", attrs(1, 4, 2, 5)},
		{"v4", "v7", attrs(1, 4, 2, 5)},
		{"v5", "v9", attrs(2, 3, 2, 3)},
		{"v6", "t", attrs(3, 5, 3, 0)},
		{"v7", "t", attrs(4, 5, 5, 0)},
		{"v8", "v9", attrs(4, 3, 5, 3)},
		{"v9", "t", attrs(3, 5, 3, 0)},
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e.from, e.to, e.a))
	}
	require.NoError(t, g.Freeze("s", "t"))
	return g
}

func analyze(t *testing.T, g *domain.Graph, userLatency int) (*mobility.Windows, int) {
	t.Helper()
	win, latency, err := mobility.Analyze(g, userLatency)
	require.NoError(t, err)
	return win, latency
}

func TestEmitMRLCGolden(t *testing.T) {
	g := fixtureGraph(t)
	win, latency := analyze(t, g, 4)

	res, err := Emit(g, win, latency, MRLC, Options{})
	require.NoError(t, err)

	want := []string{
		"Minimize",
		"  2a1 + 2a2 + 3a3 + 5a4",
		"Subject To",
		"  e0: x_0_0 = 1",
		"  e1: x_1_1 = 1",
		"  e2: x_2_1 + x_2_2 = 1",
		"  e3: x_3_1 + x_3_2 + x_3_3 = 1",
		"  e4: x_4_2 = 1",
		"  e5: x_5_2 + x_5_3 = 1",
		"  e6: x_6_2 + x_6_3 + x_6_4 = 1",
		"  e7: x_7_3 + x_7_4 = 1",
		"  e8: x_8_3 = 1",
		"  e9: x_9_4 = 1",
		"  e10: x_n_5 = 1",
		"  r0: x_4_2 - a1 <= 0",
		"  r1: x_5_2 - a2 <= 0",
		"  r2: x_5_3 - a2 <= 0",
		"  r3: x_1_1 + x_2_1 - a3 <= 0",
		"  r4: x_2_2 + x_6_2 - a3 <= 0",
		"  r5: x_6_3 - a3 <= 0",
		"  r6: x_6_4 + x_9_4 - a3 <= 0",
		"  r7: x_3_1 - a4 <= 0",
		"  r8: x_3_2 - a4 <= 0",
		"  r9: x_3_3 + x_7_3 + x_8_3 - a4 <= 0",
		"  r10: x_7_4 - a4 <= 0",
		"  d0: 2x_5_2 + 3x_5_3 - 1x_2_1 - 2x_2_2 >= 1",
		"  d1: 2x_6_2 + 3x_6_3 + 4x_6_4 - 1x_3_1 - 2x_3_2 - 3x_3_3 >= 1",
		"  d2: 3x_7_3 + 4x_7_4 - 2x_4_2 >= 1",
		"  d3: 3x_8_3 - 1x_2_1 - 2x_2_2 >= 1",
		"  d4: 4x_9_4 - 2x_5_2 - 3x_5_3 >= 1",
		"  d5: 5x_n_5 - 2x_6_2 - 3x_6_3 - 4x_6_4 >= 1",
		"  d6: 5x_n_5 - 3x_7_3 - 4x_7_4 >= 1",
		"Integer",
		"  a1 a2 a3 a4",
		"End",
	}
	assert.Equal(t, want, res.Lines)

	assert.Equal(t, 11, res.Families[FamilyExecution])
	assert.Equal(t, 11, res.Families[FamilyResource])
	assert.Equal(t, 7, res.Families[FamilyDependency])
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, res.IntegerVars)
}

func TestEmitMLRC(t *testing.T) {
	g := fixtureGraph(t)
	win, latency := analyze(t, g, 4)

	res, err := Emit(g, win, latency, MLRC, Options{UnitCounts: []int{1, 1, 2, 1}})
	require.NoError(t, err)

	wantObjective := "  1x_2_1 + 2x_2_2 + 1x_3_1 + 2x_3_2 + 3x_3_3 + 2x_5_2 + 3x_5_3" +
		" + 2x_6_2 + 3x_6_3 + 4x_6_4 + 3x_7_3 + 4x_7_4"
	assert.Equal(t, "Minimize", res.Lines[0])
	assert.Equal(t, wantObjective, res.Lines[1])

	// узлы критического пути исключены из целевой функции и запомнены отдельно
	assert.Equal(t, []string{"v1", "v4", "v8", "v9"}, res.CritPath)

	// ресурсные ограничения сравнивают с фиксированными количествами
	assert.Contains(t, res.Lines, "  r0: x_4_2 <= 1")
	assert.Contains(t, res.Lines, "  r3: x_1_1 + x_2_1 <= 2")
	assert.Contains(t, res.Lines, "  r9: x_3_3 + x_7_3 + x_8_3 <= 1")

	// секция Integer перечисляет переменные целевой функции
	wantIntegers := []string{
		"x_2_1", "x_2_2", "x_3_1", "x_3_2", "x_3_3",
		"x_5_2", "x_5_3", "x_6_2", "x_6_3", "x_6_4", "x_7_3", "x_7_4",
	}
	assert.Equal(t, wantIntegers, res.IntegerVars)
	assert.Equal(t, "  "+strings.Join(wantIntegers, " "), res.Lines[len(res.Lines)-2])
	assert.Equal(t, "End", res.Lines[len(res.Lines)-1])

	// число ограничений исполнения равно числу узлов
	assert.Equal(t, g.NodeCount(), res.Families[FamilyExecution])
}

func TestEmitMLRCResourceCountMismatch(t *testing.T) {
	g := fixtureGraph(t)
	win, latency := analyze(t, g, 0)

	_, err := Emit(g, win, latency, MLRC, Options{UnitCounts: []int{1, 1}})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeResourceCountMismatch, apperror.Code(err))

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 4, appErr.Details["expected"])
	assert.Equal(t, 2, appErr.Details["given"])
}

func TestEmitDeterministic(t *testing.T) {
	g := fixtureGraph(t)
	win, latency := analyze(t, g, 4)

	first, err := Emit(g, win, latency, MRLC, Options{})
	require.NoError(t, err)
	second, err := Emit(g, win, latency, MRLC, Options{})
	require.NoError(t, err)

	assert.Equal(t, strings.Join(first.Lines, "\n"), strings.Join(second.Lines, "\n"))
}

func TestEmitCriticalChainHasNoDependencies(t *testing.T) {
	// линейная цепочка целиком лежит на критическом пути:
	// все зависимости накрыты ограничениями исполнения
	g := domain.NewGraph()
	require.NoError(t, g.AddEdge("s", "a", attrs(0, 1, 0, 2)))
	require.NoError(t, g.AddEdge("a", "b", attrs(1, 2, 2, 3)))
	require.NoError(t, g.AddEdge("b", "t", attrs(2, 3, 3, 0)))
	require.NoError(t, g.Freeze("s", "t"))

	win, latency := analyze(t, g, 2)
	require.Equal(t, 2, latency)

	res, err := Emit(g, win, latency, MRLC, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Families[FamilyDependency])
	for _, line := range res.Lines {
		assert.False(t, strings.HasPrefix(line, "  d"), "unexpected dependency constraint %q", line)
	}

	// каждый узел даёт ровно одно единичное ограничение исполнения
	assert.Equal(t, 4, res.Families[FamilyExecution])
	assert.Contains(t, res.Lines, "  e1: x_1_1 = 1")
	assert.Contains(t, res.Lines, "  e3: x_n_3 = 1")
}

func TestEmitResourceCoverage(t *testing.T) {
	g := fixtureGraph(t)
	win, latency := analyze(t, g, 4)

	res, err := Emit(g, win, latency, MRLC, Options{})
	require.NoError(t, err)

	// для каждого внутреннего юнита и такта с кандидатами — ровно одно
	// ограничение; пустые наборы кандидатов ограничений не дают
	var resourceLines int
	for _, line := range res.Lines {
		if strings.HasPrefix(line, "  r") {
			resourceLines++
		}
	}

	wantConstraints := 0
	for _, uc := range g.InteriorUnits() {
		for step := 1; step <= latency; step++ {
			for _, label := range g.NodesOfUnit(uc.Unit) {
				if step >= win.ASAP[label] && step <= win.ALAP[label] {
					wantConstraints++
					break
				}
			}
		}
	}
	assert.Equal(t, wantConstraints, resourceLines)
	assert.Equal(t, wantConstraints, res.Families[FamilyResource])
}

func TestEmitWiderLatencySkipsEmptySlots(t *testing.T) {
	// цепочка с запасом: при L=3 у юнита 2 нет кандидатов на первом такте,
	// так как окно b начинается со второго
	g := domain.NewGraph()
	require.NoError(t, g.AddEdge("s", "a", attrs(0, 1, 0, 2)))
	require.NoError(t, g.AddEdge("a", "b", attrs(1, 2, 2, 3)))
	require.NoError(t, g.AddEdge("b", "t", attrs(2, 3, 3, 0)))
	require.NoError(t, g.Freeze("s", "t"))

	win, latency := analyze(t, g, 3)
	require.Equal(t, 3, latency)

	res, err := Emit(g, win, latency, MRLC, Options{})
	require.NoError(t, err)

	// a: окно [1,2], b: окно [2,3] — юнит 2 не имеет кандидата на такте 1
	assert.Contains(t, res.Lines, "  r0: x_1_1 - a1 <= 0")
	assert.Contains(t, res.Lines, "  r1: x_1_2 - a1 <= 0")
	assert.Contains(t, res.Lines, "  r2: x_2_2 - a2 <= 0")
	assert.Contains(t, res.Lines, "  r3: x_2_3 - a2 <= 0")
	assert.Equal(t, 4, res.Families[FamilyResource])
}

func TestObjectiveString(t *testing.T) {
	assert.Equal(t, "ML-RC", MLRC.String())
	assert.Equal(t, "MR-LC", MRLC.String())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "x_2_1", ExecVar("2", 1))
	assert.Equal(t, "x_n_5", ExecVar(SinkID, 5))
	assert.Equal(t, "3x_7_3", WeightedExecVar("7", 3))
	assert.Equal(t, "a4", ResourceVar(4))
	assert.Equal(t, "5a4", CostedResourceVar(4, 5))
	assert.Equal(t, "e0", Label(FamilyExecution, 0))
	assert.Equal(t, "d12", Label(FamilyDependency, 12))
}
