// Package mobility computes ASAP and ALAP control steps for every operation
// of a validated DFG. The forward pass assigns the longest-path distance from
// the source, the backward pass the latest admissible start under a latency
// bound. Both passes use an explicit work stack instead of recursion so deep
// graphs cannot overflow the goroutine stack.
package mobility

import (
	"ilpsched/pkg/apperror"
	"ilpsched/pkg/domain"
)

// Windows окна подвижности всех узлов графа
type Windows struct {
	ASAP map[string]int
	ALAP map[string]int
}

// Slack возвращает подвижность узла (ALAP - ASAP)
func (w *Windows) Slack(label string) int {
	return w.ALAP[label] - w.ASAP[label]
}

// Critical сообщает, лежит ли узел на критическом пути (нулевая подвижность)
func (w *Windows) Critical(label string) bool {
	return w.Slack(label) == 0
}

// ASAP возвращает наиболее ранние такты запуска: исток получает 0, каждый
// последующий узел — максимум по предкам плюс один. Обход — DFS от истока,
// потомки в лексикографическом порядке, релаксация к максимуму.
func ASAP(g *domain.Graph) (map[string]int, error) {
	source := g.Source()
	times := map[string]int{source: 0}
	seen := map[string]bool{source: true}

	children := g.Successors(source)
	if len(children) == 0 {
		return nil, apperror.ErrEmptySourceChilds
	}

	relax(g, source, times, seen, g.Successors, func(level, prev int) bool {
		return level > prev
	}, 1)

	if err := checkCovered(g, seen, apperror.CodeSourceUnreachable, "untraversable from source"); err != nil {
		return nil, err
	}
	return times, nil
}

// ALAP возвращает наиболее поздние допустимые такты при ограничении latency:
// сток получает latency+1, каждый предыдущий узел — минимум по потомкам
// минус один. Обратный DFS от стока, предки в лексикографическом порядке.
func ALAP(g *domain.Graph, latency int) (map[string]int, error) {
	sink := g.Sink()
	times := map[string]int{sink: latency + 1}
	seen := map[string]bool{sink: true}

	parents := g.Predecessors(sink)
	if len(parents) == 0 {
		return nil, apperror.ErrEmptySinkParents
	}

	relax(g, sink, times, seen, g.Predecessors, func(level, prev int) bool {
		return level < prev
	}, -1)

	if err := checkCovered(g, seen, apperror.CodeSinkUnreachable, "does not reach sink"); err != nil {
		return nil, err
	}
	return times, nil
}

// relax распространяет такты из start по adj, переписывая значение узла,
// когда better(новое, старое) истинно. Узел возвращается в работу только
// если его такт улучшился — классическая релаксация длиннейшего
// (кратчайше-позднего) пути на DAG.
func relax(g *domain.Graph, start string, times map[string]int, seen map[string]bool,
	adj func(string) []string, better func(level, prev int) bool, step int) {

	type frame struct {
		label string
		level int
	}

	stack := make([]frame, 0, g.NodeCount())
	stack = append(stack, frame{label: start, level: times[start]})

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		next := top.level + step
		for _, child := range adj(top.label) {
			seen[child] = true
			prev, ok := times[child]
			if !ok || better(next, prev) {
				times[child] = next
				stack = append(stack, frame{label: child, level: next})
			}
		}
	}
}

// checkCovered проверяет, что обход посетил каждый узел графа
func checkCovered(g *domain.Graph, seen map[string]bool, code apperror.ErrorCode, reason string) error {
	if len(seen) == g.NodeCount() {
		return nil
	}
	for _, label := range g.SortedLabels() {
		if !seen[label] {
			return apperror.Newf(code, "node %q is %s", label, reason).
				WithDetails("node", label)
		}
	}
	return nil
}

// EffectiveLatency выводит действующее ограничение задержки. Минимум — такт
// последней внутренней операции по ASAP. Пользовательское ограничение ниже
// минимума отклоняется; 0 означает, что ограничение не задано.
func EffectiveLatency(asap map[string]int, sink string, userLatency int) (int, error) {
	minLatency := asap[sink] - 1
	if userLatency == 0 {
		return minLatency, nil
	}
	if userLatency < minLatency {
		return 0, apperror.Newf(apperror.CodeLatencyInfeasible,
			"given latency constraint is too small, should be at least %d", minLatency).
			WithDetails("required", minLatency).
			WithDetails("given", userLatency)
	}
	return userLatency, nil
}

// Analyze вычисляет окна подвижности под действующим ограничением задержки.
// Возвращает окна и само ограничение.
func Analyze(g *domain.Graph, userLatency int) (*Windows, int, error) {
	asap, err := ASAP(g)
	if err != nil {
		return nil, 0, err
	}

	latency, err := EffectiveLatency(asap, g.Sink(), userLatency)
	if err != nil {
		return nil, 0, err
	}

	alap, err := ALAP(g, latency)
	if err != nil {
		return nil, 0, err
	}

	return &Windows{ASAP: asap, ALAP: alap}, latency, nil
}
