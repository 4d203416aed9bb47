package validators

import (
	"ilpsched/pkg/apperror"
	"ilpsched/pkg/domain"
)

// CheckBoundary проверяет граничные инварианты истока и стока:
// у истока есть потомки и нет предков, у стока есть предки и нет потомков.
func CheckBoundary(g *domain.Graph) error {
	if len(g.Successors(g.Source())) == 0 {
		return apperror.ErrEmptySourceChilds
	}
	if len(g.Predecessors(g.Sink())) == 0 {
		return apperror.ErrEmptySinkParents
	}
	if preds := g.Predecessors(g.Source()); len(preds) > 0 {
		return apperror.Newf(apperror.CodeMalformedGraph,
			"source %q has predecessor %q", g.Source(), preds[0])
	}
	if succs := g.Successors(g.Sink()); len(succs) > 0 {
		return apperror.Newf(apperror.CodeMalformedGraph,
			"sink %q has successor %q", g.Sink(), succs[0])
	}
	return nil
}

// CheckReachability проверяет, что каждый узел достижим из истока
// (прямой обход) и достигает стока (обратный обход).
func CheckReachability(g *domain.Graph) error {
	forward := reach(g, g.Source(), g.Successors)
	for _, label := range g.SortedLabels() {
		if !forward[label] {
			return apperror.Newf(apperror.CodeSourceUnreachable,
				"node %q is untraversable from source", label).
				WithDetails("node", label)
		}
	}

	backward := reach(g, g.Sink(), g.Predecessors)
	for _, label := range g.SortedLabels() {
		if !backward[label] {
			return apperror.Newf(apperror.CodeSinkUnreachable,
				"node %q does not reach sink", label).
				WithDetails("node", label)
		}
	}

	return nil
}

// reach выполняет обход из start по заданной функции смежности
func reach(g *domain.Graph, start string, adj func(string) []string) map[string]bool {
	seen := make(map[string]bool, g.NodeCount())
	seen[start] = true
	stack := []string{start}

	for len(stack) > 0 {
		label := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj(label) {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}

	return seen
}

// Validate выполняет полную проверку DAG: границы, ацикличность,
// достижимость. Первый найденный дефект завершает проверку.
func Validate(g *domain.Graph) error {
	if g == nil {
		return apperror.ErrNilGraph
	}
	if err := CheckBoundary(g); err != nil {
		return err
	}
	if err := CheckAcyclic(g); err != nil {
		return err
	}
	return CheckReachability(g)
}
