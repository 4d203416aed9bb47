package domain

import (
	"fmt"
	"sort"

	"ilpsched/pkg/apperror"
)

// EdgeKey уникальный ключ ребра
type EdgeKey struct {
	From string
	To   string
}

// String возвращает строковое представление ключа ребра
func (e EdgeKey) String() string {
	return fmt.Sprintf("%s->%s", e.From, e.To)
}

// Node представляет операцию потока данных
type Node struct {
	Label string // стабильная идентичность, узлы упорядочены лексикографически
	Unit  int    // тип ресурса (0 = исток, максимальный id = сток)
	Cost  int    // площадь одного экземпляра юнита
}

// EdgeAttrs атрибуты ребра из edgelist-файла
type EdgeAttrs struct {
	RootUnit  int
	ChildUnit int
	RootCost  int
	ChildCost int
}

// Edge представляет зависимость данных между двумя операциями
type Edge struct {
	From  string
	To    string
	Attrs EdgeAttrs
}

// Key возвращает ключ ребра
func (e *Edge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// UnitCost элемент таблицы юнитов (id юнита и стоимость одного экземпляра)
type UnitCost struct {
	Unit int
	Cost int
}

// Graph представляет DFG с выделенными истоком и стоком.
// После Freeze граф неизменяем: списки смежности материализованы
// в отсортированном виде, таблицы юнитов свёрнуты из атрибутов рёбер.
type Graph struct {
	nodes  map[string]*Node
	edges  map[EdgeKey]*Edge
	order  []string // порядок добавления узлов
	source string
	sink   string

	// Индексы, материализуются в Freeze
	succ  map[string][]string // отсортированы по метке
	pred  map[string][]string // отсортированы по метке
	units []UnitCost          // по возрастанию id юнита

	frozen bool
}

// NewGraph создаёт новый пустой граф
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[EdgeKey]*Edge),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
	}
}

// AddEdge добавляет ребро вместе с атрибутами; узлы создаются по мере появления.
// После Freeze вызов запрещён.
func (g *Graph) AddEdge(from, to string, attrs EdgeAttrs) error {
	if g.frozen {
		return apperror.New(apperror.CodeInternal, "graph is frozen")
	}
	if from == to {
		return apperror.Newf(apperror.CodeSelfLoop, "self-loop at node %q", from)
	}
	g.touch(from)
	g.touch(to)

	key := EdgeKey{From: from, To: to}
	if _, ok := g.edges[key]; ok {
		return apperror.Newf(apperror.CodeMalformedGraph, "duplicate edge %s", key)
	}
	g.edges[key] = &Edge{From: from, To: to, Attrs: attrs}
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
	return nil
}

// AddNode регистрирует узел с явными атрибутами. Обычно узлы появляются
// через AddEdge; явное добавление нужно для узлов без инцидентных рёбер.
func (g *Graph) AddNode(label string, unit, cost int) error {
	if g.frozen {
		return apperror.New(apperror.CodeInternal, "graph is frozen")
	}
	g.touch(label)
	n := g.nodes[label]
	n.Unit = unit
	n.Cost = cost
	return nil
}

// touch регистрирует узел при первом упоминании
func (g *Graph) touch(label string) {
	if _, ok := g.nodes[label]; !ok {
		g.nodes[label] = &Node{Label: label, Unit: -1, Cost: -1}
		g.order = append(g.order, label)
	}
}

// Freeze фиксирует исток и сток, сворачивает атрибуты рёбер в таблицы
// юнитов и материализует отсортированные списки смежности.
// Противоречивые атрибуты дают MalformedGraph.
func (g *Graph) Freeze(source, sink string) error {
	if g.frozen {
		return nil
	}
	if len(g.nodes) == 0 {
		return apperror.ErrEmptyGraph
	}
	if _, ok := g.nodes[source]; !ok {
		return apperror.ErrInvalidSource
	}
	if _, ok := g.nodes[sink]; !ok {
		return apperror.ErrInvalidSink
	}
	if source == sink {
		return apperror.New(apperror.CodeMalformedGraph, "source and sink cannot be the same node")
	}
	g.source = source
	g.sink = sink

	if err := g.foldAttrs(); err != nil {
		return err
	}

	for label := range g.succ {
		sort.Strings(g.succ[label])
	}
	for label := range g.pred {
		sort.Strings(g.pred[label])
	}

	g.frozen = true
	return nil
}

// foldAttrs выводит юнит и стоимость каждого узла из атрибутов инцидентных
// рёбер и проверяет их глобальную согласованность
func (g *Graph) foldAttrs() error {
	for key, edge := range g.edges {
		a := edge.Attrs
		if a.RootUnit < 0 || a.ChildUnit < 0 || a.RootCost < 0 || a.ChildCost < 0 {
			return apperror.Newf(apperror.CodeMalformedGraph,
				"edge %s carries a negative attribute", key)
		}
		if err := g.assign(edge.From, a.RootUnit, a.RootCost, key); err != nil {
			return err
		}
		if err := g.assign(edge.To, a.ChildUnit, a.ChildCost, key); err != nil {
			return err
		}
	}

	// узел без единого ребра не получает атрибутов
	unitCost := make(map[int]int)
	for _, label := range g.order {
		n := g.nodes[label]
		if n.Unit < 0 {
			return apperror.Newf(apperror.CodeMalformedGraph,
				"node %q has no unit attribute (no incident edges)", label)
		}
		if prev, ok := unitCost[n.Unit]; ok && prev != n.Cost {
			return apperror.Newf(apperror.CodeMalformedGraph,
				"unit %d has conflicting costs %d and %d", n.Unit, prev, n.Cost)
		}
		unitCost[n.Unit] = n.Cost
	}

	g.units = g.units[:0]
	for unit, cost := range unitCost {
		g.units = append(g.units, UnitCost{Unit: unit, Cost: cost})
	}
	sort.Slice(g.units, func(i, j int) bool { return g.units[i].Unit < g.units[j].Unit })
	return nil
}

// assign записывает юнит/стоимость узла, проверяя согласованность между рёбрами
func (g *Graph) assign(label string, unit, cost int, key EdgeKey) error {
	n := g.nodes[label]
	if n.Unit >= 0 && n.Unit != unit {
		return apperror.Newf(apperror.CodeMalformedGraph,
			"node %q has conflicting units %d and %d (edge %s)", label, n.Unit, unit, key)
	}
	if n.Cost >= 0 && n.Cost != cost {
		return apperror.Newf(apperror.CodeMalformedGraph,
			"node %q has conflicting costs %d and %d (edge %s)", label, n.Cost, cost, key)
	}
	n.Unit = unit
	n.Cost = cost
	return nil
}

// Source возвращает метку истока
func (g *Graph) Source() string { return g.source }

// Sink возвращает метку стока
func (g *Graph) Sink() string { return g.sink }

// Node возвращает узел по метке
func (g *Graph) Node(label string) (*Node, bool) {
	n, ok := g.nodes[label]
	return n, ok
}

// Edge возвращает ребро между двумя узлами
func (g *Graph) Edge(from, to string) (*Edge, bool) {
	e, ok := g.edges[EdgeKey{From: from, To: to}]
	return e, ok
}

// Labels возвращает метки узлов в порядке добавления
func (g *Graph) Labels() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// SortedLabels возвращает метки узлов в лексикографическом порядке
func (g *Graph) SortedLabels() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	sort.Strings(out)
	return out
}

// Successors возвращает потомков узла, отсортированных по метке
func (g *Graph) Successors(label string) []string {
	return g.succ[label]
}

// Predecessors возвращает предков узла, отсортированных по метке
func (g *Graph) Predecessors(label string) []string {
	return g.pred[label]
}

// NodeCount возвращает количество узлов
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount возвращает количество рёбер
func (g *Graph) EdgeCount() int { return len(g.edges) }

// CanonicalOrder возвращает канонический порядок узлов: метки сортируются,
// исток переставляется в начало, сток в конец. Индекс узла в этом срезе
// определяет его идентификатор в переменных LP-файла.
func (g *Graph) CanonicalOrder() []string {
	sorted := g.SortedLabels()
	out := make([]string, 0, len(sorted))
	out = append(out, g.source)
	for _, label := range sorted {
		if label != g.source && label != g.sink {
			out = append(out, label)
		}
	}
	out = append(out, g.sink)
	return out
}

// Units возвращает таблицу юнитов по возрастанию id.
// Наименьший id принадлежит истоку, наибольший стоку.
func (g *Graph) Units() []UnitCost {
	out := make([]UnitCost, len(g.units))
	copy(out, g.units)
	return out
}

// InteriorUnits возвращает таблицу юнитов без юнитов истока и стока
func (g *Graph) InteriorUnits() []UnitCost {
	if len(g.units) <= 2 {
		return nil
	}
	out := make([]UnitCost, len(g.units)-2)
	copy(out, g.units[1:len(g.units)-1])
	return out
}

// NodeUnit возвращает id юнита узла
func (g *Graph) NodeUnit(label string) int {
	if n, ok := g.nodes[label]; ok {
		return n.Unit
	}
	return -1
}

// NodesOfUnit возвращает узлы данного юнита, отсортированные по метке
func (g *Graph) NodesOfUnit(unit int) []string {
	var out []string
	for _, label := range g.SortedLabels() {
		if g.nodes[label].Unit == unit {
			out = append(out, label)
		}
	}
	return out
}
