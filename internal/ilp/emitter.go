// Package ilp turns a validated DFG with precomputed mobility windows into an
// ILP formulation in the canonical CPLEX-LP textual form. The emitter walks a
// fixed sequence of phases (objective, execution, resource, dependency,
// closing) and appends to a line buffer; it never reorders or revisits lines,
// so the output is deterministic down to the byte.
package ilp

import (
	"strconv"
	"strings"

	"ilpsched/internal/mobility"
	"ilpsched/pkg/apperror"
	"ilpsched/pkg/domain"
)

// Objective целевая функция расписания
type Objective int

const (
	// MLRC минимизация задержки при фиксированных ресурсах
	MLRC Objective = iota
	// MRLC минимизация ресурсов при ограниченной задержке
	MRLC
)

// String возвращает каноническое имя целевой функции
func (o Objective) String() string {
	switch o {
	case MLRC:
		return "ML-RC"
	case MRLC:
		return "MR-LC"
	default:
		return "unknown"
	}
}

// Options параметры генерации
type Options struct {
	// UnitCounts фиксированные количества экземпляров внутренних юнитов
	// для ML-RC, позиционно по возрастанию id юнита
	UnitCounts []int
}

// Result результат генерации LP-файла
type Result struct {
	Lines       []string       // строки файла в порядке записи
	CritPath    []string       // внутренние узлы критического пути (ML-RC)
	IntegerVars []string       // переменные из закрывающей секции Integer
	Families    map[string]int // количество ограничений по семействам
}

type emitter struct {
	g       *domain.Graph
	win     *mobility.Windows
	latency int
	obj     Objective
	opts    Options

	order []string          // канонический порядок узлов
	ids   map[string]string // метка -> идентификатор в именах переменных

	lines    []string
	critPath []string
	integers []string
	families map[string]int
}

// Emit генерирует LP-файл для заданной целевой функции. Вход обязан быть
// валидированным DAG с окнами, рассчитанными под действующую задержку;
// на таком входе генерация не завершается ошибкой, кроме несоответствия
// количества ресурсных ограничений для ML-RC.
func Emit(g *domain.Graph, win *mobility.Windows, latency int, obj Objective, opts Options) (*Result, error) {
	if g == nil {
		return nil, apperror.ErrNilGraph
	}
	if obj == MLRC {
		if expected := len(g.InteriorUnits()); expected != len(opts.UnitCounts) {
			return nil, apperror.Newf(apperror.CodeResourceCountMismatch,
				"expected %d area constraints but %d supplied", expected, len(opts.UnitCounts)).
				WithDetails("expected", expected).
				WithDetails("given", len(opts.UnitCounts))
		}
	}

	e := &emitter{
		g:        g,
		win:      win,
		latency:  latency,
		obj:      obj,
		opts:     opts,
		order:    g.CanonicalOrder(),
		ids:      make(map[string]string, g.NodeCount()),
		families: make(map[string]int, 3),
	}
	for i, label := range e.order {
		if label == g.Sink() {
			e.ids[label] = SinkID
		} else {
			e.ids[label] = strconv.Itoa(i)
		}
	}

	e.append("Minimize")
	e.emitObjective()
	e.append("Subject To")
	e.emitExecution()
	e.emitResource()
	e.emitDependency()
	e.emitClosing()

	return &Result{
		Lines:       e.lines,
		CritPath:    e.critPath,
		IntegerVars: e.integers,
		Families:    e.families,
	}, nil
}

func (e *emitter) append(line string) {
	e.lines = append(e.lines, line)
}

// emitObjective генерирует целевую функцию.
// MR-LC: сумма cost*a по внутренним юнитам.
// ML-RC: сумма t*x по узлам с ненулевой подвижностью; узлы критического
// пути опускаются — их такт зафиксирован единственной переменной
// исполнения — и запоминаются для отчёта о результатах.
func (e *emitter) emitObjective() {
	if e.obj == MRLC {
		terms := make([]string, 0, len(e.g.InteriorUnits()))
		for _, uc := range e.g.InteriorUnits() {
			terms = append(terms, CostedResourceVar(uc.Unit, uc.Cost))
		}
		e.append("  " + strings.Join(terms, " + "))
		return
	}

	var terms []string
	for _, label := range e.order {
		start, end := e.win.ASAP[label], e.win.ALAP[label]
		if start == end {
			if label != e.g.Source() && label != e.g.Sink() {
				e.critPath = append(e.critPath, label)
			}
			continue
		}
		for t := start; t <= end; t++ {
			terms = append(terms, WeightedExecVar(e.ids[label], t))
			e.integers = append(e.integers, ExecVar(e.ids[label], t))
		}
	}
	e.append("  " + strings.Join(terms, " + "))
}

// emitExecution генерирует по одному ограничению исполнения на узел:
// сумма x по окну подвижности равна единице.
func (e *emitter) emitExecution() {
	k := 0
	for _, label := range e.order {
		terms := make([]string, 0, e.win.Slack(label)+1)
		for t := e.win.ASAP[label]; t <= e.win.ALAP[label]; t++ {
			terms = append(terms, ExecVar(e.ids[label], t))
		}
		e.append("  " + Label(FamilyExecution, k) + ": " + strings.Join(terms, " + ") + " = 1")
		k++
	}
	e.families[FamilyExecution] = k
}

// emitResource генерирует ресурсные ограничения: для каждого внутреннего
// юнита и каждого такта 1..L суммируются кандидаты, чьё окно содержит такт.
// Пустой набор кандидатов не даёт ограничения. MR-LC вычитает переменную
// числа экземпляров, ML-RC сравнивает с фиксированным количеством.
func (e *emitter) emitResource() {
	k := 0
	for rank, uc := range e.g.InteriorUnits() {
		nodes := e.g.NodesOfUnit(uc.Unit)
		for t := 1; t <= e.latency; t++ {
			var terms []string
			for _, label := range nodes {
				if t >= e.win.ASAP[label] && t <= e.win.ALAP[label] {
					terms = append(terms, ExecVar(e.ids[label], t))
				}
			}
			if len(terms) == 0 {
				continue
			}
			sum := strings.Join(terms, " + ")
			var line string
			if e.obj == MRLC {
				line = "  " + Label(FamilyResource, k) + ": " + sum + " - " + ResourceVar(uc.Unit) + " <= 0"
			} else {
				line = "  " + Label(FamilyResource, k) + ": " + sum + " <= " + strconv.Itoa(e.opts.UnitCounts[rank])
			}
			e.append(line)
			k++
		}
	}
	e.families[FamilyResource] = k
}

// emitDependency генерирует ограничения зависимостей по рёбрам с
// подвижностью: взвешенный такт потомка минус взвешенный такт предка не
// меньше единицы. Рёбра от истока пропускаются (их накрывают ограничения
// исполнения), как и рёбра, оба конца которых лежат на критическом пути.
func (e *emitter) emitDependency() {
	k := 0
	for _, label := range e.order {
		for _, parent := range e.g.Predecessors(label) {
			if parent == e.g.Source() {
				continue
			}
			if e.win.Slack(label) == 0 && e.win.Slack(parent) == 0 {
				continue
			}

			var b strings.Builder
			b.WriteString("  ")
			b.WriteString(Label(FamilyDependency, k))
			b.WriteString(": ")
			for t := e.win.ASAP[label]; t <= e.win.ALAP[label]; t++ {
				if t > e.win.ASAP[label] {
					b.WriteString(" + ")
				}
				b.WriteString(WeightedExecVar(e.ids[label], t))
			}
			for t := e.win.ASAP[parent]; t <= e.win.ALAP[parent]; t++ {
				b.WriteString(" - ")
				b.WriteString(WeightedExecVar(e.ids[parent], t))
			}
			b.WriteString(" >= 1")
			e.append(b.String())
			k++
		}
	}
	e.families[FamilyDependency] = k
}

// emitClosing генерирует секцию Integer и завершающий End.
// ML-RC объявляет целыми переменные из целевой функции, MR-LC — переменные
// числа экземпляров внутренних юнитов.
func (e *emitter) emitClosing() {
	e.append("Integer")
	if e.obj == MLRC {
		e.append("  " + strings.Join(e.integers, " "))
	} else {
		vars := make([]string, 0, len(e.g.InteriorUnits()))
		for _, uc := range e.g.InteriorUnits() {
			vars = append(vars, ResourceVar(uc.Unit))
		}
		e.append("  " + strings.Join(vars, " "))
		e.integers = vars
	}
	e.append("End")
}
