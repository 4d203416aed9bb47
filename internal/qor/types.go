package qor

import (
	"sort"
	"strconv"
	"time"

	"ilpsched/internal/glpk"
	"ilpsched/internal/ilp"
	"ilpsched/internal/mobility"
	"ilpsched/pkg/domain"
)

// NodeCycle такт запуска одной операции в оптимальном расписании
type NodeCycle struct {
	Node     string
	Cycle    int
	Critical bool // такт был зафиксирован критическим путём, а не решателем
}

// UnitCount оптимальное число экземпляров одного юнита
type UnitCount struct {
	Unit     int
	Resource string // имя переменной, как в LP-файле (a3)
	Count    int
}

// ReportData данные для генерации QoR-отчёта
type ReportData struct {
	RunID     string
	Objective string
	Latency   int // действующее ограничение задержки

	// ML-RC
	NodeCycles []NodeCycle
	MinLatency int

	// MR-LC
	UnitCounts []UnitCount
	MinArea    string

	// Разобранные переменные решателя, попадают в отчёт при include_raw
	Raw map[string]int

	GeneratedAt time.Time
}

// BuildMLRC собирает QoR для минимизации задержки: сначала узлы критического
// пути с тактами из ASAP, затем узлы, такты которых выбрал решатель.
// Минимизированная задержка — максимальный такт по всем операциям.
func BuildMLRC(g *domain.Graph, win *mobility.Windows, latency int, critPath []string, sol *glpk.Solution) *ReportData {
	data := &ReportData{
		Objective:   "ML-RC",
		Latency:     latency,
		Raw:         sol.Activities,
		GeneratedAt: time.Now(),
	}

	listed := make(map[string]bool, len(critPath))
	for _, label := range critPath {
		data.NodeCycles = append(data.NodeCycles, NodeCycle{
			Node:     label,
			Cycle:    win.ASAP[label],
			Critical: true,
		})
		listed[label] = true
	}

	// переменные решателя адресуют узлы индексом в каноническом порядке
	order := g.CanonicalOrder()
	byID := make(map[string]string, len(order))
	for i, label := range order {
		if label == g.Sink() {
			byID[ilp.SinkID] = label
		} else {
			byID[strconv.Itoa(i)] = label
		}
	}

	var solved []NodeCycle
	for name, value := range sol.Activities {
		if value != 1 {
			continue
		}
		id, step, ok := glpk.DecodeExecVar(name)
		if !ok {
			continue
		}
		label, known := byID[id]
		if !known || listed[label] || label == g.Source() || label == g.Sink() {
			continue
		}
		solved = append(solved, NodeCycle{Node: label, Cycle: step})
	}
	sort.Slice(solved, func(i, j int) bool { return solved[i].Node < solved[j].Node })
	data.NodeCycles = append(data.NodeCycles, solved...)

	for _, nc := range data.NodeCycles {
		if nc.Cycle > data.MinLatency {
			data.MinLatency = nc.Cycle
		}
	}
	return data
}

// BuildMRLC собирает QoR для минимизации ресурсов: число экземпляров
// каждого внутреннего юнита и минимизированная площадь из целевой функции.
func BuildMRLC(g *domain.Graph, latency int, sol *glpk.Solution) *ReportData {
	data := &ReportData{
		Objective:   "MR-LC",
		Latency:     latency,
		MinArea:     sol.Objective,
		Raw:         sol.Activities,
		GeneratedAt: time.Now(),
	}

	for _, uc := range g.InteriorUnits() {
		resource := "a" + strconv.Itoa(uc.Unit)
		if count, ok := sol.Activities[resource]; ok {
			data.UnitCounts = append(data.UnitCounts, UnitCount{
				Unit:     uc.Unit,
				Resource: resource,
				Count:    count,
			})
		}
	}
	return data
}
