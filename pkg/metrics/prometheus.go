package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics глобальный контейнер метрик
type Metrics struct {
	// Запуски планировщика
	ScheduleRunsTotal *prometheus.CounterVec
	EmitDuration      *prometheus.HistogramVec
	SolverDuration    *prometheus.HistogramVec

	// Характеристики входного графа
	GraphNodesTotal *prometheus.HistogramVec
	GraphEdgesTotal *prometheus.HistogramVec

	// Сгенерированные ограничения по семействам (execution, resource, dependency)
	ConstraintsGenerated *prometheus.CounterVec

	// Информация о приложении
	AppInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics инициализирует метрики
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		ScheduleRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "schedule_runs_total",
				Help:      "Total number of schedule generation runs",
			},
			[]string{"objective", "status"},
		),

		EmitDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "emit_duration_seconds",
				Help:      "Duration of LP file generation",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"objective"},
		),

		SolverDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solver_duration_seconds",
				Help:      "Duration of external ILP solver invocations",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"objective"},
		),

		GraphNodesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_nodes_total",
				Help:      "Number of nodes in processed graphs",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000},
			},
			[]string{"operation"},
		),

		GraphEdgesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_edges_total",
				Help:      "Number of edges in processed graphs",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000},
			},
			[]string{"operation"},
		),

		ConstraintsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "constraints_generated_total",
				Help:      "Total number of generated ILP constraints by family",
			},
			[]string{"objective", "family"},
		),

		AppInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "app_info",
				Help:      "Application build information",
			},
			[]string{"version"},
		),
	}

	defaultMetrics = m
	return m
}

// Default возвращает глобальный контейнер (nil до InitMetrics)
func Default() *Metrics {
	return defaultMetrics
}

// ObserveRun записывает завершение запуска планировщика
func (m *Metrics) ObserveRun(objective, status string, emitTime time.Duration) {
	m.ScheduleRunsTotal.WithLabelValues(objective, status).Inc()
	m.EmitDuration.WithLabelValues(objective).Observe(emitTime.Seconds())
}

// ObserveGraph записывает размер обработанного графа
func (m *Metrics) ObserveGraph(operation string, nodes, edges int) {
	m.GraphNodesTotal.WithLabelValues(operation).Observe(float64(nodes))
	m.GraphEdgesTotal.WithLabelValues(operation).Observe(float64(edges))
}

// ObserveSolver записывает длительность вызова решателя
func (m *Metrics) ObserveSolver(objective string, d time.Duration) {
	m.SolverDuration.WithLabelValues(objective).Observe(d.Seconds())
}

// AddConstraints записывает количество сгенерированных ограничений семейства
func (m *Metrics) AddConstraints(objective, family string, n int) {
	m.ConstraintsGenerated.WithLabelValues(objective, family).Add(float64(n))
}

// Serve поднимает HTTP-сервер с промо-эндпоинтом; используется при
// долгих пакетных запусках, когда включено metrics.enabled
func Serve(port int, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
