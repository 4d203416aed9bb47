// Package scheduler orchestrates a scheduling run: objective selection, DAG
// validation, mobility analysis, LP emission, optional solver invocation and
// QoR reporting. Control flow is linear and single-threaded; each objective
// produces a fully independent LP file.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ilpsched/internal/glpk"
	"ilpsched/internal/ilp"
	"ilpsched/internal/mobility"
	"ilpsched/internal/qor"
	"ilpsched/internal/validators"
	"ilpsched/pkg/apperror"
	"ilpsched/pkg/config"
	"ilpsched/pkg/domain"
	"ilpsched/pkg/logger"
	"ilpsched/pkg/metrics"
)

// Options параметры одного запуска планировщика
type Options struct {
	Latency  int   // ограничение задержки, 0 = не задано
	AreaCost []int // количества экземпляров внутренних юнитов, nil = не задано
	NoSolve  bool  // только сгенерировать LP-файлы, решатель не вызывать
}

// RunResult результат обработки одной целевой функции
type RunResult struct {
	Objective ilp.Objective
	Latency   int      // действующее ограничение
	LPPath    string   // путь записанного LP-файла
	Lines     []string // содержимое LP-файла
	CritPath  []string // внутренние узлы критического пути (ML-RC)

	Solution *glpk.Solution    // nil, если решатель не вызывался
	Report   *qor.ReportData   // nil, если решатель не вызывался
	Reports  map[string]string // формат -> путь записанного отчёта
}

// Scheduler последовательно выполняет фазы планирования
type Scheduler struct {
	cfg *config.Config
}

// New создаёт планировщик с заданной конфигурацией
func New(cfg *config.Config) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// SelectObjectives выбирает целевые функции по наличию ограничений.
// Ни одного ограничения — ошибка; оба — две независимые генерации.
func SelectObjectives(latency int, areaCost []int) ([]ilp.Objective, error) {
	switch {
	case latency == 0 && len(areaCost) == 0:
		return nil, apperror.ErrNoConstraint
	case latency == 0:
		return []ilp.Objective{ilp.MLRC}, nil
	case len(areaCost) == 0:
		return []ilp.Objective{ilp.MRLC}, nil
	default:
		return []ilp.Objective{ilp.MLRC, ilp.MRLC}, nil
	}
}

// Run выполняет полный цикл планирования для валидированного графа
func (s *Scheduler) Run(ctx context.Context, g *domain.Graph, opts Options) ([]*RunResult, error) {
	if g == nil {
		return nil, apperror.ErrNilGraph
	}

	runID := uuid.NewString()
	log := logger.WithRun(runID)

	objectives, err := SelectObjectives(opts.Latency, opts.AreaCost)
	if err != nil {
		return nil, err
	}

	if opts.AreaCost != nil {
		if expected := len(g.InteriorUnits()); expected != len(opts.AreaCost) {
			return nil, apperror.Newf(apperror.CodeResourceCountMismatch,
				"expected %d area constraints but %d supplied", expected, len(opts.AreaCost)).
				WithDetails("expected", expected).
				WithDetails("given", len(opts.AreaCost))
		}
	}

	if err := validators.Validate(g); err != nil {
		return nil, err
	}
	if m := metrics.Default(); m != nil {
		m.ObserveGraph("schedule", g.NodeCount(), g.EdgeCount())
	}

	results := make([]*RunResult, 0, len(objectives))
	for _, obj := range objectives {
		log.Info("schedule", "objective", obj.String())
		res, err := s.runObjective(ctx, g, obj, opts, runID)
		if err != nil {
			if m := metrics.Default(); m != nil {
				m.ScheduleRunsTotal.WithLabelValues(obj.String(), "error").Inc()
			}
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// runObjective обрабатывает одну целевую функцию: подвижность, генерация,
// атомарная запись LP-файла, решатель и отчёты
func (s *Scheduler) runObjective(ctx context.Context, g *domain.Graph, obj ilp.Objective, opts Options, runID string) (*RunResult, error) {
	win, latency, err := mobility.Analyze(g, opts.Latency)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	emitted, err := ilp.Emit(g, win, latency, obj, ilp.Options{UnitCounts: opts.AreaCost})
	if err != nil {
		return nil, err
	}
	emitTime := time.Since(start)

	// строки накоплены целиком, файл появляется одной записью:
	// сбой до этого места не оставляет частичного LP-файла
	lpPath := filepath.Join(s.cfg.Output.Dir, fmt.Sprintf("auto_%s.lp", obj))
	if err := writeLines(lpPath, emitted.Lines); err != nil {
		return nil, err
	}

	if m := metrics.Default(); m != nil {
		m.ObserveRun(obj.String(), "ok", emitTime)
		for family, n := range emitted.Families {
			m.AddConstraints(obj.String(), family, n)
		}
	}
	logger.WithRun(runID).Info("lp file written",
		"objective", obj.String(),
		"path", lpPath,
		"lines", len(emitted.Lines),
		"latency", latency)

	res := &RunResult{
		Objective: obj,
		Latency:   latency,
		LPPath:    lpPath,
		Lines:     emitted.Lines,
		CritPath:  emitted.CritPath,
	}

	if opts.NoSolve || !s.cfg.Solver.Enabled {
		return res, nil
	}

	sol, err := s.solve(ctx, obj, lpPath)
	if err != nil {
		return nil, err
	}
	res.Solution = sol

	if obj == ilp.MLRC {
		res.Report = qor.BuildMLRC(g, win, latency, emitted.CritPath, sol)
	} else {
		res.Report = qor.BuildMRLC(g, latency, sol)
	}
	res.Report.RunID = runID
	if !s.cfg.Report.IncludeRaw {
		res.Report.Raw = nil
	}

	paths, err := s.writeReports(ctx, obj, res.Report)
	if err != nil {
		return nil, err
	}
	res.Reports = paths
	return res, nil
}

// solve вызывает glpsol и разбирает его текстовый отчёт
func (s *Scheduler) solve(ctx context.Context, obj ilp.Objective, lpPath string) (*glpk.Solution, error) {
	outPath := lpPath[:len(lpPath)-len(".lp")] + ".txt"
	runner := glpk.NewRunner(s.cfg.Solver.Binary, s.cfg.Solver.Timeout)

	start := time.Now()
	if err := runner.Solve(ctx, lpPath, outPath); err != nil {
		return nil, err
	}
	if m := metrics.Default(); m != nil {
		m.ObserveSolver(obj.String(), time.Since(start))
	}

	sol, err := glpk.ParseResultFile(outPath)
	if err != nil {
		return nil, err
	}
	if !s.cfg.Solver.KeepFiles {
		_ = os.Remove(outPath)
	}
	return sol, nil
}

// writeReports генерирует QoR-отчёты во всех настроенных форматах
func (s *Scheduler) writeReports(ctx context.Context, obj ilp.Objective, data *qor.ReportData) (map[string]string, error) {
	paths := make(map[string]string, len(s.cfg.Report.Formats))
	for _, format := range s.cfg.Report.Formats {
		gen, err := qor.ForFormat(format)
		if err != nil {
			return nil, err
		}
		content, err := gen.Generate(ctx, data)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal,
				fmt.Sprintf("cannot generate %s report", format))
		}
		path := filepath.Join(s.cfg.Output.Dir, fmt.Sprintf("auto_%s_qor%s", obj, qor.Extension(format)))
		if err := os.WriteFile(path, content, 0644); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeIOFailure, "cannot write report")
		}
		paths[format] = path
	}
	return paths, nil
}

// writeLines записывает строки в файл одной операцией, с LF после каждой
func writeLines(path string, lines []string) error {
	buf := make([]byte, 0, 64*len(lines))
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return apperror.Wrap(err, apperror.CodeIOFailure, "cannot write lp file")
	}
	return nil
}
