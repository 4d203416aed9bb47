// Package glpk invokes the external GLPK solver (glpsol) on a generated
// CPLEX-LP file and parses its textual solution report. The scheduler core
// never shells out itself; this package is the only process boundary.
package glpk

import (
	"context"
	"os/exec"
	"time"

	"ilpsched/pkg/apperror"
)

// Runner запускает glpsol с ограничением по времени
type Runner struct {
	Binary  string
	Timeout time.Duration
}

// NewRunner создаёт Runner с настройками по умолчанию
func NewRunner(binary string, timeout time.Duration) *Runner {
	if binary == "" {
		binary = "glpsol"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Runner{Binary: binary, Timeout: timeout}
}

// Solve решает задачу из lpPath и пишет текстовый отчёт в outPath:
// glpsol --cpxlp <lpPath> -o <outPath>
func (r *Runner) Solve(ctx context.Context, lpPath, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Binary, "--cpxlp", lpPath, "-o", outPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperror.Wrap(ctx.Err(), apperror.CodeSolverFailed, "solver timed out")
		}
		return apperror.Wrap(err, apperror.CodeSolverFailed, "glpsol failed").
			WithDetails("output", string(out))
	}
	return nil
}
