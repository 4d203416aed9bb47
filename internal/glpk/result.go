package glpk

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"ilpsched/pkg/apperror"
)

// Solution разобранный отчёт решателя
type Solution struct {
	Objective  string         // значение целевой функции, как напечатано решателем
	Activities map[string]int // переменная -> значение (только строки активности)
}

// ParseResultFile читает и разбирает текстовый отчёт glpsol
func ParseResultFile(path string) (*Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeIOFailure, "cannot open solver output")
	}
	defer f.Close()
	return ParseResult(f)
}

// ParseResult разбирает отчёт решателя из потока. Интерес представляют две
// формы строк: "Objective: obj = <v> ..." и строки активности переменных
// из пяти колонок со звёздочкой в третьей (строки с шестой колонкой,
// верхней границей, пропускаются):
//
//	12 x_3_2        *              1             0
func ParseResult(r io.Reader) (*Solution, error) {
	sol := &Solution{Activities: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch {
		case len(fields) >= 4 && fields[0] == "Objective:":
			sol.Objective = fields[3]
		case len(fields) == 5 && fields[2] == "*":
			value, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, apperror.Newf(apperror.CodeSolverUnparsable,
					"activity of %q is not an integer: %q", fields[1], fields[3])
			}
			sol.Activities[fields[1]] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeIOFailure, "cannot read solver output")
	}

	if sol.Objective == "" && len(sol.Activities) == 0 {
		return nil, apperror.New(apperror.CodeSolverUnparsable,
			"solver output carries neither an objective nor activities")
	}
	return sol, nil
}

// DecodeExecVar разбирает имя переменной исполнения x_<id>_<t>.
// Возвращает идентификатор узла, такт и признак успеха.
func DecodeExecVar(name string) (id string, step int, ok bool) {
	parts := strings.Split(name, "_")
	if len(parts) != 3 || parts[0] != "x" {
		return "", 0, false
	}
	step, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, false
	}
	return parts[1], step, true
}
