package glpk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilpsched/pkg/apperror"
)

const sampleOutput = `Problem:
Rows:       29
Columns:    16 (16 integer, 0 binary)
Non-zeros:  60
Status:     INTEGER OPTIMAL
Objective:  obj = 12 (MINimum)

   No. Column name       Activity     Lower bound   Upper bound
------ ------------      ------------- ------------- -------------
     1 a1           *              1             0
     2 a2           *              1             0
     3 a3           *              2             0
     4 a4           *              1             0
     5 x_2_1        *              1             0
     6 x_2_2        *              0             0
     7 x_5_2        *              1             0             1
`

func TestParseResult(t *testing.T) {
	sol, err := ParseResult(strings.NewReader(sampleOutput))
	require.NoError(t, err)

	assert.Equal(t, "12", sol.Objective)
	assert.Equal(t, 1, sol.Activities["x_2_1"])
	assert.Equal(t, 0, sol.Activities["x_2_2"])
	assert.Equal(t, 2, sol.Activities["a3"])
	assert.Equal(t, 1, sol.Activities["a1"])

	// строки из шести колонок (с верхней границей) активностями не считаются
	assert.NotContains(t, sol.Activities, "x_5_2")
	assert.Len(t, sol.Activities, 6)
}

func TestParseResultEmpty(t *testing.T) {
	_, err := ParseResult(strings.NewReader("Problem:\nRows: 0\n"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeSolverUnparsable, apperror.Code(err))
}

func TestParseResultBadActivity(t *testing.T) {
	_, err := ParseResult(strings.NewReader("1 x_1_1 * abc 0\n"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeSolverUnparsable, apperror.Code(err))
}

func TestParseResultFileMissing(t *testing.T) {
	_, err := ParseResultFile("does/not/exist.txt")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeIOFailure, apperror.Code(err))
}

func TestDecodeExecVar(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		step     int
		ok       bool
	}{
		{name: "x_3_2", id: "3", step: 2, ok: true},
		{name: "x_n_5", id: "n", step: 5, ok: true},
		{name: "x_10_12", id: "10", step: 12, ok: true},
		{name: "a3", ok: false},
		{name: "x_3", ok: false},
		{name: "x_3_2_1", ok: false},
		{name: "y_3_2", ok: false},
		{name: "x_3_z", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, step, ok := DecodeExecVar(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.id, id)
				assert.Equal(t, tt.step, step)
			}
		})
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner("", 0)
	assert.Equal(t, "glpsol", r.Binary)
	assert.Positive(t, r.Timeout)
}
