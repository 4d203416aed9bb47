package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		Init(level)
		require.NotNil(t, Log)
	}
}

func TestInitWithFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "test.log")

	InitWithConfig(Config{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})

	Info("hello", "key", "value")

	// каталог создаётся, файл появляется после первой записи
	_, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}

func TestWithHelpers(t *testing.T) {
	Init("info")

	assert.NotNil(t, WithRun("run-1"))
	assert.NotNil(t, WithObjective("MR-LC"))
}
