// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config - главная структура конфигурации
type Config struct {
	App     AppConfig     `koanf:"app"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Solver  SolverConfig  `koanf:"solver"`
	Output  OutputConfig  `koanf:"output"`
	Report  ReportConfig  `koanf:"report"`
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // путь к файлу логов
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // количество бэкапов
	MaxAge     int    `koanf:"max_age"`     // дней
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - настройки Prometheus метрик
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// SolverConfig - настройки внешнего ILP-решателя (glpsol)
type SolverConfig struct {
	Enabled   bool          `koanf:"enabled"`    // вызывать ли решатель после генерации
	Binary    string        `koanf:"binary"`     // путь к glpsol
	Timeout   time.Duration `koanf:"timeout"`    // лимит на один вызов
	KeepFiles bool          `koanf:"keep_files"` // не удалять текстовый вывод решателя
}

// OutputConfig - настройки генерируемых файлов
type OutputConfig struct {
	Dir string `koanf:"dir"` // каталог для .lp и .txt файлов
}

// ReportConfig - настройки QoR-отчётов
type ReportConfig struct {
	Formats    []string `koanf:"formats"`     // text, markdown, csv, xlsx
	IncludeRaw bool     `koanf:"include_raw"` // включать разобранные переменные решателя
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	switch c.Log.Output {
	case "stdout", "stderr", "file":
	default:
		return fmt.Errorf("invalid log output %q", c.Log.Output)
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port %d", c.Metrics.Port)
	}

	if c.Solver.Enabled && c.Solver.Binary == "" {
		return fmt.Errorf("solver enabled but no binary configured")
	}
	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("solver timeout must be positive")
	}

	for _, f := range c.Report.Formats {
		switch strings.ToLower(f) {
		case "text", "markdown", "csv", "xlsx":
		default:
			return fmt.Errorf("unknown report format %q", f)
		}
	}

	return nil
}
