// Package qor renders the quality-of-results of a solved schedule in several
// textual and spreadsheet formats.
package qor

import (
	"context"
	"sort"

	"ilpsched/pkg/apperror"
)

// Generator интерфейс генератора QoR-отчётов
type Generator interface {
	Generate(ctx context.Context, data *ReportData) ([]byte, error)
	Format() string
}

// BaseGenerator базовые утилиты для генераторов
type BaseGenerator struct{}

// Title возвращает заголовок отчёта
func (b *BaseGenerator) Title(data *ReportData) string {
	switch data.Objective {
	case "ML-RC":
		return "Minimum Latency Schedule"
	case "MR-LC":
		return "Minimum Resource Schedule"
	default:
		return "Schedule Report"
	}
}

// RawVariables возвращает переменные решателя в детерминированном порядке
func (b *BaseGenerator) RawVariables(data *ReportData) []string {
	names := make([]string, 0, len(data.Raw))
	for name := range data.Raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForFormat возвращает генератор по имени формата
func ForFormat(format string) (Generator, error) {
	switch format {
	case "text":
		return NewTextGenerator(), nil
	case "markdown":
		return NewMarkdownGenerator(), nil
	case "csv":
		return NewCSVGenerator(), nil
	case "xlsx":
		return NewExcelGenerator(), nil
	default:
		return nil, apperror.Newf(apperror.CodeInvalidArgument, "unknown report format %q", format)
	}
}

// Extension возвращает расширение файла для формата
func Extension(format string) string {
	switch format {
	case "markdown":
		return ".md"
	case "csv":
		return ".csv"
	case "xlsx":
		return ".xlsx"
	default:
		return ".txt"
	}
}
