package qor

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
)

// TextGenerator генератор текстовых QoR-отчётов с выровненными колонками
type TextGenerator struct {
	BaseGenerator
}

// NewTextGenerator создаёт новый генератор
func NewTextGenerator() *TextGenerator {
	return &TextGenerator{}
}

// Format возвращает формат генератора
func (g *TextGenerator) Format() string {
	return "text"
}

// Generate генерирует текстовый отчёт
func (g *TextGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	var buf bytes.Buffer

	switch data.Objective {
	case "ML-RC":
		fmt.Fprintf(&buf, "The minimized latency is %d.\n", data.MinLatency)
		buf.WriteString("Here is each node with its optimized cycle:\n")
		rows := make([][2]string, 0, len(data.NodeCycles))
		for _, nc := range data.NodeCycles {
			rows = append(rows, [2]string{nc.Node, strconv.Itoa(nc.Cycle)})
		}
		writeTable(&buf, [2]string{"Node", "Cycle"}, rows)
	case "MR-LC":
		fmt.Fprintf(&buf, "The minimized area is %s.\n", data.MinArea)
		buf.WriteString("Here is each resource with its optimized count:\n")
		rows := make([][2]string, 0, len(data.UnitCounts))
		for _, uc := range data.UnitCounts {
			rows = append(rows, [2]string{uc.Resource, strconv.Itoa(uc.Count)})
		}
		writeTable(&buf, [2]string{"Resource", "Min Count"}, rows)
	}

	return buf.Bytes(), nil
}

// writeTable печатает таблицу из двух выровненных колонок
func writeTable(buf *bytes.Buffer, header [2]string, rows [][2]string) {
	width := len(header[0])
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}

	fmt.Fprintf(buf, "%-*s  %s\n", width, header[0], header[1])
	for i := 0; i < width; i++ {
		buf.WriteByte('-')
	}
	buf.WriteString("  ")
	for i := 0; i < len(header[1]); i++ {
		buf.WriteByte('-')
	}
	buf.WriteByte('\n')

	for _, row := range rows {
		fmt.Fprintf(buf, "%-*s  %s\n", width, row[0], row[1])
	}
}
