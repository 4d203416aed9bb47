package qor

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVGenerator генератор CSV QoR-отчётов
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() string {
	return "csv"
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

func (cw *csvWriter) Error() error {
	return cw.err
}

// Generate генерирует CSV отчёт
func (g *CSVGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.Write([]string{"# " + g.Title(data)})
	cw.Write([]string{"Objective", data.Objective})
	cw.Write([]string{"Latency Constraint", strconv.Itoa(data.Latency)})
	cw.Write([]string{""})

	switch data.Objective {
	case "ML-RC":
		cw.Write([]string{"Minimized Latency", strconv.Itoa(data.MinLatency)})
		cw.Write([]string{""})
		cw.Write([]string{"Node", "Cycle", "Critical Path"})
		for _, nc := range data.NodeCycles {
			cw.Write([]string{nc.Node, strconv.Itoa(nc.Cycle), strconv.FormatBool(nc.Critical)})
		}
	case "MR-LC":
		cw.Write([]string{"Minimized Area", data.MinArea})
		cw.Write([]string{""})
		cw.Write([]string{"Resource", "Min Count"})
		for _, uc := range data.UnitCounts {
			cw.Write([]string{uc.Resource, strconv.Itoa(uc.Count)})
		}
	}

	if len(data.Raw) > 0 {
		cw.Write([]string{""})
		cw.Write([]string{"Variable", "Value"})
		for _, name := range g.RawVariables(data) {
			cw.Write([]string{name, strconv.Itoa(data.Raw[name])})
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}

	return buf.Bytes(), nil
}
