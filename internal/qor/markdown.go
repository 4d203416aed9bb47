package qor

import (
	"bytes"
	"context"
	"fmt"
)

// MarkdownGenerator генератор Markdown QoR-отчётов
type MarkdownGenerator struct {
	BaseGenerator
}

// NewMarkdownGenerator создаёт новый генератор
func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

// Format возвращает формат генератора
func (g *MarkdownGenerator) Format() string {
	return "markdown"
}

// Generate генерирует Markdown отчёт
func (g *MarkdownGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", g.Title(data)))

	buf.WriteString("## Report Information\n\n")
	buf.WriteString(fmt.Sprintf("- **Generated:** %s\n", data.GeneratedAt.Format("2006-01-02 15:04:05")))
	if data.RunID != "" {
		buf.WriteString(fmt.Sprintf("- **Run:** %s\n", data.RunID))
	}
	buf.WriteString(fmt.Sprintf("- **Objective:** %s\n", data.Objective))
	buf.WriteString(fmt.Sprintf("- **Latency constraint:** %d\n", data.Latency))
	buf.WriteString("\n---\n\n")

	switch data.Objective {
	case "ML-RC":
		buf.WriteString("## Schedule\n\n")
		buf.WriteString(fmt.Sprintf("- **Minimized latency:** %d\n\n", data.MinLatency))
		buf.WriteString("| Node | Cycle | Critical Path |\n")
		buf.WriteString("|------|-------|---------------|\n")
		for _, nc := range data.NodeCycles {
			mark := ""
			if nc.Critical {
				mark = "yes"
			}
			buf.WriteString(fmt.Sprintf("| %s | %d | %s |\n", nc.Node, nc.Cycle, mark))
		}
		buf.WriteString("\n")
	case "MR-LC":
		buf.WriteString("## Resources\n\n")
		buf.WriteString(fmt.Sprintf("- **Minimized area:** %s\n\n", data.MinArea))
		buf.WriteString("| Resource | Min Count |\n")
		buf.WriteString("|----------|-----------|\n")
		for _, uc := range data.UnitCounts {
			buf.WriteString(fmt.Sprintf("| %s | %d |\n", uc.Resource, uc.Count))
		}
		buf.WriteString("\n")
	}

	if len(data.Raw) > 0 {
		buf.WriteString("## Solver Variables\n\n")
		buf.WriteString("| Variable | Value |\n")
		buf.WriteString("|----------|-------|\n")
		for _, name := range g.RawVariables(data) {
			buf.WriteString(fmt.Sprintf("| %s | %d |\n", name, data.Raw[name]))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}
