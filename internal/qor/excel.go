package qor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelGenerator генератор Excel QoR-отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() string {
	return "xlsx"
}

// Generate генерирует Excel отчёт
func (g *ExcelGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	f.NewSheet(sheet)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	row := 1
	f.SetCellValue(sheet, cellAddr("A", row), g.Title(data))
	f.MergeCell(sheet, cellAddr("A", row), cellAddr("C", row))
	row += 2

	f.SetCellValue(sheet, cellAddr("A", row), "Objective")
	f.SetCellValue(sheet, cellAddr("B", row), data.Objective)
	row++
	f.SetCellValue(sheet, cellAddr("A", row), "Latency Constraint")
	f.SetCellValue(sheet, cellAddr("B", row), data.Latency)
	row += 2

	switch data.Objective {
	case "ML-RC":
		f.SetCellValue(sheet, cellAddr("A", row), "Minimized Latency")
		f.SetCellValue(sheet, cellAddr("B", row), data.MinLatency)
		row += 2

		f.SetCellValue(sheet, cellAddr("A", row), "Node")
		f.SetCellValue(sheet, cellAddr("B", row), "Cycle")
		f.SetCellValue(sheet, cellAddr("C", row), "Critical Path")
		f.SetCellStyle(sheet, cellAddr("A", row), cellAddr("C", row), headerStyle)
		row++
		for _, nc := range data.NodeCycles {
			f.SetCellValue(sheet, cellAddr("A", row), nc.Node)
			f.SetCellValue(sheet, cellAddr("B", row), nc.Cycle)
			f.SetCellValue(sheet, cellAddr("C", row), nc.Critical)
			row++
		}
	case "MR-LC":
		f.SetCellValue(sheet, cellAddr("A", row), "Minimized Area")
		f.SetCellValue(sheet, cellAddr("B", row), data.MinArea)
		row += 2

		f.SetCellValue(sheet, cellAddr("A", row), "Resource")
		f.SetCellValue(sheet, cellAddr("B", row), "Min Count")
		f.SetCellStyle(sheet, cellAddr("A", row), cellAddr("B", row), headerStyle)
		row++
		for _, uc := range data.UnitCounts {
			f.SetCellValue(sheet, cellAddr("A", row), uc.Resource)
			f.SetCellValue(sheet, cellAddr("B", row), uc.Count)
			row++
		}
	}

	if len(data.Raw) > 0 {
		row++
		f.SetCellValue(sheet, cellAddr("A", row), "Variable")
		f.SetCellValue(sheet, cellAddr("B", row), "Value")
		f.SetCellStyle(sheet, cellAddr("A", row), cellAddr("B", row), headerStyle)
		row++
		for _, name := range g.RawVariables(data) {
			f.SetCellValue(sheet, cellAddr("A", row), name)
			f.SetCellValue(sheet, cellAddr("B", row), data.Raw[name])
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellAddr возвращает адрес ячейки вида A1
func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
