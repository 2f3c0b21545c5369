package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/gigpay/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the best-clients ranking for a payment window as a
// single-sheet workbook.
func (g *Generator) Generate(report model.BestClientsReport) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Best clients"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Report")
	set("B1", "Top paying clients")
	set("A2", "Window start")
	set("B2", formatDateTime(report.Start))
	set("A3", "Window end")
	set("B3", formatDateTime(report.End))
	set("A4", "Clients")
	set("B4", len(report.Clients))
	set("A5", "Total paid")
	set("B5", fmt.Sprintf("%.2f", sumTotals(report.Clients)))

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), "Rank")
	set(fmt.Sprintf("B%d", tableRow), "Client ID")
	set(fmt.Sprintf("C%d", tableRow), "Client")
	set(fmt.Sprintf("D%d", tableRow), "Total paid")

	for i, client := range report.Clients {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), client.ID)
		set(fmt.Sprintf("C%d", row), client.FullName)
		set(fmt.Sprintf("D%d", row), fmt.Sprintf("%.2f", client.TotalPaid))
	}

	_ = file.SetColWidth(sheet, "A", "A", 8)
	_ = file.SetColWidth(sheet, "B", "B", 12)
	_ = file.SetColWidth(sheet, "C", "C", 40)
	_ = file.SetColWidth(sheet, "D", "D", 16)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sumTotals(clients []model.ClientTotal) float64 {
	total := 0.0
	for _, client := range clients {
		total += client.TotalPaid
	}
	return total
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
