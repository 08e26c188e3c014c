package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/masjidops/fahs/config"
	"github.com/masjidops/fahs/middleware"
	"github.com/masjidops/fahs/models"
)

// exportRow is one line of the tabular issue view shared by the Excel and
// CSV exports.
type exportRow struct {
	IssueNo   int
	MainItem  string
	SubItem   string
	Unit      string
	Quantity  float64
	UnitPrice float64
	LineTotal float64
	Notes     string
}

var exportHeaders = []string{"Issue", "Main item", "Sub item", "Unit", "Quantity", "Unit price", "Line total", "Notes"}

func buildExportRows(report *models.Report) []exportRow {
	var rows []exportRow
	for n := range report.Issues {
		issue := &report.Issues[n]
		for i := range issue.Items {
			it := &issue.Items[i]
			rows = append(rows, exportRow{
				IssueNo:   n + 1,
				MainItem:  issue.MainItem.NameEn,
				SubItem:   it.SubItem.NameEn,
				Unit:      it.SubItem.Unit,
				Quantity:  it.Quantity,
				UnitPrice: it.EffectiveUnitPrice(),
				LineTotal: it.LineTotal(),
				Notes:     issue.Notes,
			})
		}
	}
	return rows
}

// ExportReportToExcel exports a report's issue table to Excel format
func ExportReportToExcel(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	report, err := loadReportAggregate(config.DB, id)
	if err != nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	excelFile, err := createExcelFile(report)
	if err != nil {
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	buffer, err := excelFile.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", sanitizeFilename(report.Mosque.Name), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportReportToCSV exports a report's issue table to CSV format
func ExportReportToCSV(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	report, err := loadReportAggregate(config.DB, id)
	if err != nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	csvData, err := createCSVFile(report)
	if err != nil {
		http.Error(w, "Failed to generate CSV file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", sanitizeFilename(report.Mosque.Name), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(csvData)))

	w.WriteHeader(http.StatusOK)
	w.Write(csvData)
}

// createExcelFile generates the workbook: title row, meta row, styled
// header row, data rows, grand total.
func createExcelFile(report *models.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Report"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Inspection report - %s", report.Mosque.Name))
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)

	f.SetCellValue(sheetName, "A2",
		fmt.Sprintf("Report date: %s    Generated: %s",
			time.Time(report.ReportDate).Format("2006-01-02"),
			time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	rows := buildExportRows(report)
	for i, row := range rows {
		values := []interface{}{row.IssueNo, row.MainItem, row.SubItem, row.Unit,
			row.Quantity, row.UnitPrice, row.LineTotal, row.Notes}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, 5+i)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	totalCell, _ := excelize.CoordinatesToCellName(7, 5+len(rows))
	labelCell, _ := excelize.CoordinatesToCellName(6, 5+len(rows))
	f.SetCellValue(sheetName, labelCell, "Total")
	f.SetCellValue(sheetName, totalCell, report.Total())

	f.DeleteSheet("Sheet1")
	return f, nil
}

func createCSVFile(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, row := range buildExportRows(report) {
		record := []string{
			fmt.Sprintf("%d", row.IssueNo),
			row.MainItem,
			row.SubItem,
			row.Unit,
			fmt.Sprintf("%.2f", row.Quantity),
			fmt.Sprintf("%.2f", row.UnitPrice),
			fmt.Sprintf("%.2f", row.LineTotal),
			row.Notes,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}
