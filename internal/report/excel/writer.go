// Package excel provides Excel report generation for the reachability sweep.
// It implements the report.ReportWriter interface to generate .xlsx files
// with a per-category summary and the list of unreachable hosts.
package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"server-sweep/internal/model"
)

const (
	// Sheet names
	sheetSummary = "Summary"
	sheetFailed  = "Failed Hosts"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Colors for conditional formatting (RGB without #)
	colorCriticalBg = "FFC7CE" // Red background for failures
	colorCriticalFg = "9C0006" // Dark red text for failures
	colorHeaderBg   = "4472C4" // Blue background for header
	colorHeaderFg   = "FFFFFF" // White text for header
	colorNormalBg   = "C6EFCE" // Green background for no failures
	colorNormalFg   = "006100" // Dark green text for no failures

	// First row of the category table on the summary sheet
	categoryTableRow = 10
)

// Writer implements report.ReportWriter for Excel format.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to UTC.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{
		timezone: timezone,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Write generates an Excel report from the sweep result.
func (w *Writer) Write(result *model.SweepResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("sweep result is nil")
	}

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.createSummarySheet(f, result); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := w.createFailedSheet(f, result); err != nil {
		return fmt.Errorf("failed to create failed hosts sheet: %w", err)
	}

	// Remove default Sheet1; it is absent only if a sheet was renamed over it
	_ = f.DeleteSheet(defaultSheet)

	idx, _ := f.GetSheetIndex(sheetSummary)
	f.SetActiveSheet(idx)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// createSummarySheet writes run metadata and the per-category counters.
func (w *Writer) createSummarySheet(f *excelize.File, result *model.SweepResult) error {
	idx, err := f.NewSheet(sheetSummary)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 18,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	valueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 12,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	criticalStyle, err := w.createCriticalStyle(f)
	if err != nil {
		return err
	}

	normalStyle, err := w.createNormalStyle(f)
	if err != nil {
		return err
	}

	f.SetColWidth(sheetSummary, "A", "A", 24)
	f.SetColWidth(sheetSummary, "B", "D", 40)

	// Title
	f.MergeCell(sheetSummary, "A1", "D1")
	f.SetCellValue(sheetSummary, "A1", "Reachability Sweep Report")
	f.SetCellStyle(sheetSummary, "A1", "D1", titleStyle)
	f.SetRowHeight(sheetSummary, 1, 30)

	summaryData := []struct {
		label string
		value interface{}
	}{
		{"Environment", result.Environment},
		{"Run ID", result.RunID},
		{"Started At", result.StartedAt.In(w.timezone).Format("2006-01-02 15:04:05")},
		{"Duration", formatDuration(result.Duration)},
		{"Probed Hosts", result.TotalProbed()},
		{"Failed Hosts", result.TotalFailed()},
	}

	if result.Version != "" {
		summaryData = append(summaryData, struct {
			label string
			value interface{}
		}{"Tool Version", result.Version})
	}

	for i, item := range summaryData {
		row := i + 3 // Start from row 3
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), item.label)
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), item.value)
		f.SetCellStyle(sheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
		f.SetCellStyle(sheetSummary, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), valueStyle)
		f.SetRowHeight(sheetSummary, row, 22)
	}

	// Category table
	headers := []string{"Category", "Total", "Succeeded", "Failed"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s%d", columnName(i+1), categoryTableRow)
		f.SetCellValue(sheetSummary, cell, header)
		f.SetCellStyle(sheetSummary, cell, cell, headerStyle)
	}

	row := categoryTableRow + 1
	for _, category := range model.ReportCategories {
		cr := result.Category(category)
		if cr == nil || cr.Total() == 0 {
			continue
		}
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetSummary, "A"+rowStr, category.Title())
		f.SetCellValue(sheetSummary, "B"+rowStr, cr.Total())
		f.SetCellValue(sheetSummary, "C"+rowStr, cr.Succeeded)
		f.SetCellValue(sheetSummary, "D"+rowStr, cr.Failed)
		f.SetCellStyle(sheetSummary, "B"+rowStr, "C"+rowStr, valueStyle)
		f.SetCellStyle(sheetSummary, "D"+rowStr, "D"+rowStr, statusStyle(cr.Failed, normalStyle, criticalStyle))
		row++
	}

	if row == categoryTableRow+1 {
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), "No hosts probed")
	}

	return nil
}

// createFailedSheet lists every failed record with all inventory fields.
func (w *Writer) createFailedSheet(f *excelize.File, result *model.SweepResult) error {
	if _, err := f.NewSheet(sheetFailed); err != nil {
		return err
	}

	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}

	criticalStyle, err := w.createCriticalStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Category", "Hostname", "IP Address", "Type", "Canonical Name", "Description", "Active"}
	widths := []float64{22, 24, 16, 10, 30, 40, 8}
	for i, header := range headers {
		col := columnName(i + 1)
		f.SetColWidth(sheetFailed, col, col, widths[i])
		cell := col + "1"
		f.SetCellValue(sheetFailed, cell, header)
		f.SetCellStyle(sheetFailed, cell, cell, headerStyle)
	}
	f.SetRowHeight(sheetFailed, 1, 25)

	// Freeze header row
	f.SetPanes(sheetFailed, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	row := 2
	for _, category := range model.ReportCategories {
		cr := result.Category(category)
		if cr == nil {
			continue
		}
		for _, record := range cr.FailedRecords {
			rowStr := fmt.Sprintf("%d", row)
			f.SetCellValue(sheetFailed, "A"+rowStr, category.Title())
			f.SetCellValue(sheetFailed, "B"+rowStr, record.Hostname)
			f.SetCellValue(sheetFailed, "C"+rowStr, record.IPAddress)
			f.SetCellValue(sheetFailed, "D"+rowStr, record.ServerType)
			f.SetCellValue(sheetFailed, "E"+rowStr, record.CanonicalName)
			f.SetCellValue(sheetFailed, "F"+rowStr, record.Description)
			f.SetCellValue(sheetFailed, "G"+rowStr, record.ActiveFlag)
			f.SetCellStyle(sheetFailed, "B"+rowStr, "B"+rowStr, criticalStyle)
			row++
		}
	}

	if row == 2 {
		f.SetCellValue(sheetFailed, "A2", "All probed hosts are reachable")
	}

	return nil
}

// Helper functions

func (w *Writer) createHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: colorHeaderFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorHeaderBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func (w *Writer) createCriticalStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: colorCriticalFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorCriticalBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func (w *Writer) createNormalStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: colorNormalFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorNormalBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func statusStyle(failed, normalStyle, criticalStyle int) int {
	if failed > 0 {
		return criticalStyle
	}
	return normalStyle
}

// columnName converts a 1-based column index to Excel column name (A, B, ..., Z, AA, AB, ...).
func columnName(index int) string {
	result := ""
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
