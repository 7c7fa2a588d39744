// Package export writes expense summaries as CSV, JSON or PDF reports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mmynk/expenses/internal/calculator"
	"github.com/mmynk/expenses/internal/models"
)

// Format is a report file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	PDF  Format = "pdf"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON, PDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// Write renders the summary to w in the given format.
func Write(w io.Writer, format Format, summary calculator.Summary) error {
	switch format {
	case CSV:
		return WriteCSV(w, summary)
	case JSON:
		return WriteJSON(w, summary)
	case PDF:
		return WritePDF(w, summary)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// ToFile writes the report to dir/name.<format> and returns its absolute path.
func ToFile(dir, name string, format Format, summary calculator.Summary) (string, error) {
	if dir == "" {
		dir = "."
	}
	if name == "" {
		name = fmt.Sprintf("expenses_%s", time.Now().Format("20060102_1504"))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	path := filepath.Join(dir, name+"."+string(format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating %s file: %w", format, err)
	}

	if err := Write(file, format, summary); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("error closing %s file: %w", format, err)
	}
	return filepath.Abs(path)
}

// WriteCSV writes one row per expense followed by a total row.
func WriteCSV(w io.Writer, summary calculator.Summary) error {
	writer := csv.NewWriter(w)

	writer.Write([]string{"ID", "Date", "Description", "Amount"})
	for _, e := range summary.Expenses {
		writer.Write([]string{
			e.ID,
			models.FormatDate(e.Date),
			e.Description,
			fmt.Sprintf("%.2f", e.Amount),
		})
	}
	writer.Write([]string{"", "", summary.PeriodName, fmt.Sprintf("%.2f", summary.Total)})

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

type jsonReport struct {
	Period   string        `json:"period"`
	Total    float64       `json:"total"`
	Expenses []jsonExpense `json:"expenses"`
}

type jsonExpense struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// WriteJSON writes the summary as an indented JSON document.
func WriteJSON(w io.Writer, summary calculator.Summary) error {
	report := jsonReport{
		Period:   summary.PeriodName,
		Total:    summary.Total,
		Expenses: make([]jsonExpense, len(summary.Expenses)),
	}
	for i, e := range summary.Expenses {
		report.Expenses[i] = jsonExpense{
			ID:          e.ID,
			Date:        models.FormatDate(e.Date),
			Description: e.Description,
			Amount:      e.Amount,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("error encoding JSON data: %w", err)
	}
	return nil
}

// WritePDF renders a one-table A4 report.
func WritePDF(w io.Writer, summary calculator.Summary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated %s", time.Now().Format(models.DateLayout))), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("Expenses - %s", summary.PeriodName)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{30, 110, 40}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(33, 37, 41)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Date", "Description", "Amount"} {
		align := "L"
		if i == 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, h, "", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, e := range summary.Expenses {
		fill := i%2 == 1
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(widths[0], 7, models.FormatDate(e.Date), "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 7, tr(e.Description), "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("$%.2f", e.Amount), "", 1, "R", fill, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(widths[0]+widths[1], 9, tr(summary.PeriodName), "T", 0, "L", false, 0, "")
	pdf.CellFormat(widths[2], 9, fmt.Sprintf("$%.2f", summary.Total), "T", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF file: %w", err)
	}
	return nil
}
