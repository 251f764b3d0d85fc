package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"conso-pipeline/internal/dataset"
	"conso-pipeline/internal/stats"
)

// WriteSummaryPDF renders a one-page report: the textual dataset summary and
// an aggregates table per consumption column.
func WriteSummaryPDF(d *dataset.Dataset, path string) error {
	if d.IsEmpty() {
		return ErrNothingToExport
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Energy Consumption Summary")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	for _, line := range strings.Split(strings.TrimSuffix(stats.Describe(d), "\n"), "\n") {
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(60, 6, "Column", "1", 0, "L", false, 0, "")
	pdf.CellFormat(16, 6, "Count", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Sum", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Mean", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Min", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Max", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, column := range dataset.PlotPriority() {
		summary, err := stats.Summarize(d, column)
		if err != nil {
			continue
		}
		pdf.CellFormat(60, 6, shortColumnName(column), "1", 0, "L", false, 0, "")
		pdf.CellFormat(16, 6, fmt.Sprintf("%d", summary.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%.1f", summary.Sum), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%.1f", summary.Mean), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%.1f", summary.Min), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%.1f", summary.Max), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	tempPath := path + ".tmp"
	file, err := createFile(tempPath)
	if err != nil {
		return err
	}
	if err := pdf.Output(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("export: render pdf: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("export: close %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("export: rename %s to %s: %w", tempPath, path, err)
	}
	return nil
}

func shortColumnName(column string) string {
	return strings.TrimPrefix(column, "consommation_brute_")
}
