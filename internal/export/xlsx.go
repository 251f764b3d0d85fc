package export

import (
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"conso-pipeline/internal/dataset"
)

const xlsxSheet = "consumption"

// WriteXLSX writes the dataset to a single-sheet workbook, header row
// included, same cell content as the CSV export.
func WriteXLSX(d *dataset.Dataset, path string) error {
	if d.IsEmpty() {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", xlsxSheet)

	columns := d.Columns()
	for j, column := range columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("export: header cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, column); err != nil {
			return fmt.Errorf("export: header %s: %w", column, err)
		}
	}

	for i := 0; i < d.Len(); i++ {
		for j, column := range columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("export: cell: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, cellValue(d.Value(i, column))); err != nil {
				return fmt.Errorf("export: row %d column %s: %w", i, column, err)
			}
		}
	}

	tempPath := path + ".tmp"
	file, err := createFile(tempPath)
	if err != nil {
		return err
	}
	if err := f.Write(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("export: write workbook: %w", err)
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

// cellValue keeps numbers numeric inside the workbook; everything else uses
// the same rendering as the CSV.
func cellValue(v dataset.Value) any {
	if num, ok := v.Number(); ok {
		return num
	}
	if ts, ok := v.Timestamp(); ok {
		return ts.Format(time.RFC3339)
	}
	return v.String()
}
