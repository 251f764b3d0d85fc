// Package export serializes the current dataset into file artifacts.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"conso-pipeline/internal/dataset"
)

// ErrNothingToExport is returned when an export is requested on an empty
// dataset. It is a precondition, not a filesystem fault.
var ErrNothingToExport = errors.New("export: nothing to export")

// WriteCSV writes every column of the dataset to a UTF-8, comma-delimited
// file with a header row and no index column. The file appears atomically:
// content goes to a temp file first and is renamed into place.
func WriteCSV(d *dataset.Dataset, path string) error {
	if d.IsEmpty() {
		return ErrNothingToExport
	}

	columns := d.Columns()
	tempPath := path + ".tmp"
	file, err := createFile(tempPath)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("export: write header: %w", err)
	}
	record := make([]string, len(columns))
	for i := 0; i < d.Len(); i++ {
		for j, column := range columns {
			record[j] = d.Value(i, column).String()
		}
		if err := writer.Write(record); err != nil {
			file.Close()
			os.Remove(tempPath)
			return fmt.Errorf("export: write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("export: flush: %w", err)
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

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("export: create directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: create %s: %w", path, err)
	}
	return file, nil
}
