package export

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"conso-pipeline/internal/dataset"
)

func sampleDataset() *dataset.Dataset {
	d := dataset.New(dataset.ColumnTimestamp, dataset.ColumnTotal, "statut")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.Append(dataset.Row{
		dataset.ColumnTimestamp: dataset.Timestamp(base),
		dataset.ColumnTotal:     dataset.Number(123.5),
		"statut":                dataset.Text("Définitif"),
	})
	d.Append(dataset.Row{
		dataset.ColumnTimestamp: dataset.Null(),
		dataset.ColumnTotal:     dataset.Number(0),
		"statut":                dataset.Text("Estimé"),
	})
	return d
}

func TestWriteCSVNothingToExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(dataset.New(), path); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("err = %v, want ErrNothingToExport", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatal("no file must be created for an empty dataset")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	d := sampleDataset()
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(d, path); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != d.Len()+1 {
		t.Fatalf("rows = %d, want %d", len(rows), d.Len()+1)
	}
	columns := d.Columns()
	for j, column := range columns {
		if rows[0][j] != column {
			t.Fatalf("header[%d] = %q, want %q", j, rows[0][j], column)
		}
	}
	for i := 0; i < d.Len(); i++ {
		for j, column := range columns {
			want := d.Value(i, column).String()
			if rows[i+1][j] != want {
				t.Fatalf("cell (%d,%s) = %q, want %q", i, column, rows[i+1][j], want)
			}
		}
	}
}

func TestWriteCSVFilesystemFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "taken")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	// A path under a regular file cannot be created.
	err := WriteCSV(sampleDataset(), filepath.Join(blocker, "out.csv"))
	if err == nil {
		t.Fatal("invalid path must fail")
	}
	if errors.Is(err, ErrNothingToExport) {
		t.Fatal("filesystem faults must not classify as empty-dataset")
	}
}

func TestWriteXLSXPrecondition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteXLSX(dataset.New(), path); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("err = %v, want ErrNothingToExport", err)
	}
	if err := WriteXLSX(sampleDataset(), path); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("workbook missing or empty: %v", err)
	}
}

func TestWriteSummaryPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := WriteSummaryPDF(dataset.New(), path); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("err = %v, want ErrNothingToExport", err)
	}
	if err := WriteSummaryPDF(sampleDataset(), path); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("report missing or empty: %v", err)
	}
}

func TestBucketUploaderFileURL(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	local := filepath.Join(src, "out.csv")
	if err := os.WriteFile(local, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	uploader, err := NewBucketUploader(context.Background(), "file://"+dst)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer uploader.Close()

	if err := uploader.UploadFile(context.Background(), local); err != nil {
		t.Fatalf("upload: %v", err)
	}
	copied, err := os.ReadFile(filepath.Join(dst, "out.csv"))
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(copied) != "a,b\n1,2\n" {
		t.Fatalf("copied content = %q", copied)
	}
}
