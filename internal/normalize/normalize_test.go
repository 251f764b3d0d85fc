package normalize

import (
	"io"
	"log"
	"testing"
	"time"

	"conso-pipeline/internal/dataset"
	"conso-pipeline/internal/odre"
)

func newTestNormalizer() *Normalizer {
	return New(log.New(io.Discard, "", 0))
}

func TestNormalizeEmptyInput(t *testing.T) {
	ds, report := newTestNormalizer().Normalize(nil)
	if !ds.IsEmpty() {
		t.Fatal("empty input must yield an empty dataset")
	}
	if report.Rows != 0 {
		t.Fatalf("report rows = %d", report.Rows)
	}
}

func TestNormalizeSingleSparseRecord(t *testing.T) {
	records := []odre.Record{{
		"date_heure":                "2024-01-01T00:00:00",
		"consommation_brute_totale": "123.5",
	}}
	ds, report := newTestNormalizer().Normalize(records)

	if ds.Len() != 1 {
		t.Fatalf("rows = %d, want 1", ds.Len())
	}
	if got, ok := ds.Value(0, dataset.ColumnTotal).Number(); !ok || got != 123.5 {
		t.Fatalf("total = %v ok=%v, want 123.5", got, ok)
	}
	for _, column := range dataset.ConsumptionColumns() {
		if column == dataset.ColumnTotal {
			continue
		}
		got, ok := ds.Value(0, column).Number()
		if !ok || got != 0 {
			t.Fatalf("column %s = %v ok=%v, want synthesized 0", column, got, ok)
		}
		if report.ZeroFilledCells[column] != 1 {
			t.Fatalf("column %s zero-fill count = %d, want 1", column, report.ZeroFilledCells[column])
		}
	}
	if ts, ok := ds.Value(0, dataset.ColumnTimestamp).Timestamp(); !ok || !ts.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp = %v ok=%v", ts, ok)
	}
}

func TestNormalizeCoercionFailureBecomesZero(t *testing.T) {
	records := []odre.Record{{
		"date_heure":                "2024-01-01T00:00:00+01:00",
		"consommation_brute_totale": "not-a-number",
	}}
	ds, report := newTestNormalizer().Normalize(records)

	if ds.Len() != 1 {
		t.Fatalf("rows = %d, want 1 (row must not be dropped)", ds.Len())
	}
	if got, ok := ds.Value(0, dataset.ColumnTotal).Number(); !ok || got != 0 {
		t.Fatalf("total = %v ok=%v, want 0", got, ok)
	}
	if report.ZeroFilledCells[dataset.ColumnTotal] != 1 {
		t.Fatalf("zero-fill count = %d, want 1", report.ZeroFilledCells[dataset.ColumnTotal])
	}
}

func TestNormalizeSortsAscendingWithNullsLast(t *testing.T) {
	records := []odre.Record{
		{"date_heure": "2024-01-03T00:00:00Z", "consommation_brute_totale": 3.0},
		{"date_heure": "definitely not a date", "consommation_brute_totale": 9.0},
		{"date_heure": "2024-01-01T00:00:00Z", "consommation_brute_totale": 1.0},
		{"date_heure": "2024-01-02T00:00:00Z", "consommation_brute_totale": 2.0},
	}
	ds, report := newTestNormalizer().Normalize(records)

	if ds.Len() != 4 {
		t.Fatalf("rows = %d, want 4", ds.Len())
	}
	wantOrder := []float64{1, 2, 3, 9}
	for i, want := range wantOrder {
		got, _ := ds.Value(i, dataset.ColumnTotal).Number()
		if got != want {
			t.Fatalf("row %d total = %v, want %v", i, got, want)
		}
	}
	if !ds.Value(3, dataset.ColumnTimestamp).IsNull() {
		t.Fatal("unparsable timestamp must stay null and sort last")
	}
	if report.BadTimestamps != 1 {
		t.Fatalf("bad timestamps = %d, want 1", report.BadTimestamps)
	}
}

func TestNormalizeNumericColumnsAlwaysFinite(t *testing.T) {
	records := []odre.Record{
		{"date_heure": "2024-01-01T00:00:00Z", "consommation_brute_gaz_grtgaz": 410.2, "region": "France"},
		{"date_heure": "2024-01-01T01:00:00Z", "consommation_brute_gaz_grtgaz": nil},
	}
	ds, _ := newTestNormalizer().Normalize(records)
	for i := 0; i < ds.Len(); i++ {
		for _, column := range dataset.ConsumptionColumns() {
			if _, ok := ds.Value(i, column).Number(); !ok {
				t.Fatalf("row %d column %s is not numeric", i, column)
			}
		}
	}
	if got, ok := ds.Value(0, "region").Text(); !ok || got != "France" {
		t.Fatalf("loose column lost: %v ok=%v", got, ok)
	}
}

// Normalization must be a fixed point: re-coercing its own rendered output
// changes no value.
func TestNormalizeIdempotent(t *testing.T) {
	records := []odre.Record{
		{"date_heure": "2024-01-02T00:00:00Z", "consommation_brute_totale": "2.5", "heure": "00:00"},
		{"date_heure": "2024-01-01T00:00:00Z", "consommation_brute_electricite_rte": 70000.0},
		{"date_heure": "bad", "consommation_brute_gaz_totale": "oops"},
	}
	n := newTestNormalizer()
	first, _ := n.Normalize(records)

	// Feed the rendered output back as raw records.
	again := make([]odre.Record, 0, first.Len())
	for i := 0; i < first.Len(); i++ {
		record := odre.Record{}
		for _, column := range first.Columns() {
			record[column] = first.Value(i, column).String()
		}
		again = append(again, record)
	}
	second, _ := n.Normalize(again)

	if second.Len() != first.Len() {
		t.Fatalf("row count changed: %d vs %d", second.Len(), first.Len())
	}
	for i := 0; i < first.Len(); i++ {
		for _, column := range first.Columns() {
			if got, want := second.Value(i, column).String(), first.Value(i, column).String(); got != want {
				t.Fatalf("row %d column %s changed on second pass: %q vs %q", i, column, got, want)
			}
		}
	}
}

func TestColumnOrderDeterministic(t *testing.T) {
	records := []odre.Record{
		{"zebra": "z", "date_heure": "2024-01-01T00:00:00Z", "alpha": "a"},
	}
	ds, _ := newTestNormalizer().Normalize(records)
	columns := ds.Columns()
	if columns[0] != dataset.ColumnTimestamp {
		t.Fatalf("first column = %s, want timestamp", columns[0])
	}
	last := columns[len(columns)-2:]
	if last[0] != "alpha" || last[1] != "zebra" {
		t.Fatalf("trailing columns = %v, want alphabetical [alpha zebra]", last)
	}
}
