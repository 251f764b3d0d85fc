// Package normalize converts raw catalog records into the typed dataset.
package normalize

import (
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"conso-pipeline/internal/dataset"
	"conso-pipeline/internal/odre"
)

// timestampLayouts are tried in order. The catalog emits RFC 3339 with a
// zone offset; the bare layout covers exports that dropped it.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Report counts what normalization had to repair. It is diagnostic only and
// not part of the dataset contract.
type Report struct {
	Rows            int
	BadTimestamps   int
	ZeroFilledCells map[string]int
}

// Normalizer builds a Tabular Dataset from raw records.
//
// The zero-fill policy is a documented contract: a consumption cell that is
// absent or fails numeric coercion becomes 0, so a missing reading and a
// true zero reading are indistinguishable downstream. Statistics such as
// min, variance and std are silently pulled toward zero by it.
type Normalizer struct {
	logger     *log.Logger
	timeColumn string
	numeric    []string
}

// New constructs a Normalizer over the fixed consumption column set.
func New(logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}
	return &Normalizer{
		logger:     logger,
		timeColumn: dataset.ColumnTimestamp,
		numeric:    dataset.ConsumptionColumns(),
	}
}

// Normalize coerces raw records into the typed, chronologically sorted
// dataset. Empty input yields an empty dataset. Rows with an unparsable
// timestamp are kept and sort after every dated row. Each consumption column
// is guaranteed present and numeric on every row afterwards.
func (n *Normalizer) Normalize(records []odre.Record) (*dataset.Dataset, Report) {
	report := Report{Rows: len(records), ZeroFilledCells: make(map[string]int)}
	if len(records) == 0 {
		return dataset.New(), report
	}

	ds := dataset.New(n.columnOrder(records)...)

	for _, record := range records {
		row := make(dataset.Row, len(record))
		for key, raw := range record {
			switch {
			case key == n.timeColumn:
				ts, ok := parseTimestamp(raw)
				if !ok {
					report.BadTimestamps++
					row[key] = dataset.Null()
					continue
				}
				row[key] = dataset.Timestamp(ts)
			case n.isNumeric(key):
				num, ok := coerceNumber(raw)
				if !ok {
					// Null marker first, zero-fill below.
					row[key] = dataset.Null()
					continue
				}
				row[key] = dataset.Number(num)
			default:
				row[key] = coerceLoose(raw)
			}
		}
		ds.Append(row)
	}

	ds.SortByTimestamp(n.timeColumn)

	for _, column := range n.numeric {
		filled, err := ds.FillColumn(column, dataset.Number(0))
		if err != nil {
			continue
		}
		if filled > 0 {
			report.ZeroFilledCells[column] = filled
			n.logger.Printf("normalize: column %q zero-filled on %d of %d rows", column, filled, ds.Len())
		}
	}

	if report.BadTimestamps > 0 {
		n.logger.Printf("normalize: %d of %d rows have an unparsable %s", report.BadTimestamps, ds.Len(), n.timeColumn)
	}
	return ds, report
}

// columnOrder fixes a deterministic schema: the timestamp column first when
// any record carries it, the consumption columns in their canonical order,
// then every remaining source field alphabetically.
func (n *Normalizer) columnOrder(records []odre.Record) []string {
	seen := make(map[string]bool)
	for _, record := range records {
		for key := range record {
			if key != "" {
				seen[key] = true
			}
		}
	}

	var order []string
	if seen[n.timeColumn] {
		order = append(order, n.timeColumn)
	}
	order = append(order, n.numeric...)

	var rest []string
	for key := range seen {
		if key == n.timeColumn || n.isNumeric(key) {
			continue
		}
		rest = append(rest, key)
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func (n *Normalizer) isNumeric(column string) bool {
	for _, c := range n.numeric {
		if c == column {
			return true
		}
	}
	return false
}

func parseTimestamp(raw any) (time.Time, bool) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func coerceNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// coerceLoose types cells outside the fixed contract: numbers stay numeric,
// everything else becomes text so no source field is dropped on export.
func coerceLoose(raw any) dataset.Value {
	switch v := raw.(type) {
	case nil:
		return dataset.Null()
	case float64:
		return dataset.Number(v)
	case string:
		return dataset.Text(v)
	case bool:
		return dataset.Text(strconv.FormatBool(v))
	default:
		return dataset.Null()
	}
}
