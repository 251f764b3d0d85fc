package stats

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"conso-pipeline/internal/dataset"
)

const dateRangeLayout = "2006-01-02 15:04"

// describeColumns are the measures the textual summary totals, matching the
// body the original report carried.
var describeColumns = []string{
	dataset.ColumnElectricity,
	dataset.ColumnGasTotal,
}

// Describe renders the human-readable dataset summary: record count, the
// timestamp range when at least one row carries a parsed timestamp, and
// total/average lines for the electricity and total-gas measures.
func Describe(d *dataset.Dataset) string {
	if d.IsEmpty() {
		return "No data loaded."
	}

	printer := message.NewPrinter(language.English)
	var b strings.Builder
	b.WriteString("Data Summary:\n")
	printer.Fprintf(&b, "- Total records: %d\n", d.Len())

	if minTS, maxTS, ok := timestampRange(d, dataset.ColumnTimestamp); ok {
		printer.Fprintf(&b, "- Date range: %s to %s\n",
			minTS.Format(dateRangeLayout), maxTS.Format(dateRangeLayout))
	}

	for _, column := range describeColumns {
		summary, err := Summarize(d, column)
		if err != nil || summary.Count == 0 {
			continue
		}
		printer.Fprintf(&b, "- Total %s: %.0f\n", column, summary.Sum)
		printer.Fprintf(&b, "- Average %s: %.0f\n", column, summary.Mean)
	}
	return b.String()
}

func timestampRange(d *dataset.Dataset, column string) (time.Time, time.Time, bool) {
	values, err := d.Column(column)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	var minTS, maxTS time.Time
	found := false
	for _, v := range values {
		ts, ok := v.Timestamp()
		if !ok {
			continue
		}
		if !found {
			minTS, maxTS = ts, ts
			found = true
			continue
		}
		if ts.Before(minTS) {
			minTS = ts
		}
		if ts.After(maxTS) {
			maxTS = ts
		}
	}
	return minTS, maxTS, found
}
