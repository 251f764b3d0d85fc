// Package stats computes descriptive statistics over a dataset column.
package stats

import (
	"math"

	"conso-pipeline/internal/dataset"
)

// Summary holds the aggregates for one numeric column. Std and Variance use
// the sample convention (N−1 denominator) and stay nil below two values;
// callers must treat nil as undefined, never as zero.
type Summary struct {
	Column   string
	Count    int
	Sum      float64
	Mean     float64
	Std      *float64
	Variance *float64
	Min      float64
	Max      float64
}

// Summarize computes the aggregates over the full row set of one column.
// A column absent from the schema yields dataset.ErrColumnNotFound; it is
// never silently defaulted.
func Summarize(d *dataset.Dataset, column string) (Summary, error) {
	values, err := d.Column(column)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Column: column}
	for _, v := range values {
		num, ok := v.Number()
		if !ok {
			continue
		}
		if summary.Count == 0 {
			summary.Min = num
			summary.Max = num
		} else {
			summary.Min = math.Min(summary.Min, num)
			summary.Max = math.Max(summary.Max, num)
		}
		summary.Sum += num
		summary.Count++
	}
	if summary.Count == 0 {
		return summary, nil
	}
	summary.Mean = summary.Sum / float64(summary.Count)

	if summary.Count < 2 {
		return summary, nil
	}
	var squares float64
	for _, v := range values {
		num, ok := v.Number()
		if !ok {
			continue
		}
		diff := num - summary.Mean
		squares += diff * diff
	}
	variance := squares / float64(summary.Count-1)
	std := math.Sqrt(variance)
	summary.Variance = &variance
	summary.Std = &std
	return summary, nil
}
