package dataset

import "errors"

var (
	// ErrColumnNotFound is returned when a requested column is absent from
	// the dataset schema.
	ErrColumnNotFound = errors.New("dataset: column not found")
	// ErrEmptyColumnName is returned when a column is registered with an
	// empty name.
	ErrEmptyColumnName = errors.New("dataset: empty column name")
)
