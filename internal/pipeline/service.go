// Package pipeline wires fetch, normalization, statistics and export behind
// the boundary the presentation layer consumes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"conso-pipeline/internal/dataset"
	"conso-pipeline/internal/export"
	"conso-pipeline/internal/normalize"
	"conso-pipeline/internal/observability/metrics"
	"conso-pipeline/internal/odre"
	"conso-pipeline/internal/stats"
)

// NoDataOption is the sentinel returned by PlotColumns when no dataset is
// loaded. Callers must treat it as non-selectable, never as a column name.
const NoDataOption = "No data"

// Result is the boundary outcome of one operation: a success flag plus a
// human-readable message. Failures never propagate as panics or raw errors
// past the boundary.
type Result struct {
	OK      bool
	Message string
}

// Service owns the single dataset instance. Every successful refresh
// replaces it wholesale; fetch failures and empty responses reset it to
// empty. No partial updates exist, so a plain RWMutex around the pointer
// swap is all the synchronization the HTTP surface needs.
type Service struct {
	client   Fetcher
	norm     *normalize.Normalizer
	uploader *export.BucketUploader
	logger   *log.Logger

	mu   sync.RWMutex
	data *dataset.Dataset
}

// Fetcher is the remote catalog dependency.
type Fetcher interface {
	FetchRecords(ctx context.Context, limit, offset int) ([]odre.Record, error)
}

// Option adjusts service construction.
type Option func(*Service)

// WithUploader mirrors export artifacts into object storage.
func WithUploader(u *export.BucketUploader) Option {
	return func(s *Service) { s.uploader = u }
}

// NewService constructs the pipeline service.
func NewService(client Fetcher, logger *log.Logger, opts ...Option) (*Service, error) {
	if client == nil {
		return nil, errors.New("pipeline: nil fetcher")
	}
	if logger == nil {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}
	s := &Service{
		client: client,
		norm:   normalize.New(logger),
		logger: logger,
		data:   dataset.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Refresh fetches one page of records and replaces the dataset with its
// normalized form. On any failure, and on an empty response, the dataset is
// reset to empty; the previous contents are never kept.
func (s *Service) Refresh(ctx context.Context, limit, offset int) Result {
	start := time.Now()
	records, err := s.client.FetchRecords(ctx, limit, offset)
	if err != nil {
		s.replace(dataset.New())
		return s.refreshFailure(err, time.Since(start))
	}

	ds, report := s.norm.Normalize(records)
	s.replace(ds)

	metrics.ObserveFetch(metrics.ResultSuccess, time.Since(start))
	metrics.AddNormalizedRows(report.Rows)
	metrics.AddBadTimestamps(report.BadTimestamps)
	for column, count := range report.ZeroFilledCells {
		metrics.AddZeroFilledCells(column, count)
	}

	s.logger.Printf("refresh: %d records fetched and normalized", ds.Len())
	return Result{OK: true, Message: fmt.Sprintf("Fetched %d records.", ds.Len())}
}

func (s *Service) refreshFailure(err error, elapsed time.Duration) Result {
	var transport *odre.TransportError
	var decode *odre.DecodeError
	switch {
	case errors.Is(err, odre.ErrNoResults):
		metrics.ObserveFetch(metrics.ResultEmpty, elapsed)
		s.logger.Printf("refresh: no results in catalog response")
		return Result{Message: "No results found in API response."}
	case errors.As(err, &transport):
		metrics.ObserveFetch(metrics.ResultError, elapsed)
		s.logger.Printf("refresh: fetch failed: %v", err)
		return Result{Message: fmt.Sprintf("Error fetching data from API: %v", transport.Err)}
	case errors.As(err, &decode):
		metrics.ObserveFetch(metrics.ResultError, elapsed)
		s.logger.Printf("refresh: unexpected response: %v", err)
		return Result{Message: fmt.Sprintf("Unexpected error during API fetch: %v", decode.Err)}
	default:
		metrics.ObserveFetch(metrics.ResultError, elapsed)
		s.logger.Printf("refresh: %v", err)
		return Result{Message: fmt.Sprintf("Unexpected error during API fetch: %v", err)}
	}
}

func (s *Service) replace(ds *dataset.Dataset) {
	s.mu.Lock()
	s.data = ds
	s.mu.Unlock()
}

// Dataset returns the current dataset instance.
func (s *Service) Dataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Summary returns the textual dataset summary.
func (s *Service) Summary() string {
	return stats.Describe(s.Dataset())
}

// SummarizeColumn computes the aggregates for one numeric column. An absent
// column surfaces dataset.ErrColumnNotFound.
func (s *Service) SummarizeColumn(column string) (stats.Summary, error) {
	return stats.Summarize(s.Dataset(), column)
}

// PlotColumns returns the plottable columns in fixed priority order,
// filtered to those present in the current schema, or the NoDataOption
// sentinel when nothing is loaded.
func (s *Service) PlotColumns() []string {
	ds := s.Dataset()
	if ds.IsEmpty() {
		return []string{NoDataOption}
	}
	var options []string
	for _, column := range dataset.PlotPriority() {
		if ds.HasColumn(column) {
			options = append(options, column)
		}
	}
	return options
}

// ExportCSV writes the dataset to path and, when a bucket is configured,
// mirrors the file into object storage.
func (s *Service) ExportCSV(ctx context.Context, path string) Result {
	return s.export(ctx, "csv", path, export.WriteCSV)
}

// ExportXLSX writes the dataset workbook to path.
func (s *Service) ExportXLSX(ctx context.Context, path string) Result {
	return s.export(ctx, "xlsx", path, export.WriteXLSX)
}

// ExportSummaryPDF writes the summary report to path.
func (s *Service) ExportSummaryPDF(ctx context.Context, path string) Result {
	return s.export(ctx, "pdf", path, export.WriteSummaryPDF)
}

func (s *Service) export(ctx context.Context, format, path string, write func(*dataset.Dataset, string) error) Result {
	start := time.Now()
	ds := s.Dataset()

	if err := write(ds, path); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			metrics.ObserveExport(format, metrics.ResultEmpty, time.Since(start))
			return Result{Message: "No data to export."}
		}
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		s.logger.Printf("export: %s failed: %v", format, err)
		return Result{Message: fmt.Sprintf("Error exporting data: %v", err)}
	}

	if s.uploader != nil {
		if err := s.uploader.UploadFile(ctx, path); err != nil {
			metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
			s.logger.Printf("export: upload failed: %v", err)
			return Result{Message: fmt.Sprintf("Data exported to %s but upload failed: %v", path, err)}
		}
	}

	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(start))
	s.logger.Printf("export: %s written to %s (%d rows)", format, path, ds.Len())
	return Result{OK: true, Message: fmt.Sprintf("Data exported successfully to %s", path)}
}
