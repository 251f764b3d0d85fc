// Package apihttp exposes the pipeline boundary over HTTP.
package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"conso-pipeline/internal/dataset"
	"conso-pipeline/internal/pipeline"
)

type resultPayload struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Records int    `json:"records,omitempty"`
	Path    string `json:"path,omitempty"`
}

// RefreshHandler triggers fetch-and-normalize.
type RefreshHandler struct {
	service      *pipeline.Service
	defaultLimit int
}

// NewRefreshHandler constructs a RefreshHandler.
func NewRefreshHandler(service *pipeline.Service, defaultLimit int) *RefreshHandler {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &RefreshHandler{service: service, defaultLimit: defaultLimit}
}

// ServeHTTP handles POST /api/v1/refresh.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.service == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	limit, err := parseIntQuery(r, "limit", h.defaultLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	offset, err := parseIntQuery(r, "offset", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if limit <= 0 || offset < 0 {
		http.Error(w, "limit must be positive and offset non-negative", http.StatusBadRequest)
		return
	}

	result := h.service.Refresh(r.Context(), limit, offset)
	writeResult(w, resultPayload{
		OK:      result.OK,
		Message: result.Message,
		Records: h.service.Dataset().Len(),
	})
}

// SummaryHandler serves the textual summary and per-column statistics.
type SummaryHandler struct {
	service *pipeline.Service
}

// NewSummaryHandler constructs a SummaryHandler.
func NewSummaryHandler(service *pipeline.Service) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// ServeHTTP handles GET /api/v1/summary. With a column query parameter it
// returns the JSON aggregates for that column; without it, the plain-text
// summary.
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.service == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	if column := r.URL.Query().Get("column"); column != "" {
		summary, err := h.service.SummarizeColumn(column)
		if err != nil {
			if errors.Is(err, dataset.ErrColumnNotFound) {
				http.Error(w, "column not found", http.StatusNotFound)
				return
			}
			http.Error(w, "summarize error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(summary)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(h.service.Summary()))
}

// PlotColumnsHandler serves the plot-column list.
type PlotColumnsHandler struct {
	service *pipeline.Service
}

// NewPlotColumnsHandler constructs a PlotColumnsHandler.
func NewPlotColumnsHandler(service *pipeline.Service) *PlotColumnsHandler {
	return &PlotColumnsHandler{service: service}
}

// ServeHTTP handles GET /api/v1/plot-columns.
func (h *PlotColumnsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.service == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.service.PlotColumns())
}

// ExportHandler triggers file exports.
type ExportHandler struct {
	service   *pipeline.Service
	exportDir string
}

// NewExportHandler constructs an ExportHandler writing under exportDir.
func NewExportHandler(service *pipeline.Service, exportDir string) (*ExportHandler, error) {
	if exportDir == "" {
		return nil, errors.New("apihttp: empty export dir")
	}
	return &ExportHandler{service: service, exportDir: exportDir}, nil
}

// ServeHTTP handles POST /api/v1/exports/consumption.{csv,xlsx,pdf}.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.service == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	var result pipeline.Result
	var path string
	switch filepath.Ext(r.URL.Path) {
	case ".csv":
		path = filepath.Join(h.exportDir, "consumption-"+stamp+".csv")
		result = h.service.ExportCSV(r.Context(), path)
	case ".xlsx":
		path = filepath.Join(h.exportDir, "consumption-"+stamp+".xlsx")
		result = h.service.ExportXLSX(r.Context(), path)
	case ".pdf":
		path = filepath.Join(h.exportDir, "summary-"+stamp+".pdf")
		result = h.service.ExportSummaryPDF(r.Context(), path)
	default:
		http.Error(w, "unsupported export format", http.StatusNotFound)
		return
	}

	payload := resultPayload{OK: result.OK, Message: result.Message}
	if result.OK {
		payload.Path = path
	}
	writeResult(w, payload)
}

func parseIntQuery(r *http.Request, key string, fallback int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return parsed, nil
}

// writeResult always answers 200: pipeline failures are result values with a
// message, not HTTP faults.
func writeResult(w http.ResponseWriter, payload resultPayload) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
