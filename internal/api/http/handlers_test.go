package apihttp

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"conso-pipeline/internal/odre"
	"conso-pipeline/internal/pipeline"
)

func newTestPipeline(t *testing.T, body string) *pipeline.Service {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(upstream.Close)

	client, err := odre.NewClient(upstream.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	service, err := pipeline.NewService(client, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func TestRefreshHandler(t *testing.T) {
	service := newTestPipeline(t, `{"results": [{"date_heure": "2024-01-01T00:00:00Z", "consommation_brute_totale": 1.0}]}`)
	handler := NewRefreshHandler(service, 100)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/refresh?limit=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		Records int    `json:"records"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.OK || payload.Records != 1 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestRefreshHandlerRejectsBadPagination(t *testing.T) {
	service := newTestPipeline(t, `{"results": []}`)
	handler := NewRefreshHandler(service, 100)

	for _, target := range []string{
		"/api/v1/refresh?limit=abc",
		"/api/v1/refresh?limit=0",
		"/api/v1/refresh?offset=-1",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/refresh", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want 405", rec.Code)
	}
}

func TestSummaryHandlerColumnNotFound(t *testing.T) {
	service := newTestPipeline(t, `{"results": [{"date_heure": "2024-01-01T00:00:00Z"}]}`)
	refresh := NewRefreshHandler(service, 100)
	rec := httptest.NewRecorder()
	refresh.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil))

	handler := NewSummaryHandler(service)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary?column=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
}

func TestPlotColumnsHandlerSentinel(t *testing.T) {
	service := newTestPipeline(t, `{"results": []}`)
	handler := NewPlotColumnsHandler(service)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/plot-columns", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var columns []string
	if err := json.NewDecoder(rec.Body).Decode(&columns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(columns) != 1 || columns[0] != pipeline.NoDataOption {
		t.Fatalf("columns = %v, want sentinel", columns)
	}
}

func TestExportHandlerEmptyDataset(t *testing.T) {
	service := newTestPipeline(t, `{"results": []}`)
	handler, err := NewExportHandler(service, t.TempDir())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/exports/consumption.csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		Path    string `json:"path"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.OK || payload.Path != "" {
		t.Fatalf("payload = %+v, want nothing-to-export failure", payload)
	}
}
