package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apihttp "conso-pipeline/internal/api/http"
	"conso-pipeline/internal/export"
	"conso-pipeline/internal/observability/metrics"
	"conso-pipeline/internal/odre"
	"conso-pipeline/internal/pipeline"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := pipeline.LoadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	metrics.Init()

	client, err := odre.NewClient(cfg.APIBaseURL, odre.WithTimeout(cfg.FetchTimeout))
	if err != nil {
		logger.Fatalf("catalog client error: %v", err)
	}

	var opts []pipeline.Option
	if cfg.ExportBucketURL != "" {
		uploader, err := export.NewBucketUploader(context.Background(), cfg.ExportBucketURL)
		if err != nil {
			logger.Fatalf("export bucket error: %v", err)
		}
		defer uploader.Close()
		opts = append(opts, pipeline.WithUploader(uploader))
	}

	service, err := pipeline.NewService(client, logger, opts...)
	if err != nil {
		logger.Fatalf("pipeline service error: %v", err)
	}

	exportHandler, err := apihttp.NewExportHandler(service, cfg.ExportDir)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/refresh", apihttp.NewRefreshHandler(service, cfg.DefaultLimit))
	mux.Handle("/api/v1/summary", apihttp.NewSummaryHandler(service))
	mux.Handle("/api/v1/plot-columns", apihttp.NewPlotColumnsHandler(service))
	mux.Handle("/api/v1/exports/consumption.csv", exportHandler)
	mux.Handle("/api/v1/exports/consumption.xlsx", exportHandler)
	mux.Handle("/api/v1/exports/summary.pdf", exportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(mux, logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
