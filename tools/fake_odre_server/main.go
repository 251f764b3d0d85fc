// fake_odre_server serves a synthetic "consommation quotidienne brute"
// records endpoint for local runs. Knobs:
//
//	FAKE_ODRE_ADDR        listen address (default :18081)
//	FAKE_ODRE_LATENCY_MS  artificial latency per request
//	FAKE_ODRE_STATUS      force an HTTP status code on every response
//	FAKE_ODRE_MODE        "ok" (default), "empty" or "malformed"
//	FAKE_ODRE_RECORDS     size of the synthetic dataset (default 500)
package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"
)

type fakeODREServer struct {
	latency time.Duration
	status  int
	mode    string
	records []map[string]any
}

func main() {
	addr := getenvDefault("FAKE_ODRE_ADDR", ":18081")
	latencyMs := getenvIntDefault("FAKE_ODRE_LATENCY_MS", 0)
	status := getenvIntDefault("FAKE_ODRE_STATUS", 0)
	mode := getenvDefault("FAKE_ODRE_MODE", "ok")
	total := getenvIntDefault("FAKE_ODRE_RECORDS", 500)

	srv := &fakeODREServer{
		latency: time.Duration(latencyMs) * time.Millisecond,
		status:  status,
		mode:    mode,
		records: generateRecords(total),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/explore/v2.1/catalog/datasets/consommation-quotidienne-brute/records", srv.handleRecords)

	log.Printf("fake ODRE server listening on %s (%d records, mode=%s)", addr, total, mode)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

func (s *fakeODREServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *fakeODREServer) handleRecords(w http.ResponseWriter, r *http.Request) {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	if s.status != 0 {
		w.WriteHeader(s.status)
		return
	}
	switch s.mode {
	case "malformed":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": "not-a-list"`))
		return
	case "empty":
		writeJSON(w, map[string]any{"total_count": 0, "results": []any{}})
		return
	}

	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)
	if offset >= len(s.records) {
		writeJSON(w, map[string]any{"total_count": len(s.records), "results": []any{}})
		return
	}
	end := offset + limit
	if end > len(s.records) {
		end = len(s.records)
	}
	writeJSON(w, map[string]any{
		"total_count": len(s.records),
		"results":     s.records[offset:end],
	})
}

// generateRecords builds hourly records newest-first, the order the real
// endpoint returns when asked for date_heure DESC. A few rows carry missing
// or broken fields so normalization has something to repair.
func generateRecords(total int) []map[string]any {
	rng := rand.New(rand.NewSource(42))
	start := time.Now().UTC().Truncate(time.Hour)
	records := make([]map[string]any, 0, total)
	for i := 0; i < total; i++ {
		ts := start.Add(-time.Duration(i) * time.Hour)
		grtgaz := 400 + rng.Float64()*200
		terega := 80 + rng.Float64()*40
		elec := 50000 + rng.Float64()*20000
		record := map[string]any{
			"date_heure":                         ts.Format(time.RFC3339),
			"date":                               ts.Format("2006-01-02"),
			"heure":                              ts.Format("15:04"),
			"consommation_brute_gaz_grtgaz":      grtgaz,
			"consommation_brute_gaz_terega":      terega,
			"consommation_brute_gaz_totale":      grtgaz + terega,
			"consommation_brute_electricite_rte": elec,
			"consommation_brute_totale":          grtgaz + terega + elec,
			"statut_grtgaz":                      "Définitif",
		}
		switch i % 97 {
		case 13:
			delete(record, "consommation_brute_gaz_terega")
		case 41:
			record["consommation_brute_totale"] = "not-a-number"
		case 73:
			record["date_heure"] = "soon"
		}
		records = append(records, record)
	}
	return records
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
