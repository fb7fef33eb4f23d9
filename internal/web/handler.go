package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mmanjos/prometheus-prusalink-exporter/internal/collector"
)

const indexPage = `<html>
<head><title>PrusaLink Exporter</title></head>
<body>
<h1>PrusaLink Exporter</h1>
<p><a href="/metrics">Metrics</a></p>
<p><a href="/api/v1/health">Printer health</a></p>
</body>
</html>
`

// PrinterHealth is one printer's entry in the health response. The fields
// come from the snapshot published by the most recent scrape; before the
// first scrape Scraped is false and Up is meaningless.
type PrinterHealth struct {
	Printer  string `json:"printer"`
	Up       bool   `json:"up"`
	Scraped  bool   `json:"scraped"`
	Serial   string `json:"serialnumber,omitempty"`
	LastSeen string `json:"last_seen,omitempty"` // RFC3339
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Printers []PrinterHealth `json:"printers"`
	UpCount  int             `json:"up_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler routes the exporter's HTTP endpoints.
type Handler struct {
	collector *collector.Collector
	mux       *http.ServeMux
}

// New creates a Handler over the collector. metricsHandler serves /metrics;
// it is passed in so the caller controls the exposition encoding.
func New(c *collector.Collector, metricsHandler http.Handler) http.Handler {
	h := &Handler{collector: c, mux: http.NewServeMux()}

	h.mux.Handle("/metrics", metricsHandler)
	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/", h.index)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// health returns GET /api/v1/health — the last published verdict for every
// configured printer. It reads snapshots only; it never triggers a refresh.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	targets := h.collector.Targets()
	resp := HealthResponse{Printers: make([]PrinterHealth, 0, len(targets))}
	for _, t := range targets {
		ph := PrinterHealth{Printer: t.Host()}
		if snap := t.Last(); snap != nil {
			ph.Scraped = true
			ph.Up = snap.Up
			ph.Serial = snap.Serial()
			ph.LastSeen = snap.ScrapedAt.Format(time.RFC3339)
			if snap.Up {
				resp.UpCount++
			}
		}
		resp.Printers = append(resp.Printers, ph)
	}
	jsonResp(w, http.StatusOK, resp)
}

// index serves the landing page on "/" only; anything else is a 404.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
