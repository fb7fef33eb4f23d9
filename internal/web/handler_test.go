package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmanjos/prometheus-prusalink-exporter/internal/collector"
	"github.com/mmanjos/prometheus-prusalink-exporter/internal/prusalink"
	"github.com/mmanjos/prometheus-prusalink-exporter/internal/web"
)

const (
	versionBody = `{"api":"2.0.0","server":"2.1.2"}`
	statusBody  = `{"printer":{"state":"IDLE","temp_bed":24.1}}`
	infoBody    = `{"serial":"SN123456","nozzle_diameter":0.4}`
	jobBody     = `{}`
)

func fakePrinter(t *testing.T) *prusalink.Client {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range map[string]string{
		"/api/version":   versionBody,
		"/api/v1/status": statusBody,
		"/api/v1/info":   infoBody,
		"/api/v1/job":    jobBody,
	} {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return prusalink.New(strings.TrimPrefix(srv.URL, "http://"), "maker", "pw", 2*time.Second)
}

func newHandler(t *testing.T, col *collector.Collector) http.Handler {
	t.Helper()
	return web.New(col, promhttp.HandlerFor(col, promhttp.HandlerOpts{}))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

func TestHealth_BeforeFirstScrape(t *testing.T) {
	cl := fakePrinter(t)
	h := newHandler(t, collector.New(cl))

	rr := get(t, h, "/api/v1/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp web.HealthResponse
	decode(t, rr, &resp)
	if len(resp.Printers) != 1 {
		t.Fatalf("printers: got %d, want 1", len(resp.Printers))
	}
	p := resp.Printers[0]
	if p.Printer != cl.Host() {
		t.Errorf("printer: got %q, want %q", p.Printer, cl.Host())
	}
	if p.Scraped || p.Up {
		t.Errorf("before first scrape: scraped=%v up=%v, want both false", p.Scraped, p.Up)
	}
}

func TestHealth_AfterScrape(t *testing.T) {
	cl := fakePrinter(t)
	col := collector.New(cl)
	h := newHandler(t, col)

	if _, err := col.Gather(); err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var resp web.HealthResponse
	decode(t, get(t, h, "/api/v1/health"), &resp)

	if resp.UpCount != 1 {
		t.Errorf("up_count: got %d, want 1", resp.UpCount)
	}
	p := resp.Printers[0]
	if !p.Scraped || !p.Up {
		t.Errorf("after scrape: scraped=%v up=%v, want both true", p.Scraped, p.Up)
	}
	if p.Serial != "SN123456" {
		t.Errorf("serialnumber: got %q, want SN123456", p.Serial)
	}
	if p.LastSeen == "" {
		t.Error("last_seen is empty after a scrape")
	}
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	h := newHandler(t, collector.New(fakePrinter(t)))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/health", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/v1/health: got %d, want 405", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHandler(t, collector.New(fakePrinter(t)))

	rr := get(t, h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "prusalink_scrape_successful") {
		t.Errorf("exposition missing scrape_successful:\n%s", body)
	}
	if !strings.Contains(body, `state="IDLE"} 1`) {
		t.Errorf("exposition missing IDLE state sample:\n%s", body)
	}
}

func TestIndexPage(t *testing.T) {
	h := newHandler(t, collector.New(fakePrinter(t)))

	rr := get(t, h, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/metrics") {
		t.Error("landing page does not link to /metrics")
	}

	if rr := get(t, h, "/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown path: got %d, want 404", rr.Code)
	}
}
