package prusalink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/icholy/digest"
)

// resources is the fixed set of PrusaLink API pages polled every cycle,
// in fetch order. Paths follow the PrusaLink-Web OpenAPI spec:
// https://github.com/prusa3d/Prusa-Link-Web/blob/master/spec/openapi.yaml
var resources = []struct {
	name string
	path string
}{
	{"version", "/api/version"},
	{"status", "/api/v1/status"},
	{"info", "/api/v1/info"},
	{"job", "/api/v1/job"},
}

// Snapshot is the complete result of one refresh cycle for one printer.
// It is rebuilt from scratch every cycle — no field survives from the
// previous one, so a printer that goes offline loses its stale data
// immediately.
type Snapshot struct {
	// Resources maps resource name to its parsed JSON body. A resource that
	// answered 204 is present as an empty object; a resource that failed is
	// absent.
	Resources map[string]any

	// Up is true only when every resource was fetched successfully this cycle.
	Up bool

	ScrapedAt time.Time
}

// String returns the string at the given path inside the snapshot's
// resources, or fallback when the path is absent or not a string.
func (s *Snapshot) String(fallback string, keys ...any) string {
	return LookupString(s.Resources, fallback, keys...)
}

// Float returns the number at the given path inside the snapshot's
// resources. ok is false when the path is absent or not numeric.
func (s *Snapshot) Float(keys ...any) (float64, bool) {
	return LookupFloat(s.Resources, keys...)
}

// Serial returns the printer's serial number, or "" when it is unavailable
// (printer Down, or the info resource did not include it).
func (s *Snapshot) Serial() string {
	if s == nil || !s.Up {
		return ""
	}
	return s.String("", "info", "serial")
}

// Client polls one PrusaLink printer. It is immutable after construction and
// safe for concurrent use; the published snapshot is swapped atomically so a
// reader never observes a half-updated cycle.
type Client struct {
	host  string
	base  string
	httpc *http.Client
	last  atomic.Pointer[Snapshot]
}

// New returns a Client for the printer at host (also used verbatim as the
// "printer" label). Requests use HTTP digest auth and are bounded by timeout.
func New(host, username, password string, timeout time.Duration) *Client {
	return &Client{
		host: host,
		base: "http://" + host,
		httpc: &http.Client{
			Transport: &digest.Transport{Username: username, Password: password},
			Timeout:   timeout,
		},
	}
}

// Host returns the printer's configured host identifier.
func (c *Client) Host() string { return c.host }

// Last returns the most recently published Snapshot, or nil before the
// first refresh completes.
func (c *Client) Last() *Snapshot { return c.last.Load() }

// Refresh fetches every API resource and publishes a fresh Snapshot.
// The first failing resource marks the printer Down for the whole cycle and
// stops the fetch loop; there is no retry within a cycle — the next scrape
// is the retry.
func (c *Client) Refresh(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		Resources: make(map[string]any, len(resources)),
		ScrapedAt: time.Now().UTC(),
	}

	for _, r := range resources {
		body, err := c.fetch(ctx, r.path)
		if err != nil {
			slog.Error("prusalink: resource fetch failed",
				"printer", c.host, "resource", r.name, "path", r.path, "err", err)
			break
		}
		snap.Resources[r.name] = body
	}

	snap.Up = len(snap.Resources) == len(resources)
	c.last.Store(snap)
	return snap
}

// fetch GETs one API page and parses it. 204 is a legitimate empty response
// for some pages and is stored as an empty object; a 200 body that is not
// valid JSON is an error — partial corrupt state is not trusted.
func (c *Client) fetch(ctx context.Context, path string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return body, nil
	case http.StatusNoContent:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
