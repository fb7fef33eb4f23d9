package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func loadFromString(t *testing.T, body string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, body)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func loadStringErr(t *testing.T, body string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}

func TestLoad_Valid(t *testing.T) {
	yaml := `
exporter_address: "0.0.0.0"
exporter_port: 9100
scrape_timeout: 5s
printers:
  "prusaxl.example.net":
    username: "maker"
    password: "hunter2"
`
	cfg := loadFromString(t, yaml)

	if cfg.ExporterAddress != "0.0.0.0" {
		t.Errorf("exporter_address: got %q", cfg.ExporterAddress)
	}
	if cfg.ExporterPort != 9100 {
		t.Errorf("exporter_port: got %d", cfg.ExporterPort)
	}
	if cfg.ScrapeTimeout != 5*time.Second {
		t.Errorf("scrape_timeout: got %v", cfg.ScrapeTimeout)
	}
	p, ok := cfg.Printers["prusaxl.example.net"]
	if !ok {
		t.Fatal("printer prusaxl.example.net not loaded")
	}
	if p.Username != "maker" || p.Secret() != "hunter2" {
		t.Errorf("printer credentials: %+v", p)
	}
}

func TestLoad_Defaults(t *testing.T) {
	yaml := `
printers:
  "mini.local":
    username: "maker"
    password: "pw"
`
	cfg := loadFromString(t, yaml)

	if cfg.ExporterAddress != DefaultExporterAddress {
		t.Errorf("default exporter_address: got %q, want %q", cfg.ExporterAddress, DefaultExporterAddress)
	}
	if cfg.ExporterPort != DefaultExporterPort {
		t.Errorf("default exporter_port: got %d, want %d", cfg.ExporterPort, DefaultExporterPort)
	}
	if cfg.ScrapeTimeout != DefaultScrapeTimeout {
		t.Errorf("default scrape_timeout: got %v, want %v", cfg.ScrapeTimeout, DefaultScrapeTimeout)
	}
	if cfg.ListenAddr() != "127.0.0.1:9528" {
		t.Errorf("ListenAddr: got %q", cfg.ListenAddr())
	}
}

func TestLoad_NoPrinters(t *testing.T) {
	if _, err := loadStringErr(t, `exporter_port: 9528`); err == nil {
		t.Fatal("expected error for a config without printers, got nil")
	}
}

func TestLoad_MissingUsername(t *testing.T) {
	yaml := `
printers:
  "mini.local":
    password: "pw"
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for missing username, got nil")
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	yaml := `
printers:
  "mini.local":
    username: "maker"
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for missing password, got nil")
	}
}

func TestLoad_PasswordFromEnv(t *testing.T) {
	t.Setenv("PRUSA_MINI_PASSWORD", "from-env")
	yaml := `
printers:
  "mini.local":
    username: "maker"
    password: "inline"
    password_env: PRUSA_MINI_PASSWORD
`
	cfg := loadFromString(t, yaml)
	if got := cfg.Printers["mini.local"].Secret(); got != "from-env" {
		t.Errorf("Secret() = %q, want the env var to take precedence", got)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := loadStringErr(t, "printers: ["); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestLoad_BadTimeout(t *testing.T) {
	yaml := `
scrape_timeout: -3s
printers:
  "mini.local":
    username: "maker"
    password: "pw"
`
	if _, err := loadStringErr(t, yaml); err == nil {
		t.Fatal("expected error for negative scrape_timeout, got nil")
	}
}

func TestHosts_SortedStable(t *testing.T) {
	yaml := `
printers:
  "zz.local":
    username: "maker"
    password: "pw"
  "aa.local":
    username: "maker"
    password: "pw"
  "mm.local":
    username: "maker"
    password: "pw"
`
	cfg := loadFromString(t, yaml)
	want := []string{"aa.local", "mm.local", "zz.local"}
	got := cfg.Hosts()
	if len(got) != len(want) {
		t.Fatalf("Hosts(): got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Hosts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
