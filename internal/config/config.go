package config

import (
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultExporterAddress = "127.0.0.1"
	DefaultExporterPort    = 9528
	DefaultScrapeTimeout   = 10 * time.Second
)

// Config is the top-level exporter configuration.
type Config struct {
	// ExporterAddress is the address the metrics listener binds to.
	ExporterAddress string `yaml:"exporter_address"`

	// ExporterPort is the port the metrics listener binds to.
	ExporterPort int `yaml:"exporter_port"`

	// ScrapeTimeout bounds each HTTP request made to a printer.
	ScrapeTimeout time.Duration `yaml:"scrape_timeout"`

	// Printers maps a printer host (used both as the network address and as
	// the stable "printer" label) to its credentials.
	Printers map[string]Printer `yaml:"printers"`
}

// Printer holds the digest-auth credentials for one printer.
type Printer struct {
	Username string `yaml:"username"`

	// Password is the literal password. Prefer PasswordEnv for anything
	// checked into version control.
	Password string `yaml:"password"`

	// PasswordEnv names an environment variable holding the password.
	// When set it takes precedence over Password.
	PasswordEnv string `yaml:"password_env"`
}

// Secret returns the printer password, resolving PasswordEnv when set.
func (p Printer) Secret() string {
	if p.PasswordEnv != "" {
		return os.Getenv(p.PasswordEnv)
	}
	return p.Password
}

// ListenAddr returns the host:port the exporter listens on.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ExporterAddress, strconv.Itoa(c.ExporterPort))
}

// Hosts returns the configured printer hosts in a stable (sorted) order, so
// every render pass walks the targets in the same sequence.
func (c *Config) Hosts() []string {
	hosts := make([]string, 0, len(c.Printers))
	for h := range c.Printers {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		ExporterAddress: DefaultExporterAddress,
		ExporterPort:    DefaultExporterPort,
		ScrapeTimeout:   DefaultScrapeTimeout,
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.ExporterPort <= 0 || cfg.ExporterPort > 65535 {
		return fmt.Errorf("exporter_port %d out of range", cfg.ExporterPort)
	}
	if cfg.ScrapeTimeout <= 0 {
		return fmt.Errorf("scrape_timeout must be positive")
	}
	if len(cfg.Printers) == 0 {
		return fmt.Errorf("no printers defined — nothing to do")
	}
	for host, p := range cfg.Printers {
		if host == "" {
			return fmt.Errorf("printers: empty host key")
		}
		if p.Username == "" {
			return fmt.Errorf("printer %q: username is required", host)
		}
		if p.Password == "" && p.PasswordEnv == "" {
			return fmt.Errorf("printer %q: password or password_env is required", host)
		}
	}
	return nil
}
