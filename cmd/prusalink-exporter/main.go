package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/mmanjos/prometheus-prusalink-exporter/internal/collector"
	"github.com/mmanjos/prometheus-prusalink-exporter/internal/config"
	"github.com/mmanjos/prometheus-prusalink-exporter/internal/prusalink"
	"github.com/mmanjos/prometheus-prusalink-exporter/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "scrape every printer once, print the text exposition to stdout, and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("prusalink-exporter starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"printers", len(cfg.Printers),
		"listen", cfg.ListenAddr(),
		"scrape_timeout", cfg.ScrapeTimeout,
	)

	col := collector.New(buildClients(cfg)...)

	if *once {
		if err := dump(col, os.Stdout); err != nil {
			slog.Error("scrape failed", "err", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Watch the config file so printers can be added or removed without a
	// restart. A reload swaps the collector's target list; in-flight scrapes
	// finish against the list they started with.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			col.SetTargets(buildClients(updated))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	metricsHandler := promhttp.HandlerFor(col, promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(logger.Handler(), slog.LevelError),
		ErrorHandling: promhttp.ContinueOnError,
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: web.New(col, metricsHandler),
	}
	go func() {
		slog.Info("exporter listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("prusalink-exporter shutting down")
	srv.Shutdown(context.Background()) //nolint:errcheck
}

// buildClients turns the configured printer map into clients, in stable
// host order so samples render in the same sequence every cycle.
func buildClients(cfg *config.Config) []*prusalink.Client {
	clients := make([]*prusalink.Client, 0, len(cfg.Printers))
	for _, host := range cfg.Hosts() {
		p := cfg.Printers[host]
		clients = append(clients, prusalink.New(host, p.Username, p.Secret(), cfg.ScrapeTimeout))
		slog.Info("registered printer", "printer", host, "username", p.Username)
	}
	return clients
}

// dump runs one collect-and-render pass and writes the Prometheus text
// exposition to w. Used by -once for debugging a printer's metrics from the
// command line.
func dump(col *collector.Collector, w *os.File) error {
	mfs, err := col.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
