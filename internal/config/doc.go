// Package config loads and watches the exporter configuration file.
//
// The YAML layout mirrors config.example.yaml:
//
//	exporter_address: "127.0.0.1"
//	exporter_port: 9528
//	scrape_timeout: 10s
//	printers:
//	  "prusaxl.example.net":
//	    username: "maker"
//	    password: "secret"         # or password_env: PRUSA_XL_PASSWORD
//
// Load(path) reads the file, applies defaults (127.0.0.1, port 9528, 10s
// timeout), then validates: at least one printer, a username per printer,
// and a password given either inline or via an environment variable name.
//
// Watch(ctx, path, onChange) uses fsnotify to reload the file on change so
// printers can be added or removed without restarting the exporter. A failed
// reload keeps the previous config active. Atomic-save editors replace the
// inode on write, so the watch is re-added after every event.
package config
