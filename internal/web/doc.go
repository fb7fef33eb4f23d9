// Package web is the exporter's HTTP surface: the /metrics endpoint (served
// by promhttp over the collector), a JSON health endpoint at /api/v1/health
// reporting each printer's last published up/down verdict, and a small
// landing page at /.
package web
