package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voidTensor/law-agent/internal/credential"
	"github.com/voidTensor/law-agent/internal/handler"
	"github.com/voidTensor/law-agent/internal/middleware"
)

// Options are the server-level settings outside the handler dependencies.
type Options struct {
	Model   string
	APIKey  string
	Timeout time.Duration
}

// SetupMux wires handlers with the full middleware chain.
func SetupMux(deps handler.Deps, opts Options) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handler.Health(opts.Model, deps.Credentials, []string{credential.Polish, credential.Framework}))
	mux.HandleFunc("/api/polish", handler.Polish(deps))
	mux.HandleFunc("/api/framework", handler.Framework(deps))
	mux.Handle("/metrics", promhttp.Handler())

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 35 * time.Second
	}
	return middleware.Chain(mux, opts.APIKey, timeout)
}
