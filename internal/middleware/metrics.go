package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/voidTensor/law-agent/internal/metrics"
)

// Metrics records request count by method, path, and status code.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.RequestsTotal.WithLabelValues(r.Method, pathLabel(r.URL.Path), strconv.Itoa(sw.status)).Inc()
	})
}

// pathLabel keeps label cardinality bounded when clients probe random URLs.
func pathLabel(path string) string {
	if path == "/metrics" || strings.HasPrefix(path, "/api/") {
		return path
	}
	return "other"
}
