package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/voidTensor/law-agent/internal/completion"
	"github.com/voidTensor/law-agent/internal/credential"
	"github.com/voidTensor/law-agent/internal/metrics"
	"github.com/voidTensor/law-agent/internal/prompt"
)

const (
	maxTextLength = 10000

	polishMaxTokens    = 2048
	frameworkMaxTokens = 4096
	temperature        = 0.5
)

// Messages returned to callers. Causes are logged, never sent.
const (
	msgNotConfigured  = "server is not configured for this operation"
	msgUpstreamFailed = "language model request failed"
)

// Deps are what the polish and framework pipelines need. Build once at
// startup and share.
type Deps struct {
	Completer   completion.Completer
	Credentials credential.Resolver
	Prompts     *prompt.Builder
}

// stage is one handler's fixed parameters.
type stage struct {
	name      string
	maxTokens int
	build     func(input string) (string, error)
}

// decode enforces POST and decodes the JSON body into dst. It writes the
// error response itself and reports whether the caller should continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// validate checks the handler's one required field.
func validate(w http.ResponseWriter, field, value string) bool {
	if value == "" {
		writeError(w, http.StatusBadRequest, field+" is required")
		return false
	}
	if n := utf8.RuneCountInString(value); n > maxTextLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s too long: %d characters (max %d)", field, n, maxTextLength))
		return false
	}
	return true
}

// complete resolves the stage's key, renders its prompt and makes the single
// upstream call.
func (d Deps) complete(ctx context.Context, s stage, input string) (string, error) {
	metrics.InputChars.WithLabelValues(s.name).Observe(float64(utf8.RuneCountInString(input)))

	apiKey, err := credential.Require(d.Credentials, s.name)
	if err != nil {
		return "", err
	}

	p, err := s.build(input)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := d.Completer.Complete(ctx, apiKey, completion.Request{
		Prompt:      p,
		MaxTokens:   s.maxTokens,
		Temperature: temperature,
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
		metrics.UpstreamFailures.WithLabelValues(s.name, completion.Kind(err)).Inc()
	}
	metrics.CompletionDuration.WithLabelValues(s.name, outcome).Observe(time.Since(start).Seconds())
	return out, err
}

// fail logs err and writes the generic 500 for it.
func fail(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if errors.Is(err, credential.ErrMissing) {
		slog.ErrorContext(r.Context(), "handler credential not configured", "handler", handler)
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}

	attrs := []any{"handler", handler, "kind", completion.Kind(err), "error", err}
	var statusErr *completion.StatusError
	if errors.As(err, &statusErr) {
		attrs = append(attrs, "upstream_status", statusErr.StatusCode)
	}
	slog.ErrorContext(r.Context(), "completion failed", attrs...)
	writeError(w, http.StatusInternalServerError, msgUpstreamFailed)
}
