package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/voidTensor/law-agent/internal/credential"
	"github.com/voidTensor/law-agent/internal/extract"
	"github.com/voidTensor/law-agent/internal/metrics"
)

type frameworkRequest struct {
	Topic string `json:"topic"`
}

// Framework drafts a writing outline for a topic or case and splits the
// retrieval keyword line out of it.
func Framework(d Deps) http.HandlerFunc {
	s := stage{name: credential.Framework, maxTokens: frameworkMaxTokens, build: d.Prompts.Framework}

	return func(w http.ResponseWriter, r *http.Request) {
		var req frameworkRequest
		if !decode(w, r, &req) || !validate(w, "topic", req.Topic) {
			return
		}

		raw, err := d.complete(r.Context(), s, req.Topic)
		if err != nil {
			fail(w, r, s.name, err)
			return
		}

		res := extract.Split(raw)
		found := res.Keywords != ""
		metrics.KeywordsExtracted.WithLabelValues(strconv.FormatBool(found)).Inc()
		slog.DebugContext(r.Context(), "framework extracted",
			"raw_chars", len([]rune(raw)),
			"keywords", res.Keywords,
		)

		writeJSON(w, http.StatusOK, res)
	}
}
