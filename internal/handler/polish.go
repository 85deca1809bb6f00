package handler

import (
	"net/http"

	"github.com/voidTensor/law-agent/internal/credential"
)

type polishRequest struct {
	OriginalText string `json:"originalText"`
}

type polishResponse struct {
	PolishedText string `json:"polishedText"`
}

// Polish rewrites legal text in a formal register. The model output is
// returned verbatim.
func Polish(d Deps) http.HandlerFunc {
	s := stage{name: credential.Polish, maxTokens: polishMaxTokens, build: d.Prompts.Polish}

	return func(w http.ResponseWriter, r *http.Request) {
		var req polishRequest
		if !decode(w, r, &req) || !validate(w, "originalText", req.OriginalText) {
			return
		}

		polished, err := d.complete(r.Context(), s, req.OriginalText)
		if err != nil {
			fail(w, r, s.name, err)
			return
		}

		writeJSON(w, http.StatusOK, polishResponse{PolishedText: polished})
	}
}
