package handler

import (
	"net/http"

	"github.com/voidTensor/law-agent/internal/credential"
)

type handlerStatus struct {
	Configured bool   `json:"configured"`
	Reason     string `json:"reason,omitempty"`
}

type healthResponse struct {
	Status   string                   `json:"status"`
	Model    string                   `json:"model"`
	Handlers map[string]handlerStatus `json:"handlers"`
}

// Health reports which handlers have an upstream key. A missing key marks
// the service degraded but never fails the probe.
func Health(model string, creds credential.Resolver, handlers []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:   "ok",
			Model:    model,
			Handlers: make(map[string]handlerStatus, len(handlers)),
		}
		for _, name := range handlers {
			_, ok := creds.Lookup(name)
			s := handlerStatus{Configured: ok}
			if !ok {
				s.Reason = "no API key"
				resp.Status = "degraded"
			}
			resp.Handlers[name] = s
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
