package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voidTensor/law-agent/internal/completion"
	"github.com/voidTensor/law-agent/internal/credential"
	"github.com/voidTensor/law-agent/internal/prompt"
)

// stubCompleter lets each test decide the upstream outcome.
type stubCompleter struct {
	complete func(ctx context.Context, apiKey string, req completion.Request) (string, error)
	calls    int
}

func (s *stubCompleter) Name() string { return "stub" }

func (s *stubCompleter) Complete(ctx context.Context, apiKey string, req completion.Request) (string, error) {
	s.calls++
	return s.complete(ctx, apiKey, req)
}

func replying(out string) *stubCompleter {
	return &stubCompleter{complete: func(context.Context, string, completion.Request) (string, error) {
		return out, nil
	}}
}

func mustNotCall(t *testing.T) *stubCompleter {
	return &stubCompleter{complete: func(context.Context, string, completion.Request) (string, error) {
		t.Fatal("upstream must not be called")
		return "", nil
	}}
}

func deps(c completion.Completer, creds credential.Static) Deps {
	return Deps{Completer: c, Credentials: creds, Prompts: prompt.Default()}
}

var bothKeys = credential.Static{credential.Polish: "sk-polish", credential.Framework: "sk-frame"}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var b []byte
	switch v := body.(type) {
	case nil:
	case string:
		b = []byte(v)
	default:
		var err error
		if b, err = json.Marshal(v); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestHandlePolish(t *testing.T) {
	stub := &stubCompleter{complete: func(ctx context.Context, apiKey string, req completion.Request) (string, error) {
		if apiKey != "sk-polish" {
			t.Errorf("api key: got %q, want %q", apiKey, "sk-polish")
		}
		if req.MaxTokens != polishMaxTokens {
			t.Errorf("max tokens: got %d, want %d", req.MaxTokens, polishMaxTokens)
		}
		if req.Temperature != temperature {
			t.Errorf("temperature: got %v, want %v", req.Temperature, temperature)
		}
		if !strings.Contains(req.Prompt, "\"甲方应当按时付款\"") {
			t.Errorf("prompt does not carry the text: %q", req.Prompt)
		}
		return "  甲方应依约按期履行付款义务。\n", nil
	}}

	w := post(t, Polish(deps(stub, bothKeys)), "/api/polish", polishRequest{OriginalText: "甲方应当按时付款"})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeBody(t, w)
	if resp["polishedText"] != "  甲方应依约按期履行付款义务。\n" {
		t.Errorf("polishedText: got %q, want upstream output verbatim", resp["polishedText"])
	}
	if _, ok := resp["error"]; ok {
		t.Error("success response must not carry an error field")
	}
}

func TestHandleFramework(t *testing.T) {
	stub := &stubCompleter{complete: func(ctx context.Context, apiKey string, req completion.Request) (string, error) {
		if apiKey != "sk-frame" {
			t.Errorf("api key: got %q, want %q", apiKey, "sk-frame")
		}
		if req.MaxTokens != frameworkMaxTokens {
			t.Errorf("max tokens: got %d, want %d", req.MaxTokens, frameworkMaxTokens)
		}
		if !strings.Contains(req.Prompt, "检索关键词") {
			t.Errorf("framework prompt must request keywords: %q", req.Prompt)
		}
		return "一、案件事实\n二、法律分析\n\n检索关键词：合同，违约, 赔偿", nil
	}}

	w := post(t, Framework(deps(stub, bothKeys)), "/api/framework", frameworkRequest{Topic: "买卖合同违约"})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeBody(t, w)
	if resp["framework"] != "一、案件事实\n二、法律分析" {
		t.Errorf("framework: got %q", resp["framework"])
	}
	if resp["keywords"] != "合同 违约 赔偿" {
		t.Errorf("keywords: got %q, want %q", resp["keywords"], "合同 违约 赔偿")
	}
}

func TestHandleFrameworkWithoutKeywordLine(t *testing.T) {
	w := post(t, Framework(deps(replying("  一、引言\n二、结论  "), bothKeys)), "/api/framework", frameworkRequest{Topic: "x"})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeBody(t, w)
	if resp["framework"] != "一、引言\n二、结论" {
		t.Errorf("framework: got %q", resp["framework"])
	}
	kw, ok := resp["keywords"]
	if !ok || kw != "" {
		t.Errorf("keywords: got %v (present=%v), want empty string", kw, ok)
	}
}

func TestHandleValidation(t *testing.T) {
	tests := []struct {
		name      string
		handler   func(Deps) http.HandlerFunc
		method    string
		body      any
		wantCode  int
		wantError string
	}{
		{"polish missing field", Polish, http.MethodPost, map[string]string{}, http.StatusBadRequest, "originalText is required"},
		{"polish empty field", Polish, http.MethodPost, polishRequest{OriginalText: ""}, http.StatusBadRequest, "originalText is required"},
		{"polish wrong field", Polish, http.MethodPost, frameworkRequest{Topic: "x"}, http.StatusBadRequest, "originalText is required"},
		{"polish non-string field", Polish, http.MethodPost, `{"originalText": 42}`, http.StatusBadRequest, "invalid JSON body"},
		{"polish invalid json", Polish, http.MethodPost, "{invalid", http.StatusBadRequest, "invalid JSON body"},
		{"polish empty body", Polish, http.MethodPost, nil, http.StatusBadRequest, "invalid JSON body"},
		{"polish wrong method", Polish, http.MethodGet, nil, http.StatusMethodNotAllowed, "method not allowed"},
		{"framework missing field", Framework, http.MethodPost, map[string]string{}, http.StatusBadRequest, "topic is required"},
		{"framework empty field", Framework, http.MethodPost, frameworkRequest{Topic: ""}, http.StatusBadRequest, "topic is required"},
		{"framework null field", Framework, http.MethodPost, `{"topic": null}`, http.StatusBadRequest, "topic is required"},
		{"framework wrong method", Framework, http.MethodPut, nil, http.StatusMethodNotAllowed, "method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b []byte
			switch v := tt.body.(type) {
			case nil:
			case string:
				b = []byte(v)
			default:
				b, _ = json.Marshal(v)
			}
			req := httptest.NewRequest(tt.method, "/", bytes.NewReader(b))
			w := httptest.NewRecorder()

			tt.handler(deps(mustNotCall(t), bothKeys)).ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", w.Code, tt.wantCode)
			}
			resp := decodeBody(t, w)
			if resp["error"] != tt.wantError {
				t.Errorf("error: got %q, want %q", resp["error"], tt.wantError)
			}
		})
	}
}

func TestHandleTextTooLong(t *testing.T) {
	t.Run("over limit", func(t *testing.T) {
		long := strings.Repeat("法", maxTextLength+1)
		w := post(t, Polish(deps(mustNotCall(t), bothKeys)), "/api/polish", polishRequest{OriginalText: long})

		if w.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusBadRequest)
		}
		var resp errorResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if !strings.Contains(resp.Error, "too long") {
			t.Errorf("error: got %q, want to contain 'too long'", resp.Error)
		}
	})

	t.Run("at limit counts characters not bytes", func(t *testing.T) {
		exact := strings.Repeat("法", maxTextLength)
		w := post(t, Framework(deps(replying("ok"), bothKeys)), "/api/framework", frameworkRequest{Topic: exact})

		if w.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestHandleMissingCredential(t *testing.T) {
	onlyFramework := credential.Static{credential.Framework: "sk-frame"}

	t.Run("polish without key", func(t *testing.T) {
		w := post(t, Polish(deps(mustNotCall(t), onlyFramework)), "/api/polish", polishRequest{OriginalText: "x"})

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusInternalServerError)
		}
		resp := decodeBody(t, w)
		if resp["error"] != msgNotConfigured {
			t.Errorf("error: got %q, want %q", resp["error"], msgNotConfigured)
		}
	})

	t.Run("framework unaffected", func(t *testing.T) {
		w := post(t, Framework(deps(replying("框架"), onlyFramework)), "/api/framework", frameworkRequest{Topic: "x"})

		if w.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("validation runs before credential check", func(t *testing.T) {
		w := post(t, Polish(deps(mustNotCall(t), credential.Static{})), "/api/polish", polishRequest{})

		if w.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestHandleUpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unauthorized", &completion.StatusError{StatusCode: http.StatusUnauthorized, Body: `{"error":"invalid key sk-secret"}`}},
		{"malformed", completion.ErrMalformedResponse},
		{"transport", &completion.TransportError{Err: context.DeadlineExceeded}},
		{"unexpected", errors.New("something else")},
	}

	for _, tt := range tests {
		for _, route := range []struct {
			name    string
			handler func(Deps) http.HandlerFunc
			body    any
		}{
			{"polish", Polish, polishRequest{OriginalText: "x"}},
			{"framework", Framework, frameworkRequest{Topic: "x"}},
		} {
			t.Run(route.name+"/"+tt.name, func(t *testing.T) {
				stub := &stubCompleter{complete: func(context.Context, string, completion.Request) (string, error) {
					return "", tt.err
				}}
				w := post(t, route.handler(deps(stub, bothKeys)), "/", route.body)

				if w.Code != http.StatusInternalServerError {
					t.Errorf("status: got %d, want %d", w.Code, http.StatusInternalServerError)
				}
				resp := decodeBody(t, w)
				if resp["error"] != msgUpstreamFailed {
					t.Errorf("error: got %q, want %q", resp["error"], msgUpstreamFailed)
				}
				if len(resp) != 1 {
					t.Errorf("error response must only carry error, got %v", resp)
				}
				if strings.Contains(w.Body.String(), "sk-secret") {
					t.Error("upstream detail leaked to the caller")
				}
				if stub.calls != 1 {
					t.Errorf("upstream calls: got %d, want exactly 1", stub.calls)
				}
			})
		}
	}
}

func TestHandleHealth(t *testing.T) {
	handlers := []string{credential.Framework, credential.Polish}

	t.Run("all configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		w := httptest.NewRecorder()
		Health("baidu/ERNIE-4.5-300B-A47B", bothKeys, handlers).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusOK)
		}
		var resp healthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != "ok" {
			t.Errorf("status: got %q, want %q", resp.Status, "ok")
		}
		if resp.Model != "baidu/ERNIE-4.5-300B-A47B" {
			t.Errorf("model: got %q", resp.Model)
		}
		if len(resp.Handlers) != 2 || !resp.Handlers[credential.Polish].Configured {
			t.Errorf("handlers: got %v", resp.Handlers)
		}
	})

	t.Run("one missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		w := httptest.NewRecorder()
		Health("m", credential.Static{credential.Polish: "sk"}, handlers).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusOK)
		}
		var resp healthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != "degraded" {
			t.Errorf("status: got %q, want %q", resp.Status, "degraded")
		}
		fw := resp.Handlers[credential.Framework]
		if fw.Configured || fw.Reason != "no API key" {
			t.Errorf("framework: got %+v, want unconfigured with reason", fw)
		}
	})
}
