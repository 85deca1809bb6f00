package completion

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Mock returns simulated completions with a configurable delay.
// Used for development and testing without a real upstream.
type Mock struct {
	Delay time.Duration
	// Reply overrides the canned output when set.
	Reply func(prompt string) string

	calls atomic.Int64
}

func (m *Mock) Name() string { return "Mock" }

func (m *Mock) Complete(ctx context.Context, apiKey string, req Request) (string, error) {
	m.calls.Add(1)

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", &TransportError{Err: fmt.Errorf("mock: %w", ctx.Err())}
		}
	}

	if m.Reply != nil {
		return m.Reply(req.Prompt), nil
	}

	input := quotedInput(req.Prompt)
	if strings.Contains(req.Prompt, "检索关键词") {
		return "一、案情概述\n" + input + "\n二、争议焦点\n三、法律依据\n四、论证思路\n\n检索关键词：合同 违约 赔偿", nil
	}
	return input, nil
}

// Calls reports how many times Complete was invoked.
func (m *Mock) Calls() int64 { return m.calls.Load() }

// quotedInput pulls the user content back out of a rendered prompt, which
// quotes it last. Falls back to the whole prompt.
func quotedInput(prompt string) string {
	end := strings.LastIndex(prompt, "\"")
	if end <= 0 {
		return strings.TrimSpace(prompt)
	}
	start := strings.LastIndex(prompt[:end], "\"")
	if start < 0 {
		return strings.TrimSpace(prompt)
	}
	return strings.TrimSpace(prompt[start+1 : end])
}
