// Package llmtest provides an in-memory llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/llm"
)

// Fake answers every ChatCompletion with Respond and records the requests.
type Fake struct {
	Respond func(req *llm.ChatRequest) (string, error)

	mu       sync.Mutex
	requests []*llm.ChatRequest
}

func (f *Fake) ChatCompletion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, apierr.Wrap(apierr.KindHTTPTransport, "request failed", err)
	}

	content, err := f.Respond(req)
	if err != nil {
		return nil, err
	}

	return &llm.ChatResponse{
		Model: req.Model,
		Choices: []llm.ChatChoice{
			{Index: 0, Message: llm.ChatMessage{Role: llm.RoleAssistant, Content: content}, FinishReason: "stop"},
		},
		Usage: &llm.Usage{},
	}, nil
}

// Requests returns a copy of the recorded requests in call order.
func (f *Fake) Requests() []*llm.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*llm.ChatRequest(nil), f.requests...)
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Prompt returns the user message of req.
func Prompt(req *llm.ChatRequest) string {
	for _, m := range req.Messages {
		if m.Role == llm.RoleUser {
			return m.Content
		}
	}
	return ""
}

var (
	numberedLine = regexp.MustCompile(`(?m)^\d+\. (.*)$`)
	singleMarker = regexp.MustCompile(`Translate the following text to .+? language: `)
)

// IsChunkPrompt reports whether req carries a numbered-list prompt.
func IsChunkPrompt(req *llm.ChatRequest) bool {
	return strings.Contains(Prompt(req), "numbered texts")
}

// Sources extracts the source strings embedded in a translation prompt.
func Sources(req *llm.ChatRequest) []string {
	p := Prompt(req)
	if IsChunkPrompt(req) {
		var out []string
		for _, m := range numberedLine.FindAllStringSubmatch(p, -1) {
			out = append(out, m[1])
		}
		return out
	}
	if loc := singleMarker.FindStringIndex(p); loc != nil {
		return []string{p[loc[1]:]}
	}
	return nil
}

// Translator answers like a well-behaved model: every source string comes
// back prefixed, numbered for chunk prompts.
func Translator(prefix string) func(req *llm.ChatRequest) (string, error) {
	return func(req *llm.ChatRequest) (string, error) {
		src := Sources(req)
		if !IsChunkPrompt(req) {
			if len(src) == 0 {
				return "", fmt.Errorf("llmtest: unrecognised prompt %q", Prompt(req))
			}
			return prefix + src[0], nil
		}
		lines := make([]string, len(src))
		for i, s := range src {
			lines[i] = fmt.Sprintf("%d. %s%s", i+1, prefix, s)
		}
		return strings.Join(lines, "\n"), nil
	}
}
