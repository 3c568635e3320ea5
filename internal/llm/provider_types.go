package llm

import "fmt"

// Request shape we send to DeepSeek (OpenAI-compatible). Temperature and the
// penalties are always sent, zero included.
type providerChatRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
	Stop             []string      `json:"stop,omitempty"`
	Stream           bool          `json:"stream"`
}

// Content is a pointer so a missing field can be told apart from "".
type providerMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type providerChatChoice struct {
	Index        int             `json:"index"`
	Message      providerMessage `json:"message"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

type providerUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type providerError struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    interface{} `json:"code"`
}

// code renders the provider code, which DeepSeek sends as a string or number.
func (e *providerError) code() string {
	if e.Code == nil {
		return ""
	}
	switch v := e.Code.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

// providerChatResponse also covers error bodies: DeepSeek may answer 200
// with an "error" object instead of choices.
type providerChatResponse struct {
	ID      string               `json:"id"`
	Object  string               `json:"object"`
	Created int64                `json:"created"`
	Model   string               `json:"model"`
	Choices []providerChatChoice `json:"choices"`
	Usage   *providerUsage       `json:"usage,omitempty"`
	Error   *providerError       `json:"error,omitempty"`
}

type providerErrorResponse struct {
	Error providerError `json:"error"`
}
