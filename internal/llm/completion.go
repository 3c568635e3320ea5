package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/metrics"
)

const (
	maxRequestSize  = 2 * 1024 * 1024 // 2MB total JSON payload
	maxResponseSize = 8 * 1024 * 1024

	completionsPath = "/v1/chat/completions"
)

func (c *client) ChatCompletion(parentCtx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req == nil {
		return nil, apierr.New(apierr.KindInvalidRequest, "request is nil")
	}

	if err := req.Validate(); err != nil {
		return nil, apierr.Wrap(apierr.KindInvalidRequest, "invalid request", err)
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = c.cfg.APIKey
	}
	if apiKey == "" {
		return nil, apierr.New(apierr.KindMissingAPIKey, "API key is not configured")
	}

	start := time.Now()
	resp, err := c.chatCompletion(parentCtx, req, apiKey)

	outcome := "ok"
	if err != nil {
		outcome = string(apierr.KindOf(err))
	}
	metrics.UpstreamLatencySeconds.WithLabelValues(req.Model, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn("deepseek request failed",
			zap.String("model", req.Model),
			zap.String("kind", outcome),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	c.logger.Debug("deepseek request completed",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

func (c *client) chatCompletion(parentCtx context.Context, req *ChatRequest, apiKey string) (*ChatResponse, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.cfg.UpstreamTimeout
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	bodyBytes, err := json.Marshal(providerChatRequest{
		Model:            req.Model,
		Messages:         req.Messages,
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		Stop:             req.Stop,
	})
	if err != nil {
		return nil, fmt.Errorf("deepseek: marshal request: %w", err)
	}
	if len(bodyBytes) > maxRequestSize {
		return nil, apierr.New(apierr.KindInvalidRequest,
			fmt.Sprintf("request too large (%d bytes, max %d)", len(bodyBytes), maxRequestSize))
	}

	url := c.cfg.BaseURL + completionsPath

	// doOnce builds a fresh *http.Request for each attempt
	doOnce := func(ctx context.Context, body []byte) (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
		return c.httpClient.Do(httpReq)
	}

	resp, err := c.doWithRetry(ctx, bodyBytes, doOnce)
	if err != nil {
		return nil, apierr.Wrap(apierr.KindHTTPTransport, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apierr.Wrap(apierr.KindHTTPTransport, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var perr providerErrorResponse
		if err := json.Unmarshal(body, &perr); err == nil && perr.Error.Message != "" {
			return nil, apierr.HTTPStatus(resp.StatusCode, perr.Error.Message)
		}
		return nil, apierr.HTTPStatus(resp.StatusCode, truncate(string(body), 200))
	}

	var pResp providerChatResponse
	if err := json.Unmarshal(body, &pResp); err != nil {
		c.logger.Debug("undecodable deepseek response", zap.String("body", truncate(string(body), 200)))
		return nil, apierr.Wrap(apierr.KindJSONDecode, "invalid JSON response", err)
	}

	if pResp.Error != nil {
		return nil, apierr.API(pResp.Error.code(), pResp.Error.Message)
	}

	if len(pResp.Choices) == 0 || pResp.Choices[0].Message.Content == nil {
		return nil, apierr.New(apierr.KindInvalidResponse, "response has no message content")
	}

	out := &ChatResponse{
		ID:      pResp.ID,
		Created: time.Unix(pResp.Created, 0),
		Model:   pResp.Model,
		Choices: make([]ChatChoice, 0, len(pResp.Choices)),
		Usage:   &Usage{},
	}

	for _, ch := range pResp.Choices {
		msg := ChatMessage{Role: ch.Message.Role}
		if ch.Message.Content != nil {
			msg.Content = *ch.Message.Content
		}
		out.Choices = append(out.Choices, ChatChoice{
			Index:        ch.Index,
			Message:      msg,
			FinishReason: ch.FinishReason,
		})
	}

	if pResp.Usage != nil {
		out.Usage.PromptTokens = pResp.Usage.PromptTokens
		out.Usage.CompletionTokens = pResp.Usage.CompletionTokens
		out.Usage.TotalTokens = pResp.Usage.TotalTokens
	}

	return out, nil
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
