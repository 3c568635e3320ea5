// Package translate turns source strings into DeepSeek translations: one
// string at a time, one numbered chunk at a time, or a whole batch split into
// paced chunks with per-string fallback.
package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/chunker"
	"gp-deepseek-translate/internal/config"
	"gp-deepseek-translate/internal/llm"
	"gp-deepseek-translate/internal/locales"
	"gp-deepseek-translate/internal/metrics"
	"gp-deepseek-translate/internal/numbered"
	"gp-deepseek-translate/internal/placeholder"
)

const (
	SingleMaxTokens = 1000
	ChunkMaxTokens  = 4000

	SingleTimeout = 30 * time.Second
	ChunkTimeout  = 60 * time.Second
)

// Options tunes a Client. Zero values fall back to the defaults in config.
type Options struct {
	Logger *zap.Logger
	// Locales resolves English names; locales.Default when nil.
	Locales   locales.Resolver
	Pacer     Pacer
	Throttle  Throttle
	ChunkSize int
	MaxBatch  int
}

// Client translates with one immutable set of Settings. It keeps no state
// between calls, so one Client may serve concurrent batches.
type Client struct {
	api       llm.Client
	settings  config.Settings
	locales   locales.Resolver
	pacer     Pacer
	throttle  Throttle
	chunkSize int
	maxBatch  int
	logger    *zap.Logger
}

func NewClient(api llm.Client, settings config.Settings, opts Options) *Client {
	c := &Client{
		api:       api,
		settings:  settings,
		locales:   opts.Locales,
		pacer:     opts.Pacer,
		throttle:  opts.Throttle,
		chunkSize: opts.ChunkSize,
		maxBatch:  opts.MaxBatch,
		logger:    opts.Logger,
	}

	if c.settings.Model == "" {
		c.settings.Model = config.DefaultModel
	}
	if c.locales == nil {
		c.locales = locales.Default
	}
	if c.pacer == nil {
		c.pacer = FixedPacer{Delay: config.DefaultChunkDelay}
	}
	if c.throttle == nil {
		c.throttle = rate.NewLimiter(rate.Limit(config.DefaultFallbackRate), 1)
	}
	if c.chunkSize <= 0 {
		c.chunkSize = chunker.DefaultChunkSize
	}
	if c.maxBatch <= 0 {
		c.maxBatch = config.DefaultMaxBatch
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	return c
}

// Settings returns the settings the client was built with.
func (c *Client) Settings() config.Settings { return c.settings }

// TranslateOne translates a single string. The model's answer is returned
// as is; placeholder cleaning is left to the caller.
func (c *Client) TranslateOne(ctx context.Context, text, locale string) (string, error) {
	if err := c.Ready(locale); err != nil {
		return "", err
	}
	name, _ := c.englishName(locale)

	content, err := c.complete(ctx, singlePrompt(c.settings.CustomPrompt, name, text), SingleMaxTokens, SingleTimeout)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", apierr.New(apierr.KindEmptyTranslation, "empty translation received from DeepSeek")
	}
	return content, nil
}

// Ready reports whether a request for locale could reach DeepSeek: the
// locale is supported, has an English name, and an API key is set.
func (c *Client) Ready(locale string) error {
	if !locales.IsSupported(locale) {
		return unsupported(locale)
	}
	if !c.settings.HasAPIKey() {
		return missingKey()
	}
	_, err := c.englishName(locale)
	return err
}

// TranslateChunk translates texts with one numbered-list request. When the
// answer cannot be aligned with texts every string is translated on its
// own instead, keeping the original wherever that fails, so a nil error
// always comes with exactly len(texts) cleaned entries.
func (c *Client) TranslateChunk(ctx context.Context, texts []string, locale string) ([]string, error) {
	out, _, err := c.translateChunk(ctx, texts, locale)
	return out, err
}

func (c *Client) translateChunk(ctx context.Context, texts []string, locale string) ([]string, bool, error) {
	name, err := c.englishName(locale)
	if err != nil {
		return nil, false, err
	}
	if !c.settings.HasAPIKey() {
		return nil, false, missingKey()
	}
	if len(texts) == 0 {
		return []string{}, false, nil
	}

	content, err := c.complete(ctx, chunkPrompt(c.settings.CustomPrompt, name, texts), ChunkMaxTokens, ChunkTimeout)
	if err != nil {
		return nil, false, err
	}

	parsed, err := numbered.Parse(content, len(texts))
	if err != nil {
		c.logger.Warn("chunk answer did not align, translating one by one",
			zap.String("locale", locale),
			zap.Int("strings", len(texts)),
			zap.Error(err),
		)
		return c.fallback(ctx, texts, locale), true, nil
	}

	for i, s := range parsed {
		parsed[i] = placeholder.Clean(s)
	}
	return parsed, false, nil
}

// fallback never fails: a string whose own request fails stays untranslated.
func (c *Client) fallback(ctx context.Context, texts []string, locale string) []string {
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = s

		if err := c.throttle.Wait(ctx); err != nil {
			metrics.FallbackStringsTotal.WithLabelValues("original").Inc()
			continue
		}

		tr, err := c.TranslateOne(ctx, s, locale)
		if err != nil {
			c.logger.Debug("fallback translation failed, keeping original",
				zap.Int("index", i),
				zap.Error(err),
			)
			metrics.FallbackStringsTotal.WithLabelValues("original").Inc()
			continue
		}

		out[i] = placeholder.Clean(tr)
		metrics.FallbackStringsTotal.WithLabelValues("translated").Inc()
	}
	return out
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error) {
	resp, err := c.api.ChatCompletion(ctx, &llm.ChatRequest{
		Model:       c.settings.Model,
		Messages:    []llm.ChatMessage{{Role: llm.RoleUser, Content: prompt}},
		Temperature: c.settings.Temperature,
		MaxTokens:   maxTokens,
		APIKey:      c.settings.APIKey,
		Timeout:     timeout,
	})
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

func (c *Client) englishName(locale string) (string, error) {
	name, ok := c.locales.EnglishName(locale)
	if !ok {
		return "", apierr.New(apierr.KindLocaleNotFound, fmt.Sprintf("locale %s not found", locale))
	}
	return name, nil
}

func unsupported(locale string) error {
	return apierr.New(apierr.KindUnsupportedLocale, fmt.Sprintf("locale %s isn't supported by DeepSeek", locale))
}

func missingKey() error {
	return apierr.New(apierr.KindMissingAPIKey, "DeepSeek API key is not configured")
}
