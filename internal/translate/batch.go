package translate

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/chunker"
	"gp-deepseek-translate/internal/locales"
	"gp-deepseek-translate/internal/metrics"
)

// BatchResult is a translated batch plus how it was produced.
type BatchResult struct {
	BatchID string
	// Translations is aligned index by index with the input.
	Translations []string
	Chunks       int
	// FallbackChunks were translated string by string after their numbered
	// answer failed to parse.
	FallbackChunks int
	// FailedChunks kept their source strings.
	FailedChunks int
}

// TranslateBatch translates up to MaxBatch strings. After the request is
// validated the only possible error is ctx's: a chunk that fails keeps its
// source strings so the result always matches texts in length and order.
func (c *Client) TranslateBatch(ctx context.Context, locale string, texts []string) ([]string, error) {
	res, err := c.Translate(ctx, locale, texts)
	if err != nil {
		return nil, err
	}
	return res.Translations, nil
}

// Translate is TranslateBatch with bookkeeping.
func (c *Client) Translate(ctx context.Context, locale string, texts []string) (*BatchResult, error) {
	if err := c.validateBatch(locale, texts); err != nil {
		return nil, err
	}

	res := &BatchResult{
		BatchID:      uuid.NewString(),
		Translations: make([]string, 0, len(texts)),
	}
	logger := c.logger.With(
		zap.String("batch_id", res.BatchID),
		zap.String("locale", locale),
		zap.Int("strings", len(texts)),
	)
	metrics.BatchSize.Observe(float64(len(texts)))

	chunks := chunker.Split(texts, c.chunkSize)
	res.Chunks = len(chunks)
	logger.Info("translating batch", zap.Int("chunks", len(chunks)))

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, fellBack, err := c.translateChunk(ctx, chunk, locale)
		switch {
		case err != nil:
			logger.Warn("chunk failed, keeping source strings",
				zap.Int("chunk", i),
				zap.String("kind", string(apierr.KindOf(err))),
				zap.Error(err),
			)
			res.FailedChunks++
			metrics.ChunksTotal.WithLabelValues("failed").Inc()
			out = chunk
		case fellBack:
			res.FallbackChunks++
			metrics.ChunksTotal.WithLabelValues("fallback").Inc()
		default:
			metrics.ChunksTotal.WithLabelValues("ok").Inc()
		}
		res.Translations = append(res.Translations, out...)

		if i < len(chunks)-1 {
			if err := c.pacer.WaitBetweenChunks(ctx); err != nil {
				return nil, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("batch translated",
		zap.Int("fallback_chunks", res.FallbackChunks),
		zap.Int("failed_chunks", res.FailedChunks),
	)
	return res, nil
}

// validateBatch checks the request itself. A missing key or an unnamed
// locale is a chunk failure and leaves the source strings in place.
func (c *Client) validateBatch(locale string, texts []string) error {
	if !locales.IsSupported(locale) {
		return unsupported(locale)
	}
	if len(texts) == 0 {
		return apierr.New(apierr.KindEmptyBatch, "no strings found to translate")
	}
	if len(texts) > c.maxBatch {
		return apierr.TooLarge(c.maxBatch, len(texts))
	}
	return nil
}
