package translate

import (
	"golang.org/x/time/rate"
	"go.uber.org/zap"

	"gp-deepseek-translate/internal/config"
	"gp-deepseek-translate/internal/llm"
	"gp-deepseek-translate/internal/locales"
)

// Factory builds a Client per request from the current configuration, so
// a reloaded file applies to the next request without touching running ones.
type Factory struct {
	api     llm.Client
	holder  *config.Holder
	locales locales.Resolver
	logger  *zap.Logger

	// Pacer overrides the configured chunk delay when set (tests).
	Pacer Pacer
}

func NewFactory(api llm.Client, holder *config.Holder, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{
		api:     api,
		holder:  holder,
		locales: locales.Default,
		logger:  logger.Named("translate"),
	}
}

// ForUser returns a Client with userID's settings ("" for the site).
func (f *Factory) ForUser(userID string) *Client {
	cfg := f.holder.Current()

	pacer := f.Pacer
	if pacer == nil {
		pacer = FixedPacer{Delay: cfg.Batch.ChunkDelay.Std()}
	}

	logger := f.logger
	if userID != "" {
		logger = logger.With(zap.String("user_id", userID))
	}

	return NewClient(f.api, cfg.ForUser(userID), Options{
		Logger:    logger,
		Locales:   f.locales,
		Pacer:     pacer,
		Throttle:  rate.NewLimiter(rate.Limit(cfg.Batch.FallbackRate), 1),
		ChunkSize: cfg.Batch.ChunkSize,
		MaxBatch:  cfg.Batch.MaxBatch,
	})
}
