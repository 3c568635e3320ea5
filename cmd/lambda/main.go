// Package main is the entry point for the DeepSeek batch translation Lambda.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	appconfig "gp-deepseek-translate/internal/config"
	"gp-deepseek-translate/internal/eventhandler"
	"gp-deepseek-translate/internal/llm"
	"gp-deepseek-translate/internal/translate"
	"gp-deepseek-translate/pkg/logging/logging"
)

func main() {
	logger := logging.DefaultLogger()
	defer logger.Sync()

	h, err := newHandler(logger)
	if err != nil {
		logger.Fatal("lambda init failed", zap.Error(err))
	}

	lambda.Start(func(ctx context.Context, event json.RawMessage) (interface{}, error) {
		// warmup detection must come before anything else
		if warmup, ok := IsWarmupEvent(event); ok {
			return HandleWarmup(ctx, warmup)
		}
		return h.HandleEvent(ctx, event)
	})
}

// newHandler wires the handler once per cold start. The config file is
// optional; DEEPSEEK_* environment variables are usually enough.
func newHandler(logger *zap.Logger) (*eventhandler.Handler, error) {
	cfg, err := appconfig.Load(os.Getenv("DEEPSEEK_CONFIG"))
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(llm.Config{
		BaseURL:    cfg.Batch.BaseURL,
		APIKey:     cfg.DeepSeek.APIKey,
		MaxRetries: cfg.Batch.MaxRetries,
	}, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("lambda ready",
		zap.String("model", cfg.DeepSeek.Model),
		zap.Bool("api_key_set", cfg.DeepSeek.APIKey != ""),
		zap.Int("users", len(cfg.Users)),
	)

	factory := translate.NewFactory(client, appconfig.NewHolder(cfg), logger)
	return eventhandler.New(factory, logger.Named("event")), nil
}
