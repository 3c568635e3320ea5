// Package logging builds the zap logger shared by every entry point and
// carries request-scoped loggers through context.
package logging

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "deepseek-translate"

// Options selects encoder and level.
type Options struct {
	// Development switches to the colored console encoder.
	Development bool
	Level       zapcore.Level
	Service     string
}

// OptionsFromEnv reads ENV (dev|development) and LOG_LEVEL. An unknown level
// leaves the default of info.
func OptionsFromEnv() Options {
	opts := Options{Level: zapcore.InfoLevel, Service: serviceName}

	switch os.Getenv("ENV") {
	case "dev", "development":
		opts.Development = true
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		_ = opts.Level.UnmarshalText([]byte(lvl))
	}
	return opts
}

// New builds a logger writing to stderr. Stdout belongs to CLI output and
// the MCP stdio transport.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(opts.Level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	var fields []zap.Field
	if opts.Service != "" {
		fields = append(fields, zap.String("service", opts.Service))
	}
	logger, err := cfg.Build(zap.Fields(fields...))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

var (
	defaultLogger *zap.Logger
	defaultOnce   sync.Once
)

// DefaultLogger is built from the environment on first use. If that fails
// it reports on stderr and logs nowhere.
func DefaultLogger() *zap.Logger {
	defaultOnce.Do(func() {
		l, err := New(OptionsFromEnv())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			l = zap.NewNop()
		}
		defaultLogger = l
	})
	return defaultLogger
}

type ctxKey struct{}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// L returns the logger carried by ctx, or DefaultLogger.
func L(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return DefaultLogger()
}

// WithFields returns a context whose logger carries fields.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return WithLogger(ctx, L(ctx).With(fields...))
}
