// Package cli implements the deepseek-translate commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gp-deepseek-translate/internal/config"
	"gp-deepseek-translate/internal/llm"
	"gp-deepseek-translate/internal/translate"
	"gp-deepseek-translate/pkg/logging/logging"
)

var appVersion = "dev"

// app carries what the commands share. Tests swap newAPI and pacer.
type app struct {
	cfgFile string

	newAPI func(cfg llm.Config, logger *zap.Logger) (llm.Client, error)
	pacer  translate.Pacer
	logger *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{newAPI: llm.NewClient})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "deepseek-translate",
		Short:         "Translate GlotPress strings with DeepSeek",
		Long:          "deepseek-translate serves and runs DeepSeek machine translation for GlotPress translation sets.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.deepseek-translate/config.toml)")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newTranslateCmd(a))
	root.AddCommand(newLocalesCmd())
	root.AddCommand(newDiagnoseCmd(a))
	root.AddCommand(newMCPCmd(a))
	return root
}

// SetVersion sets the version shown by --version.
func SetVersion(version string) {
	appVersion = version
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return config.DefaultPath()
}

func (a *app) loadConfig() (*config.File, error) {
	return config.Load(a.configPath())
}

func (a *app) log() *zap.Logger {
	if a.logger != nil {
		return a.logger
	}
	return logging.DefaultLogger()
}

// newFactory builds the DeepSeek client and a translation factory over a
// holder seeded with cfg. The returned func releases the HTTP client.
func (a *app) newFactory(cfg *config.File) (*translate.Factory, *config.Holder, func(), error) {
	logger := a.log()

	api, err := a.newAPI(llm.Config{
		BaseURL:    cfg.Batch.BaseURL,
		APIKey:     cfg.DeepSeek.APIKey,
		MaxRetries: cfg.Batch.MaxRetries,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	holder := config.NewHolder(cfg)
	factory := translate.NewFactory(api, holder, logger)
	factory.Pacer = a.pacer

	release := func() {
		if closer, ok := api.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
	return factory, holder, release, nil
}
