package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"gp-deepseek-translate/internal/config"
	"gp-deepseek-translate/internal/locales"
	"gp-deepseek-translate/internal/placeholder"
)

type diagnoseOptions struct {
	userID string
	locale string
	ping   bool
}

func newDiagnoseCmd(a *app) *cobra.Command {
	var opts diagnoseOptions

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Report configuration and optionally test the DeepSeek connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.diagnose(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "also report this user's overrides")
	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "zh-cn", "locale to check and use for --ping")
	cmd.Flags().BoolVar(&opts.ping, "ping", false, `translate "Hello" to check the API key works`)
	return cmd
}

func (a *app) diagnose(cmd *cobra.Command, opts diagnoseOptions) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "=== CONFIG FILE ===")
	path := a.configPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "Path: %s\n", path)
	} else {
		fmt.Fprintf(w, "Path: %s (not found, using defaults and environment)\n", path)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Load: FAILED (%v)\n", err)
		return err
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== API KEY CONFIGURATION ===")
	if cfg.DeepSeek.APIKey != "" {
		fmt.Fprintf(w, "Site API Key: SET (%s)\n", maskKey(cfg.DeepSeek.APIKey))
	} else {
		fmt.Fprintln(w, "Site API Key: NOT SET - add deepseek.api_key or DEEPSEEK_API_KEY")
	}
	if opts.userID != "" {
		writeUserKey(w, cfg, opts.userID)
	}
	fmt.Fprintln(w)

	settings := cfg.ForUser(opts.userID)

	fmt.Fprintln(w, "=== MODEL CONFIGURATION ===")
	fmt.Fprintf(w, "Model: %s\n", settings.Model)
	fmt.Fprintf(w, "Temperature: %s\n", strconv.FormatFloat(settings.Temperature, 'f', -1, 64))
	if settings.CustomPrompt != "" {
		fmt.Fprintln(w, "Custom Prompt: SET")
	} else {
		fmt.Fprintln(w, "Custom Prompt: not set")
	}
	fmt.Fprintf(w, "Chunk size: %d, max batch: %d, chunk delay: %s\n",
		cfg.Batch.ChunkSize, cfg.Batch.MaxBatch, cfg.Batch.ChunkDelay.Std())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== LOCALE ===")
	supported := locales.IsSupported(opts.locale)
	name, found := locales.Default.EnglishName(opts.locale)
	switch {
	case supported && found:
		fmt.Fprintf(w, "%s: supported (%s)\n", opts.locale, name)
	case supported:
		fmt.Fprintf(w, "%s: supported by DeepSeek but unknown to the locale registry\n", opts.locale)
	default:
		fmt.Fprintf(w, "%s: NOT supported by DeepSeek\n", opts.locale)
	}

	if !opts.ping {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== API CONNECTION TEST ===")
	if !settings.HasAPIKey() {
		fmt.Fprintln(w, "Skipped: no API key")
		return nil
	}

	factory, _, release, err := a.newFactory(cfg)
	if err != nil {
		return err
	}
	defer release()

	out, err := factory.ForUser(opts.userID).TranslateOne(cmd.Context(), "Hello", opts.locale)
	if err != nil {
		fmt.Fprintf(w, "FAILED: %v\n", err)
		return err
	}
	fmt.Fprintf(w, "OK: %q\n", placeholder.Clean(out))
	return nil
}

func writeUserKey(w io.Writer, cfg *config.File, userID string) {
	u, ok := cfg.Users[userID]
	if ok && u.APIKey != "" {
		fmt.Fprintf(w, "User %s API Key: SET (%s)\n", userID, maskKey(u.APIKey))
		return
	}
	fmt.Fprintf(w, "User %s API Key: not set (will use site key)\n", userID)
}

// maskKey keeps a short prefix so two keys can be told apart.
func maskKey(key string) string {
	n := min(6, len(key)/2)
	return key[:n] + "..."
}
