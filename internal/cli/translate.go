package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gp-deepseek-translate/internal/placeholder"
)

func newTranslateCmd(a *app) *cobra.Command {
	var (
		locale string
		userID string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate strings from the command line",
		Long: `Translate one or more English strings into a locale.

Each argument is one string. Without arguments, every non-blank line of
stdin is one string. Translations are printed one per line in input order.

Examples:
  deepseek-translate translate --locale fr "Save changes"
  printf 'Save\nCancel\n' | deepseek-translate translate -l de`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := args
			if len(texts) == 0 {
				lines, err := readLines(cmd)
				if err != nil {
					return err
				}
				texts = lines
			}
			return a.translate(cmd, locale, userID, texts, asJSON)
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "target locale slug, e.g. fr or zh-cn")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "translate with this user's settings")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("locale")
	return cmd
}

func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return lines, nil
}

type translateOutput struct {
	BatchID      string   `json:"batch_id,omitempty"`
	Translations []string `json:"translations"`
}

func (a *app) translate(cmd *cobra.Command, locale, userID string, texts []string, asJSON bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	factory, _, release, err := a.newFactory(cfg)
	if err != nil {
		return err
	}
	defer release()

	client := factory.ForUser(userID)
	ctx := cmd.Context()

	var out translateOutput
	if len(texts) == 1 {
		tr, err := client.TranslateOne(ctx, texts[0], locale)
		if err != nil {
			return err
		}
		out.Translations = []string{placeholder.Clean(tr)}
	} else {
		res, err := client.Translate(ctx, locale, texts)
		if err != nil {
			return err
		}
		out.BatchID = res.BatchID
		out.Translations = res.Translations
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, t := range out.Translations {
		fmt.Fprintln(w, t)
	}
	return nil
}
