package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gp-deepseek-translate/internal/locales"
)

func newLocalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the locale codes DeepSeek translates into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, code := range locales.Supported() {
				name := "-"
				if l, ok := locales.Default.Lookup(code); ok {
					name = l.EnglishName
				}
				fmt.Fprintf(tw, "%s\t%s\n", code, name)
			}
			return tw.Flush()
		},
	}
}
