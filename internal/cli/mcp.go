package cli

import (
	"github.com/spf13/cobra"

	"gp-deepseek-translate/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server over stdio exposing the tools
translate_text, translate_batch and list_locales.

Assistant configuration:
  {
    "mcpServers": {
      "deepseek-translate": {
        "command": "/path/to/deepseek-translate",
        "args": ["mcp"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			factory, _, release, err := a.newFactory(cfg)
			if err != nil {
				return err
			}
			defer release()

			server, err := mcpserver.NewServer(factory, userID)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "translate with this user's settings")
	return cmd
}
