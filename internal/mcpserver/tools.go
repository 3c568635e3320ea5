package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gp-deepseek-translate/internal/locales"
	"gp-deepseek-translate/internal/placeholder"
)

type TranslateTextInput struct {
	Text   string `json:"text" jsonschema:"the source text in English"`
	Locale string `json:"locale" jsonschema:"target GlotPress locale slug, e.g. fr or zh-cn"`
}

type TranslateTextOutput struct {
	Translation string `json:"translation"`
}

type TranslateBatchInput struct {
	Strings []string `json:"strings" jsonschema:"source strings, at most 100"`
	Locale  string   `json:"locale" jsonschema:"target GlotPress locale slug, e.g. fr or zh-cn"`
}

type TranslateBatchOutput struct {
	Translations []string `json:"translations"`
	BatchID      string   `json:"batch_id"`
	Chunks       int      `json:"chunks"`
}

type ListLocalesInput struct{}

type ListLocalesOutput struct {
	Locales []string `json:"locales"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "translate_text",
		Description: "Translate one string into a GlotPress locale with DeepSeek",
	}, s.handleTranslateText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "translate_batch",
		Description: "Translate up to 100 strings into a GlotPress locale; output order matches input",
	}, s.handleTranslateBatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_locales",
		Description: "List the locale codes DeepSeek can translate into",
	}, s.handleListLocales)
}

func (s *Server) handleTranslateText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TranslateTextInput,
) (*mcp.CallToolResult, TranslateTextOutput, error) {
	out, err := s.clients.ForUser(s.userID).TranslateOne(ctx, input.Text, input.Locale)
	if err != nil {
		return nil, TranslateTextOutput{}, err
	}
	return nil, TranslateTextOutput{Translation: placeholder.Clean(out)}, nil
}

func (s *Server) handleTranslateBatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TranslateBatchInput,
) (*mcp.CallToolResult, TranslateBatchOutput, error) {
	res, err := s.clients.ForUser(s.userID).Translate(ctx, input.Locale, input.Strings)
	if err != nil {
		return nil, TranslateBatchOutput{}, err
	}
	return nil, TranslateBatchOutput{
		Translations: res.Translations,
		BatchID:      res.BatchID,
		Chunks:       res.Chunks,
	}, nil
}

func (s *Server) handleListLocales(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListLocalesInput,
) (*mcp.CallToolResult, ListLocalesOutput, error) {
	return nil, ListLocalesOutput{Locales: locales.Supported()}, nil
}
