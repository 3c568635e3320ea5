// Package eventhandler serves batch translation requests delivered as
// Lambda events.
package eventhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/translate"
	"gp-deepseek-translate/internal/validate"
)

// Request is the event payload.
type Request struct {
	Locale  string   `json:"locale"`
	Strings []string `json:"strings"`
	UserID  string   `json:"user_id,omitempty"`
}

// Response is the output of one invocation. Failures are reported in Error
// rather than as a Lambda error so callers always get a JSON body.
type Response struct {
	Translations    []string `json:"translations,omitempty"`
	BatchID         string   `json:"batchId,omitempty"`
	ChunksProcessed int      `json:"chunksProcessed,omitempty"`
	Error           string   `json:"error,omitempty"`
	Kind            string   `json:"kind,omitempty"`
}

// ClientSource hands out a translation client configured for a user.
type ClientSource interface {
	ForUser(userID string) *translate.Client
}

type Handler struct {
	clients ClientSource
	logger  *zap.Logger
}

func New(clients ClientSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{clients: clients, logger: logger}
}

// HandleEvent validates a raw event and translates it.
func (h *Handler) HandleEvent(ctx context.Context, event json.RawMessage) (*Response, error) {
	violations, err := validate.Validate(validate.LambdaEvent, event)
	if err != nil {
		return &Response{Error: fmt.Sprintf("invalid event: %v", err), Kind: "invalid_request"}, nil
	}
	if len(violations) > 0 {
		return &Response{Error: strings.Join(violations, "; "), Kind: "invalid_request"}, nil
	}

	var req Request
	if err := json.Unmarshal(event, &req); err != nil {
		return &Response{Error: fmt.Sprintf("invalid event: %v", err), Kind: "invalid_request"}, nil
	}
	return h.Handle(ctx, req)
}

// Handle translates req.Strings into req.Locale. The translations are
// positionally aligned with the input.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	client := h.clients.ForUser(req.UserID)

	res, err := client.Translate(ctx, req.Locale, req.Strings)
	if err != nil {
		h.logger.Warn("event rejected",
			zap.String("locale", req.Locale),
			zap.Int("strings", len(req.Strings)),
			zap.Error(err),
		)
		return &Response{Error: err.Error(), Kind: string(apierr.KindOf(err))}, nil
	}

	return &Response{
		Translations:    res.Translations,
		BatchID:         res.BatchID,
		ChunksProcessed: res.Chunks,
	}, nil
}
