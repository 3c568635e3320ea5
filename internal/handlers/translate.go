package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"gp-deepseek-translate/internal/bulk"
	"gp-deepseek-translate/internal/i18n"
	"gp-deepseek-translate/internal/locales"
	"gp-deepseek-translate/internal/middleware"
	"gp-deepseek-translate/internal/placeholder"
	"gp-deepseek-translate/internal/translate"
	"gp-deepseek-translate/internal/validate"
	"gp-deepseek-translate/pkg/logging/logging"
)

// ClientSource hands out a translation client configured for a user.
// *translate.Factory satisfies it.
type ClientSource interface {
	ForUser(userID string) *translate.Client
}

// TranslateHandler holds dependencies for the /v1 translation endpoints.
type TranslateHandler struct {
	Clients  ClientSource
	Registry locales.Registry
}

func NewTranslateHandler(clients ClientSource) *TranslateHandler {
	return &TranslateHandler{
		Clients:  clients,
		Registry: locales.Default,
	}
}

type translateRequest struct {
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

type translateResponse struct {
	Translation string `json:"translation"`
	Locale      string `json:"locale"`
}

// Translate handles POST /v1/translate.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	var req translateRequest
	if !decodeBody(w, r, validate.TranslateRequest, &req) {
		return
	}

	client := h.Clients.ForUser(middleware.UserID(ctx))
	out, err := client.TranslateOne(ctx, req.Text, req.Locale)
	if err != nil {
		logger.Warn("translate failed",
			zap.String("locale", req.Locale),
			zap.Duration("total_latency_ms", time.Since(start)),
			zap.Error(err),
		)
		writeTranslateError(w, err)
		return
	}

	logger.Info("translate",
		zap.String("locale", req.Locale),
		zap.Duration("total_latency_ms", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, translateResponse{
		Translation: placeholder.Clean(out),
		Locale:      req.Locale,
	})
}

type batchRequest struct {
	Locale  string   `json:"locale"`
	Strings []string `json:"strings"`
}

type batchResponse struct {
	BatchID        string   `json:"batch_id"`
	Translations   []string `json:"translations"`
	Chunks         int      `json:"chunks"`
	FallbackChunks int      `json:"fallback_chunks"`
	FailedChunks   int      `json:"failed_chunks"`
}

// TranslateBatch handles POST /v1/translate/batch.
func (h *TranslateHandler) TranslateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	var req batchRequest
	if !decodeBody(w, r, validate.BatchRequest, &req) {
		return
	}

	client := h.Clients.ForUser(middleware.UserID(ctx))
	res, err := client.Translate(ctx, req.Locale, req.Strings)
	if err != nil {
		logger.Warn("batch rejected",
			zap.String("locale", req.Locale),
			zap.Int("strings", len(req.Strings)),
			zap.Error(err),
		)
		writeTranslateError(w, err)
		return
	}

	logger.Info("batch",
		zap.String("batch_id", res.BatchID),
		zap.String("locale", req.Locale),
		zap.Int("strings", len(req.Strings)),
		zap.Int("chunks", res.Chunks),
		zap.Duration("total_latency_ms", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, batchResponse{
		BatchID:        res.BatchID,
		Translations:   res.Translations,
		Chunks:         res.Chunks,
		FallbackChunks: res.FallbackChunks,
		FailedChunks:   res.FailedChunks,
	})
}

type bulkRequest struct {
	Locale           string     `json:"locale"`
	TranslationSetID int64      `json:"translation_set_id"`
	Rows             []bulk.Row `json:"rows"`
}

type bulkResponse struct {
	bulk.Result
	Suggestions []bulk.FuzzySuggestion `json:"suggestions"`
}

// Bulk handles POST /v1/bulk. The suggestions come back in the response;
// persisting them is up to the caller. Notices follow Accept-Language.
func (h *TranslateHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bulkRequest
	if !decodeBody(w, r, validate.BulkRequest, &req) {
		return
	}

	userID := middleware.UserID(ctx)
	col := &bulk.Collector{}
	res := bulk.Process(ctx, h.Clients.ForUser(userID), col, bulk.Request{
		Locale:           req.Locale,
		TranslationSetID: req.TranslationSetID,
		UserID:           userID,
		Rows:             req.Rows,
		Lang:             i18n.FromAcceptLanguage(r.Header.Get("Accept-Language")),
	})

	suggestions := col.Suggestions()
	if suggestions == nil {
		suggestions = []bulk.FuzzySuggestion{}
	}
	writeJSON(w, http.StatusOK, bulkResponse{Result: res, Suggestions: suggestions})
}

type localeInfo struct {
	Code        string `json:"code"`
	EnglishName string `json:"english_name,omitempty"`
	NativeName  string `json:"native_name,omitempty"`
}

// Locales handles GET /v1/locales.
func (h *TranslateHandler) Locales(w http.ResponseWriter, r *http.Request) {
	codes := locales.Supported()
	out := make([]localeInfo, 0, len(codes))
	for _, code := range codes {
		info := localeInfo{Code: code}
		if l, ok := h.Registry.Lookup(code); ok {
			info.EnglishName = l.EnglishName
			info.NativeName = l.NativeName
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"locales": out})
}
