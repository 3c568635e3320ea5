// Package bulk turns a selection of originals into fuzzy DeepSeek
// suggestions and reports what happened the way the translation editor
// shows it.
package bulk

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/i18n"
	"gp-deepseek-translate/internal/metrics"
	"gp-deepseek-translate/internal/placeholder"
	"gp-deepseek-translate/pkg/logging/logging"
)

// StatusFuzzy marks a suggestion as awaiting human review.
const StatusFuzzy = "fuzzy"

// BatchSize is the largest number of strings handed to one TranslateBatch call.
const BatchSize = 100

// Row is one selected original. A row without a singular stands for an
// original that no longer exists.
type Row struct {
	OriginalID int64  `json:"original_id"`
	Singular   string `json:"singular"`
	Plural     string `json:"plural,omitempty"`
}

type Request struct {
	Locale           string
	TranslationSetID int64
	UserID           string
	Rows             []Row
	// Lang selects the notice language; "" means English.
	Lang string
}

// FuzzySuggestion is what the caller persists.
type FuzzySuggestion struct {
	OriginalID       int64    `json:"original_id"`
	TranslationSetID int64    `json:"translation_set_id"`
	UserID           string   `json:"user_id,omitempty"`
	Translation      string   `json:"translation_0"`
	Status           string   `json:"status"`
	Warnings         []string `json:"warnings,omitempty"`
}

// Translator is satisfied by *translate.Client. Ready reports a missing
// key or an unnamed locale up front; TranslateBatch would otherwise hand the
// source strings back and they would be saved as suggestions.
type Translator interface {
	Ready(locale string) error
	TranslateBatch(ctx context.Context, locale string, texts []string) ([]string, error)
}

type Inserter interface {
	Insert(ctx context.Context, s FuzzySuggestion) error
}

type Counts struct {
	Added        int `json:"added"`
	APIErrors    int `json:"api_errors"`
	InsertErrors int `json:"insert_errors"`
	Skipped      int `json:"skipped"`
}

type Result struct {
	Counts
	Notice string `json:"notice"`
	// NoticeLevel is "success" or "error".
	NoticeLevel string `json:"notice_level"`
}

type queued struct {
	id       int64
	singular string
}

// Process translates the singular rows of req in batches of BatchSize and
// hands every result to ins. Plural and missing rows are skipped. A batch
// the translator rejects inserts nothing and counts all its strings as API
// errors.
func Process(ctx context.Context, tr Translator, ins Inserter, req Request) Result {
	ctx = logging.WithFields(ctx, zap.String("locale", req.Locale), zap.Int("rows", len(req.Rows)))
	logger := logging.L(ctx)
	cat := i18n.English
	if req.Lang != "" {
		cat = i18n.For(req.Lang)
	}

	var (
		counts Counts
		queue  []queued
	)
	for _, row := range req.Rows {
		if row.Singular == "" || row.Plural != "" {
			counts.Skipped++
			continue
		}
		queue = append(queue, queued{id: row.OriginalID, singular: row.Singular})
	}

	var firstErr error
	if len(queue) == 0 {
		// nothing to send; let the translator report the empty batch
		_, firstErr = tr.TranslateBatch(ctx, req.Locale, nil)
	} else if err := tr.Ready(req.Locale); err != nil {
		logger.Warn("bulk rejected", zap.Error(err))
		counts.APIErrors = len(queue)
		firstErr = err
		queue = nil
	}

	for start := 0; start < len(queue); start += BatchSize {
		batch := queue[start:min(start+BatchSize, len(queue))]

		texts := make([]string, len(batch))
		for i, q := range batch {
			texts[i] = q.singular
		}

		results, err := tr.TranslateBatch(ctx, req.Locale, texts)
		if err == nil && len(results) != len(batch) {
			err = apierr.CountMismatch(len(batch), len(results))
		}
		if err != nil {
			logger.Warn("bulk batch failed", zap.Int("strings", len(batch)), zap.Error(err))
			counts.APIErrors += len(batch)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		for i, q := range batch {
			s := FuzzySuggestion{
				OriginalID:       q.id,
				TranslationSetID: req.TranslationSetID,
				UserID:           req.UserID,
				Translation:      results[i],
				Status:           StatusFuzzy,
				Warnings:         placeholder.Warnings(q.singular, results[i]),
			}
			if err := ins.Insert(ctx, s); err != nil {
				logger.Warn("inserting suggestion failed", zap.Int64("original_id", q.id), zap.Error(err))
				counts.InsertErrors++
				continue
			}
			counts.Added++
		}
	}

	recordCounts(counts)

	res := Result{Counts: counts}
	switch {
	case firstErr != nil && counts.Added == 0 && counts.InsertErrors == 0:
		res.Notice, res.NoticeLevel = errorNotice(cat, req.Locale, firstErr), "error"
	case counts.APIErrors == 0 && counts.InsertErrors == 0:
		res.Notice = cat.N(
			"%d fuzzy translation from DeepSeek was added.",
			"%d fuzzy translations from DeepSeek were added.",
			counts.Added, counts.Added,
		)
		res.NoticeLevel = "success"
	default:
		res.Notice, res.NoticeLevel = countsNotice(cat, counts), "error"
	}
	return res
}

func countsNotice(cat *i18n.Catalog, c Counts) string {
	var msgs []string
	if c.Added > 0 {
		msgs = append(msgs, cat.T("Added: %d.", c.Added))
	}
	if c.APIErrors > 0 {
		msgs = append(msgs, cat.T("Error from DeepSeek: %d.", c.APIErrors))
	}
	if c.InsertErrors > 0 {
		msgs = append(msgs, cat.T("Error adding: %d.", c.InsertErrors))
	}
	if c.Skipped > 0 {
		msgs = append(msgs, cat.T("Skipped: %d.", c.Skipped))
	}
	return strings.Join(msgs, " ")
}

// errorNotice renders request-level failures in the editor's words.
func errorNotice(cat *i18n.Catalog, locale string, err error) string {
	switch apierr.KindOf(err) {
	case apierr.KindEmptyBatch:
		return cat.T("No strings found to translate.")
	case apierr.KindUnsupportedLocale:
		return cat.T("The locale %s isn't supported by DeepSeek.", locale)
	case apierr.KindMissingAPIKey:
		return cat.T("DeepSeek API key is not configured.")
	case apierr.KindLocaleNotFound:
		return cat.T("Locale not found in GlotPress!")
	}
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Message != "" && ae.Kind != apierr.KindBatchTooLarge {
		return ae.Message
	}
	return err.Error()
}

func recordCounts(c Counts) {
	metrics.BulkResultsTotal.WithLabelValues("added").Add(float64(c.Added))
	metrics.BulkResultsTotal.WithLabelValues("api_error").Add(float64(c.APIErrors))
	metrics.BulkResultsTotal.WithLabelValues("insert_error").Add(float64(c.InsertErrors))
	metrics.BulkResultsTotal.WithLabelValues("skipped").Add(float64(c.Skipped))
}
