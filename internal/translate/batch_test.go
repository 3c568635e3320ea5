package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/config"
	"gp-deepseek-translate/internal/llm"
	"gp-deepseek-translate/internal/llm/llmtest"
	"gp-deepseek-translate/internal/locales"
)

func TestTranslateBatchValidation(t *testing.T) {
	tests := []struct {
		name     string
		settings config.Settings
		locale   string
		texts    []string
		wantKind apierr.Kind
	}{
		{name: "unsupported locale", settings: testSettings, locale: "eo", texts: makeStrings(1), wantKind: apierr.KindUnsupportedLocale},
		{name: "empty", settings: testSettings, locale: "fr", texts: nil, wantKind: apierr.KindEmptyBatch},
		{name: "too many", settings: testSettings, locale: "fr", texts: makeStrings(101), wantKind: apierr.KindBatchTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &llmtest.Fake{Respond: llmtest.Translator("T:")}
			c := newTestClient(t, fake, tt.settings, nil)

			got, err := c.TranslateBatch(context.Background(), tt.locale, tt.texts)
			assert.Nil(t, got)
			assert.Equal(t, tt.wantKind, apierr.KindOf(err))
			assert.Zero(t, fake.Calls(), "no request may be sent for an invalid batch")
		})
	}
}

func TestTranslateBatchTooLargeMessage(t *testing.T) {
	c := newTestClient(t, &llmtest.Fake{Respond: llmtest.Translator("T:")}, testSettings, nil)

	_, err := c.TranslateBatch(context.Background(), "fr", makeStrings(101))
	require.Error(t, err)
	assert.Equal(t, "deepseek: maximum 100 strings allowed per batch, got 101", err.Error())
}

func TestTranslateBatchAcceptsExactlyMax(t *testing.T) {
	pacer := &countingPacer{}
	fake := &llmtest.Fake{Respond: llmtest.Translator("T:")}
	c := newTestClient(t, fake, testSettings, pacer)

	got, err := c.TranslateBatch(context.Background(), "fr", makeStrings(100))
	require.NoError(t, err)
	assert.Len(t, got, 100)
	assert.Equal(t, 5, fake.Calls())
	assert.Equal(t, int32(4), pacer.waits.Load())
}

func TestTranslateBatchSmallUsesOneChunk(t *testing.T) {
	pacer := &countingPacer{}
	fake := &llmtest.Fake{Respond: llmtest.Translator("T:")}
	c := newTestClient(t, fake, testSettings, pacer)

	got, err := c.TranslateBatch(context.Background(), "zh-cn", makeStrings(20))
	require.NoError(t, err)
	assert.Len(t, got, 20)
	assert.Equal(t, "T:s0", got[0])
	assert.Equal(t, "T:s19", got[19])
	assert.Equal(t, 1, fake.Calls())
	assert.Zero(t, pacer.waits.Load())
}

func TestTranslateBatchTwentyOneStrings(t *testing.T) {
	pacer := &countingPacer{}
	fake := &llmtest.Fake{Respond: llmtest.Translator("T:")}
	c := newTestClient(t, fake, testSettings, pacer)

	texts := makeStrings(21)
	got, err := c.TranslateBatch(context.Background(), "fr", texts)
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 2)
	assert.Len(t, llmtest.Sources(reqs[0]), 20)
	assert.Equal(t, []string{"s20"}, llmtest.Sources(reqs[1]))
	assert.Equal(t, int32(1), pacer.waits.Load())

	require.Len(t, got, len(texts))
	for i, s := range texts {
		assert.Equal(t, "T:"+s, got[i])
	}
}

func TestTranslateBatchChunkFailureIsolation(t *testing.T) {
	fake := &llmtest.Fake{Respond: func(req *llm.ChatRequest) (string, error) {
		if llmtest.Sources(req)[0] == "s20" {
			return "", apierr.Wrap(apierr.KindHTTPTransport, "request failed", context.DeadlineExceeded)
		}
		return llmtest.Translator("T:")(req)
	}}
	c := newTestClient(t, fake, testSettings, &countingPacer{})

	texts := makeStrings(60)
	res, err := c.Translate(context.Background(), "fr", texts)
	require.NoError(t, err)

	require.Len(t, res.Translations, 60)
	for i := 0; i < 60; i++ {
		want := "T:" + texts[i]
		if i >= 20 && i < 40 {
			want = texts[i]
		}
		assert.Equal(t, want, res.Translations[i], "index %d", i)
	}
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, 1, res.FailedChunks)
	assert.Zero(t, res.FallbackChunks)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, 3, fake.Calls(), "a failed chunk is not retried string by string")
}

func TestTranslateBatchSingleChunkFailureIsAbsorbed(t *testing.T) {
	fake := &llmtest.Fake{Respond: func(*llm.ChatRequest) (string, error) {
		return "", apierr.HTTPStatus(503, "busy")
	}}
	c := newTestClient(t, fake, testSettings, nil)

	texts := makeStrings(5)
	got, err := c.TranslateBatch(context.Background(), "fr", texts)
	require.NoError(t, err)
	assert.Equal(t, texts, got)
}

func TestTranslateBatchFallbackKeepsAlignment(t *testing.T) {
	fake := &llmtest.Fake{Respond: func(req *llm.ChatRequest) (string, error) {
		if llmtest.IsChunkPrompt(req) {
			return "1. only one line", nil
		}
		if llmtest.Sources(req)[0] == "s2" {
			return "", apierr.New(apierr.KindEmptyTranslation, "empty")
		}
		return llmtest.Translator("F:")(req)
	}}
	c := newTestClient(t, fake, testSettings, nil)

	res, err := c.Translate(context.Background(), "fr", makeStrings(4))
	require.NoError(t, err)
	assert.Equal(t, []string{"F:s0", "F:s1", "s2", "F:s3"}, res.Translations)
	assert.Equal(t, 1, res.FallbackChunks)
}

func TestTranslateBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fake := &llmtest.Fake{Respond: func(req *llm.ChatRequest) (string, error) {
		cancel()
		return llmtest.Translator("T:")(req)
	}}
	c := newTestClient(t, fake, testSettings, FixedPacer{Delay: 0})

	_, err := c.TranslateBatch(ctx, "fr", makeStrings(45))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.Calls())
}

func TestFactoryForUser(t *testing.T) {
	f := config.Default()
	f.DeepSeek.APIKey = "site"
	temp := 1.0
	f.Users = map[string]config.Profile{
		"42": {APIKey: "user-key", Model: config.ModelReasoner, Temperature: &temp},
	}

	fake := &llmtest.Fake{Respond: llmtest.Translator("T:")}
	factory := NewFactory(fake, config.NewHolder(f), zap.NewNop())
	factory.Pacer = NoopPacer{}

	_, err := factory.ForUser("42").TranslateOne(context.Background(), "Hi", "de")
	require.NoError(t, err)
	_, err = factory.ForUser("").TranslateOne(context.Background(), "Hi", "de")
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "user-key", reqs[0].APIKey)
	assert.Equal(t, config.ModelReasoner, reqs[0].Model)
	assert.Equal(t, 1.0, reqs[0].Temperature)
	assert.Equal(t, "site", reqs[1].APIKey)
	assert.Equal(t, config.ModelChat, reqs[1].Model)
}

func TestTranslateBatchChunkLevelFailuresKeepSources(t *testing.T) {
	noKey := testSettings
	noKey.APIKey = ""

	tests := []struct {
		name     string
		settings config.Settings
		resolver locales.Resolver
		n        int
	}{
		{name: "missing key over one chunk", settings: noKey, n: 21},
		{name: "missing key single chunk", settings: noKey, n: 5},
		{name: "locale without english name", settings: testSettings, resolver: locales.NewRegistry(nil), n: 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &llmtest.Fake{Respond: llmtest.Translator("T:")}
			c := NewClient(fake, tt.settings, Options{
				Logger:  zap.NewNop(),
				Pacer:   NoopPacer{},
				Locales: tt.resolver,
			})

			texts := makeStrings(tt.n)
			res, err := c.Translate(context.Background(), "fr", texts)
			require.NoError(t, err)
			assert.Equal(t, texts, res.Translations)
			assert.Equal(t, res.Chunks, res.FailedChunks)
			assert.Zero(t, fake.Calls())
		})
	}
}
