package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/config"
	"gp-deepseek-translate/internal/llm"
	"gp-deepseek-translate/internal/llm/llmtest"
	"gp-deepseek-translate/internal/locales"
)

var testSettings = config.Settings{
	APIKey:       "sk-test",
	Model:        config.ModelChat,
	Temperature:  0.3,
	CustomPrompt: "Be formal.",
}

type countingPacer struct {
	waits atomic.Int32
}

func (p *countingPacer) WaitBetweenChunks(context.Context) error {
	p.waits.Add(1)
	return nil
}

func newTestClient(t *testing.T, fake *llmtest.Fake, settings config.Settings, pacer Pacer) *Client {
	t.Helper()
	if pacer == nil {
		pacer = NoopPacer{}
	}
	return NewClient(fake, settings, Options{
		Logger:   zaptest.NewLogger(t),
		Pacer:    pacer,
		Throttle: rate.NewLimiter(rate.Inf, 1),
	})
}

func makeStrings(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("s%d", i)
	}
	return out
}

func TestTranslateOne(t *testing.T) {
	fake := &llmtest.Fake{Respond: func(req *llm.ChatRequest) (string, error) {
		return "Bonjour % s", nil
	}}
	c := newTestClient(t, fake, testSettings, nil)

	got, err := c.TranslateOne(context.Background(), "Hello %s", "fr")
	require.NoError(t, err)
	// the single-string path does not clean placeholders
	assert.Equal(t, "Bonjour % s", got)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, "Be formal. Translate the following text to French (France) language: Hello %s", llmtest.Prompt(req))
	assert.Equal(t, config.ModelChat, req.Model)
	assert.Equal(t, 0.3, req.Temperature)
	assert.Equal(t, SingleMaxTokens, req.MaxTokens)
	assert.Equal(t, SingleTimeout, req.Timeout)
	assert.Equal(t, "sk-test", req.APIKey)
	assert.Zero(t, req.FrequencyPenalty)
	assert.Zero(t, req.PresencePenalty)
}

func TestTranslateOneErrors(t *testing.T) {
	noKey := testSettings
	noKey.APIKey = ""

	tests := []struct {
		name     string
		settings config.Settings
		locale   string
		resolver locales.Resolver
		respond  func(*llm.ChatRequest) (string, error)
		wantKind apierr.Kind
		wantCall bool
	}{
		{name: "unsupported locale", settings: testSettings, locale: "xx", wantKind: apierr.KindUnsupportedLocale},
		{name: "missing api key", settings: noKey, locale: "fr", wantKind: apierr.KindMissingAPIKey},
		{name: "locale not found", settings: testSettings, locale: "fr", resolver: locales.NewRegistry(nil), wantKind: apierr.KindLocaleNotFound},
		{
			name: "empty translation", settings: testSettings, locale: "fr", wantCall: true,
			respond:  func(*llm.ChatRequest) (string, error) { return "  \n", nil },
			wantKind: apierr.KindEmptyTranslation,
		},
		{
			name: "upstream error passes through", settings: testSettings, locale: "fr", wantCall: true,
			respond:  func(*llm.ChatRequest) (string, error) { return "", apierr.HTTPStatus(500, "boom") },
			wantKind: apierr.KindHTTPStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			respond := tt.respond
			if respond == nil {
				respond = llmtest.Translator("T:")
			}
			fake := &llmtest.Fake{Respond: respond}
			c := NewClient(fake, tt.settings, Options{Locales: tt.resolver, Pacer: NoopPacer{}})

			_, err := c.TranslateOne(context.Background(), "Hello", tt.locale)
			assert.Equal(t, tt.wantKind, apierr.KindOf(err))
			assert.Equal(t, tt.wantCall, fake.Calls() > 0)
		})
	}
}

func TestTranslateChunk(t *testing.T) {
	fake := &llmtest.Fake{Respond: func(req *llm.ChatRequest) (string, error) {
		return "1. Bonjour % s\n2) Au revoir % 1 $ S\n", nil
	}}
	c := newTestClient(t, fake, testSettings, nil)

	got, err := c.TranslateChunk(context.Background(), []string{"Hello %s", "Goodbye %1$s"}, "fr")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour %s", "Au revoir %1$s"}, got)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t,
		"Be formal.\n\nTranslate the following numbered texts to French (France) language. Keep the numbers and format:\n\n"+
			"1. Hello %s\n2. Goodbye %1$s\n\nProvide translations in the same numbered format.",
		llmtest.Prompt(reqs[0]),
	)
	assert.Equal(t, ChunkMaxTokens, reqs[0].MaxTokens)
	assert.Equal(t, ChunkTimeout, reqs[0].Timeout)
}

func TestTranslateChunkFallbackOnCountMismatch(t *testing.T) {
	fake := &llmtest.Fake{Respond: func(req *llm.ChatRequest) (string, error) {
		if llmtest.IsChunkPrompt(req) {
			// one line short
			return "1. uno", nil
		}
		src := llmtest.Sources(req)[0]
		if src == "b" {
			return "", apierr.New(apierr.KindHTTPTransport, "reset")
		}
		return "T-" + src + " % d", nil
	}}
	c := newTestClient(t, fake, testSettings, nil)

	got, err := c.TranslateChunk(context.Background(), []string{"a", "b", "c"}, "fr")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-a %d", "b", "T-c %d"}, got)
	assert.Equal(t, 4, fake.Calls(), "one chunk call plus one call per string")
}

func TestTranslateChunkFallbackAdversarialAnswers(t *testing.T) {
	answers := []string{
		"",
		"Here you go!",
		"1. one\n2. two\n3. three\n4. four",
		"1. one\n   continued on another line",
	}

	for _, answer := range answers {
		t.Run(answer, func(t *testing.T) {
			fake := &llmtest.Fake{Respond: func(req *llm.ChatRequest) (string, error) {
				if llmtest.IsChunkPrompt(req) {
					return answer, nil
				}
				return llmtest.Translator("F:")(req)
			}}
			c := newTestClient(t, fake, testSettings, nil)

			got, err := c.TranslateChunk(context.Background(), []string{"x", "y"}, "de")
			require.NoError(t, err)
			assert.Equal(t, []string{"F:x", "F:y"}, got)
		})
	}
}

func TestTranslateChunkReorderedNumbersStillAlign(t *testing.T) {
	fake := &llmtest.Fake{Respond: func(req *llm.ChatRequest) (string, error) {
		return "5. first\n5. second\n1: third", nil
	}}
	c := newTestClient(t, fake, testSettings, nil)

	got, err := c.TranslateChunk(context.Background(), []string{"a", "b", "c"}, "de")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, got)
	assert.Equal(t, 1, fake.Calls())
}

func TestTranslateChunkErrors(t *testing.T) {
	noKey := testSettings
	noKey.APIKey = ""

	t.Run("missing key", func(t *testing.T) {
		fake := &llmtest.Fake{Respond: llmtest.Translator("T:")}
		c := newTestClient(t, fake, noKey, nil)
		_, err := c.TranslateChunk(context.Background(), []string{"a"}, "fr")
		assert.True(t, errors.Is(err, &apierr.Error{Kind: apierr.KindMissingAPIKey}))
		assert.Zero(t, fake.Calls())
	})

	t.Run("locale not found", func(t *testing.T) {
		fake := &llmtest.Fake{Respond: llmtest.Translator("T:")}
		c := NewClient(fake, testSettings, Options{Locales: locales.NewRegistry(nil)})
		_, err := c.TranslateChunk(context.Background(), []string{"a"}, "fr")
		assert.Equal(t, apierr.KindLocaleNotFound, apierr.KindOf(err))
	})

	t.Run("api error is returned, not absorbed", func(t *testing.T) {
		fake := &llmtest.Fake{Respond: func(*llm.ChatRequest) (string, error) {
			return "", apierr.API("invalid_request", "bad")
		}}
		c := newTestClient(t, fake, testSettings, nil)
		_, err := c.TranslateChunk(context.Background(), []string{"a", "b"}, "fr")
		assert.Equal(t, apierr.KindAPI, apierr.KindOf(err))
		assert.Equal(t, 1, fake.Calls())
	})
}

func TestFixedPacer(t *testing.T) {
	require.NoError(t, FixedPacer{}.WaitBetweenChunks(context.Background()))

	start := time.Now()
	require.NoError(t, FixedPacer{Delay: 20 * time.Millisecond}.WaitBetweenChunks(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := FixedPacer{Delay: time.Hour}.WaitBetweenChunks(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptsUseCustomPromptVerbatim(t *testing.T) {
	assert.Equal(t, " Translate the following text to German language: Hi", singlePrompt("", "German", "Hi"))
	assert.True(t, strings.HasPrefix(chunkPrompt("", "German", []string{"Hi"}), "\n\nTranslate the following numbered texts to German language."))
}
