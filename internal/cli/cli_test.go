package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/llm"
	"gp-deepseek-translate/internal/llm/llmtest"
	"gp-deepseek-translate/internal/translate"
)

const testConfig = `
[deepseek]
api_key = "sk-abcdef123456"
custom_prompt = "Keep it short."

[users.7]
api_key = "sk-user-998877"
model = "deepseek-reasoner"
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DEEPSEEK_API_KEY", "DEEPSEEK_MODEL", "DEEPSEEK_CUSTOM_PROMPT", "DEEPSEEK_TEMPERATURE", "DEEPSEEK_BASE_URL", "PORT"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// run executes the command tree against a fake DeepSeek and returns stdout.
func run(t *testing.T, fake *llmtest.Fake, stdin string, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)

	a := &app{
		newAPI: func(llm.Config, *zap.Logger) (llm.Client, error) { return fake, nil },
		pacer:  translate.NoopPacer{},
		logger: zap.NewNop(),
	}
	root := newRootCmd(a)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestTranslateCommandSingle(t *testing.T) {
	fake := &llmtest.Fake{Respond: llmtest.Translator("fr:")}
	path := writeConfig(t, testConfig)

	out, err := run(t, fake, "", "--config", path, "translate", "--locale", "fr", "Save changes")
	require.NoError(t, err)
	assert.Equal(t, "fr:Save changes\n", out)

	require.Equal(t, 1, fake.Calls())
	req := fake.Requests()[0]
	assert.Equal(t, "sk-abcdef123456", req.APIKey)
	assert.True(t, strings.HasPrefix(llmtest.Prompt(req), "Keep it short. "))
}

func TestTranslateCommandStdin(t *testing.T) {
	fake := &llmtest.Fake{Respond: llmtest.Translator("de:")}
	path := writeConfig(t, testConfig)

	out, err := run(t, fake, "Save\n\n  Cancel  \nDelete\n", "--config", path, "translate", "-l", "de", "--user", "7")
	require.NoError(t, err)
	assert.Equal(t, "de:Save\nde:Cancel\nde:Delete\n", out)

	require.Equal(t, 1, fake.Calls())
	assert.Equal(t, "sk-user-998877", fake.Requests()[0].APIKey)
	assert.Equal(t, "deepseek-reasoner", fake.Requests()[0].Model)
}

func TestTranslateCommandJSON(t *testing.T) {
	fake := &llmtest.Fake{Respond: llmtest.Translator("es:")}
	path := writeConfig(t, testConfig)

	out, err := run(t, fake, "", "--config", path, "translate", "-l", "es", "--json", "a", "b")
	require.NoError(t, err)

	var got translateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"es:a", "es:b"}, got.Translations)
	assert.NotEmpty(t, got.BatchID)
}

func TestTranslateCommandErrors(t *testing.T) {
	fake := &llmtest.Fake{Respond: llmtest.Translator("x:")}

	_, err := run(t, fake, "", "--config", writeConfig(t, testConfig), "translate", "-l", "eo", "Hello")
	assert.ErrorIs(t, err, apierr.New(apierr.KindUnsupportedLocale, ""))

	_, err = run(t, fake, "", "--config", writeConfig(t, ""), "translate", "-l", "fr", "Hello")
	assert.ErrorIs(t, err, apierr.New(apierr.KindMissingAPIKey, ""))

	_, err = run(t, fake, "", "--config", writeConfig(t, testConfig), "translate", "Hello")
	assert.Error(t, err, "--locale is required")

	assert.Zero(t, fake.Calls())
}

func TestLocalesCommand(t *testing.T) {
	out, err := run(t, &llmtest.Fake{}, "", "locales")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Greater(t, len(lines), 50)
	assert.Contains(t, out, "French (France)")
	assert.NotContains(t, out, "Esperanto")
}

func TestDiagnoseCommand(t *testing.T) {
	fake := &llmtest.Fake{Respond: llmtest.Translator("zh:")}
	path := writeConfig(t, testConfig)

	out, err := run(t, fake, "", "--config", path, "diagnose", "--user", "7")
	require.NoError(t, err)

	assert.Contains(t, out, "Site API Key: SET (sk-abc...)")
	assert.Contains(t, out, "User 7 API Key: SET (sk-use...)")
	assert.NotContains(t, out, "sk-abcdef123456")
	assert.Contains(t, out, "Model: deepseek-reasoner")
	assert.Contains(t, out, "Custom Prompt: SET")
	assert.Contains(t, out, "zh-cn: supported (Chinese (China))")
	assert.NotContains(t, out, "API CONNECTION TEST")
	assert.Zero(t, fake.Calls())
}

func TestDiagnosePing(t *testing.T) {
	fake := &llmtest.Fake{Respond: llmtest.Translator("zh:")}
	path := writeConfig(t, testConfig)

	out, err := run(t, fake, "", "--config", path, "diagnose", "--ping")
	require.NoError(t, err)
	assert.Contains(t, out, `OK: "zh:Hello"`)
	assert.Equal(t, 1, fake.Calls())
}

func TestDiagnoseWithoutKey(t *testing.T) {
	fake := &llmtest.Fake{Respond: llmtest.Translator("zh:")}

	out, err := run(t, fake, "", "--config", filepath.Join(t.TempDir(), "missing.toml"), "diagnose", "--ping", "-l", "eo")
	require.NoError(t, err)
	assert.Contains(t, out, "not found, using defaults and environment")
	assert.Contains(t, out, "Site API Key: NOT SET")
	assert.Contains(t, out, "eo: NOT supported by DeepSeek")
	assert.Contains(t, out, "Skipped: no API key")
	assert.Zero(t, fake.Calls())
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "sk-abc...", maskKey("sk-abcdef123456"))
	assert.Equal(t, "ab...", maskKey("abcd"))
	assert.Equal(t, "...", maskKey(""))
}
