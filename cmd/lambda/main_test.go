package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestNewHandlerRejectsBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[deepseek\napi_key = "), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DEEPSEEK_CONFIG", path)

	if _, err := newHandler(zap.NewNop()); err == nil {
		t.Fatalf("expected an init error for an unparsable config")
	}
}

func TestNewHandlerFromEnvironment(t *testing.T) {
	for _, k := range []string{"DEEPSEEK_API_KEY", "DEEPSEEK_MODEL", "DEEPSEEK_CUSTOM_PROMPT", "DEEPSEEK_TEMPERATURE", "DEEPSEEK_BASE_URL", "PORT"} {
		t.Setenv(k, "")
	}
	t.Setenv("DEEPSEEK_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	h, err := newHandler(zap.NewNop())
	if err != nil {
		t.Fatalf("newHandler: %v", err)
	}

	resp, err := h.HandleEvent(context.Background(), json.RawMessage(`{"locale":"eo","strings":["a"]}`))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if resp.Kind != "unsupported_locale" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
