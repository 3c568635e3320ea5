package llm

import (
	"cmp"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the DeepSeek API host; the client appends
// /v1/chat/completions.
const DefaultBaseURL = "https://api.deepseek.com"

const (
	defaultUpstreamTimeout = 30 * time.Second
	defaultBaseBackoff     = 500 * time.Millisecond
	defaultConnsPerHost    = 16
	defaultUserAgent       = "gp-deepseek-translate"
)

// Config holds process-wide client settings. Key, model and sampling
// parameters travel on each ChatRequest since they differ per user.
type Config struct {
	BaseURL string
	// APIKey is used when a request carries none.
	APIKey    string
	UserAgent string

	// UpstreamTimeout applies when a request sets no Timeout of its own.
	UpstreamTimeout time.Duration
	// MaxRetries counts extra attempts on 408/429/5xx and transient network
	// errors. Zero disables retries.
	MaxRetries  int
	BaseBackoff time.Duration

	// MaxConnsPerHost bounds concurrent connections to the API host.
	MaxConnsPerHost int

	HTTPClient *http.Client
}

// Validate checks the fields WithDefaults cannot fill in.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("BaseURL: %w", err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return errors.New("BaseURL must be an http(s) URL")
	case u.Host == "":
		return errors.New("BaseURL has no host")
	case c.MaxRetries < 0:
		return errors.New("MaxRetries must not be negative")
	}
	return nil
}

// WithDefaults returns a copy of c with empty fields filled in.
func (c *Config) WithDefaults() Config {
	out := *c

	out.BaseURL = strings.TrimRight(cmp.Or(out.BaseURL, DefaultBaseURL), "/")
	out.UserAgent = cmp.Or(out.UserAgent, defaultUserAgent)

	if out.UpstreamTimeout <= 0 {
		out.UpstreamTimeout = defaultUpstreamTimeout
	}
	if out.BaseBackoff <= 0 {
		out.BaseBackoff = defaultBaseBackoff
	}
	if out.MaxConnsPerHost <= 0 {
		out.MaxConnsPerHost = defaultConnsPerHost
	}
	return out
}
