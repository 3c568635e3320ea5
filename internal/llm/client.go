package llm

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient returns a DeepSeek client. It is safe for concurrent use and
// holds no per-request state, so one instance serves every user.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: newTransport(cfg.MaxConnsPerHost)}
	}

	return &client{
		cfg:        cfg,
		httpClient: hc,
		logger:     logger.Named("deepseek"),
	}, nil
}

// newTransport talks to a single host, so idle and active limits are the
// same number. Deadlines come from the request context.
func newTransport(conns int) *http.Transport {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		ForceAttemptHTTP2:   true,
		MaxConnsPerHost:     conns,
		MaxIdleConnsPerHost: conns,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// Close drops idle connections.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
