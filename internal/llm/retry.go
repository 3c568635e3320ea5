package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	maxRetryAfter = 5 * time.Minute
	maxBackoff    = time.Minute
)

type sendFunc func(ctx context.Context, body []byte) (*http.Response, error)

// doWithRetry makes up to MaxRetries+1 attempts. When attempts run out on a
// retryable status the last response is returned unread, so the caller
// classifies it like any other non-200 answer.
func (c *client) doWithRetry(ctx context.Context, body []byte, send sendFunc) (*http.Response, error) {
	attempts := max(c.cfg.MaxRetries+1, 1)

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := send(ctx, body)
		if attempt == attempts || !retryable(resp, err) {
			return resp, err
		}

		wait := parseRetryAfter(resp)
		if resp != nil {
			_ = resp.Body.Close()
		}
		if wait == 0 {
			wait = computeBackoff(c.cfg.BaseBackoff, attempt-1)
		}

		fields := []zap.Field{zap.Int("attempt", attempt), zap.Duration("wait", wait)}
		if err != nil {
			fields = append(fields, zap.Error(err))
		} else {
			fields = append(fields, zap.Int("status", resp.StatusCode))
		}
		c.logger.Debug("retrying deepseek request", fields...)

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// retryable covers 408, 429, 5xx and network failures that did not come
// from our own context.
func retryable(resp *http.Response, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		return isTransientNetError(err)
	}
	switch s := resp.StatusCode; {
	case s == http.StatusRequestTimeout, s == http.StatusTooManyRequests:
		return true
	default:
		return s >= 500 && s <= 599
	}
}

func isTransientNetError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTimeout || dnsErr.IsTemporary
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial" || opErr.Op == "read" || opErr.Op == "write"
	}
	return false
}

// parseRetryAfter reads Retry-After as seconds or an HTTP date, capped at
// maxRetryAfter. Zero means absent or unusable.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = time.Until(at)
	}
	if d <= 0 {
		return 0
	}
	return min(d, maxRetryAfter)
}

// computeBackoff is full jitter: uniform in [0, base*2^attempt), capped at
// maxBackoff.
func computeBackoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = defaultBaseBackoff
	}
	ceiling := maxBackoff
	if attempt < 16 {
		ceiling = min(base<<attempt, maxBackoff)
	}
	return rand.N(ceiling)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
