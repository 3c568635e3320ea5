package bulk

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrEmptyTranslation rejects suggestions with nothing to suggest.
var ErrEmptyTranslation = errors.New("empty translation")

// Collector is an Inserter that keeps suggestions in memory for a caller
// that persists them itself.
type Collector struct {
	mu          sync.Mutex
	suggestions []FuzzySuggestion
}

func (c *Collector) Insert(_ context.Context, s FuzzySuggestion) error {
	if strings.TrimSpace(s.Translation) == "" {
		return ErrEmptyTranslation
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suggestions = append(c.suggestions, s)
	return nil
}

// Suggestions returns the accepted suggestions in insertion order.
func (c *Collector) Suggestions() []FuzzySuggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]FuzzySuggestion(nil), c.suggestions...)
}
