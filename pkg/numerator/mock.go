package numerator

import (
	"context"
	"sync"
	"time"
)

// Mock is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type Mock struct {
	GetNextNumberFunc func(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
	SetNextNumberFunc func(ctx context.Context, cfg Config, period time.Time, value int64) error

	mu   sync.Mutex
	next map[string]int64
}

// GetNextNumber implements Generator. Without an override it counts
// in memory per key, formatted with the supplied config.
func (m *Mock) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if m.GetNextNumberFunc != nil {
		return m.GetNextNumberFunc(ctx, cfg, opts, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next == nil {
		m.next = make(map[string]int64)
	}
	key := buildKey(cfg, period)
	m.next[key]++
	return FormatNumber(cfg, period, m.next[key]), nil
}

// SetNextNumber implements Generator.
func (m *Mock) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	if m.SetNextNumberFunc != nil {
		return m.SetNextNumberFunc(ctx, cfg, period, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next == nil {
		m.next = make(map[string]int64)
	}
	m.next[buildKey(cfg, period)] = value
	return nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*Mock)(nil)
