// Package numerator provides document auto-numbering backed by Postgres
// sequences. Order numbers stay unique under concurrent creation because
// every number comes from an atomic UPSERT, never from wall-clock time.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPDATE ... RETURNING for every number.
	// Guarantees sequential numbers without gaps.
	// Suitable for warehouse order documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if application restarts.
	// Suitable for high-volume internal records.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "RK", "CK")
	Prefix string

	// PadWidth is the minimum sequence width (default 6)
	PadWidth int

	// ResetPeriod: "day", "month", "year", "never".
	// Warehouse orders reset daily so numbers read as PREFIX+date+seq.
	ResetPeriod string

	// DateLayout is the time.Format layout embedded in the number.
	// Empty means no date segment. Orders use "20060102".
	DateLayout string

	// Separator between segments. Empty produces compact numbers
	// like RK20260831000001.
	Separator string
}

// OrderConfig returns the numbering scheme for warehouse orders:
// compact prefix + yyyymmdd + zero-padded daily sequence.
func OrderConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		PadWidth:    6,
		ResetPeriod: "day",
		DateLayout:  "20060102",
	}
}

// DefaultConfig returns the classic dashed scheme (PREFIX-2026-00001).
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		PadWidth:    5,
		ResetPeriod: "year",
		DateLayout:  "2006",
		Separator:   "-",
	}
}

// Generator is the contract domain services depend on. *Service is the
// production implementation; tests use Mock.
type Generator interface {
	// GetNextNumber generates the next document number for the period.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber sets the next number value (for migration purposes).
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering functionality.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// GetNextNumber generates the next document number.
// Pattern with OrderConfig: RK20260831000001.
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	key := buildKey(cfg, period)
	var num int64
	var err error

	switch opts.Strategy {
	case StrategyCached:
		num, err = s.getNextCached(ctx, key, opts)
	case StrategyStrict:
		fallthrough
	default:
		num, err = s.getNextStrict(ctx, key)
	}

	if err != nil {
		return "", err
	}

	return FormatNumber(cfg, period, num), nil
}

// getNextStrict fetches the next number directly from DB using UPSERT + RETURNING.
func (s *Service) getNextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached fetches next number from memory, refilling from DB if needed.
func (s *Service) getNextCached(ctx context.Context, key string, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[key]
	if !exists {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// current_val tracks the last allocated number, so bumping it by
		// size reserves the range (old_val+1 .. new_val).
		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
            RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber sets the next number value (for migration purposes).
func (s *Service) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	key := buildKey(cfg, period)

	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	return err
}

// buildKey creates the sequence key based on config and period.
func buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "day":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01_02"))
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// FormatNumber creates the final number string.
func FormatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 6
	}

	if cfg.DateLayout != "" {
		return fmt.Sprintf("%s%s%s%s%0*d",
			cfg.Prefix, cfg.Separator, period.Format(cfg.DateLayout), cfg.Separator, padWidth, num)
	}
	return fmt.Sprintf("%s%s%0*d", cfg.Prefix, cfg.Separator, padWidth, num)
}

// ParseSequence extracts the trailing sequence from a formatted number.
// Returns -1 if parsing fails.
func ParseSequence(formatted string, cfg Config) int64 {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 6
	}
	if len(formatted) < padWidth {
		return -1
	}
	var num int64
	if _, err := fmt.Sscanf(formatted[len(formatted)-padWidth:], "%d", &num); err != nil {
		return -1
	}
	return num
}

// Ensure compile-time interface compliance.
var _ Generator = (*Service)(nil)
