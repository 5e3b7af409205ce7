package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences: every QueryRow bumps the per-key
// counter by the increment argument (1 for strict).
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values == nil {
		m.values = make(map[string]int64)
	}

	key, _ := args[0].(string)
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.values[key] += increment
	return &mockRow{val: m.values[key]}
}

func (m *mockQuerier) value(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func TestGetNextNumber_OrderFormat(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := OrderConfig("RK")
	day := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RK20260831000001" {
		t.Errorf("expected RK20260831000001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RK20260831000002" {
		t.Errorf("expected RK20260831000002, got %s", num)
	}
}

func TestGetNextNumber_DailyReset(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := OrderConfig("CK")

	day1 := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 31, 0, 1, 0, 0, time.UTC)

	// Each calendar day gets its own sequence key, so the counter
	// restarts at 1 after midnight.
	num1, err := svc.GetNextNumber(ctx, cfg, nil, day1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num2, err := svc.GetNextNumber(ctx, cfg, nil, day2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if num1 != "CK20260830000001" {
		t.Errorf("expected CK20260830000001, got %s", num1)
	}
	if num2 != "CK20260831000001" {
		t.Errorf("expected CK20260831000001, got %s", num2)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("ORD")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call allocates range 1..10 from the DB.
	num, err := svc.GetNextNumber(ctx, cfg, opts, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00001" {
		t.Errorf("expected ORD-2026-00001, got %s", num)
	}
	if got := q.value("ORD_2026"); got != 10 {
		t.Errorf("expected DB value to be 10, got %d", got)
	}

	// Second call is served from memory, DB unchanged.
	num, err = svc.GetNextNumber(ctx, cfg, opts, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00002" {
		t.Errorf("expected ORD-2026-00002, got %s", num)
	}
	if got := q.value("ORD_2026"); got != 10 {
		t.Errorf("expected DB value to stay 10, got %d", got)
	}

	// Exhaust range; next call allocates 11..20.
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, cfg, opts, now)
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00011" {
		t.Errorf("expected ORD-2026-00011, got %s", num)
	}
	if got := q.value("ORD_2026"); got != 20 {
		t.Errorf("expected DB value to be 20, got %d", got)
	}
}

func TestGetNextNumber_ConcurrentUnique(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := OrderConfig("RK")
	day := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	const workers = 20
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(ctx, cfg, nil, day)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for num := range results {
		if seen[num] {
			t.Errorf("duplicate order number generated: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d unique numbers, got %d", workers, len(seen))
	}
}

func TestParseSequence(t *testing.T) {
	cfg := OrderConfig("RK")
	if got := ParseSequence("RK20260831000042", cfg); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := ParseSequence("bad", cfg); got != -1 {
		t.Errorf("expected -1 for malformed number, got %d", got)
	}
}
