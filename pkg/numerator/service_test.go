package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "orderflow/internal/core/numerator"
)

type mockRow struct {
	scanFn func(dest ...any) error
}

func (r *mockRow) Scan(dest ...any) error {
	return r.scanFn(dest...)
}

// mockQuerier keeps an in-memory counter per key and mimics the
// UPSERT ... RETURNING behaviour of sys_sequences.
type mockQuerier struct {
	counters map[string]int64
	calls    int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (q *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.calls++
	key := args[0].(string)
	increment := int64(1)
	if len(args) > 1 {
		increment = args[1].(int64)
	}
	q.counters[key] += increment
	val := q.counters[key]
	return &mockRow{scanFn: func(dest ...any) error {
		*dest[0].(*int64) = val
		return nil
	}}
}

func TestGetNextNumber_CompactFormat(t *testing.T) {
	svc := New(newMockQuerier())
	period := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.GetNextNumber(context.Background(), core.CompactConfig("QUO", 3), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "QUO001", got)

	got, err = svc.GetNextNumber(context.Background(), core.CompactConfig("QUO", 3), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "QUO002", got)
}

func TestGetNextNumber_SeparatedFormat(t *testing.T) {
	svc := New(newMockQuerier())
	period := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.GetNextNumber(context.Background(), core.DefaultConfig("INV"), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", got)
}

func TestGetNextNumber_DatedFormat(t *testing.T) {
	svc := New(newMockQuerier())
	period := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.GetNextNumber(context.Background(), core.DatedConfig("PO", 3), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "PO-20240101-001", got)

	got, err = svc.GetNextNumber(context.Background(), core.DatedConfig("GRN", 4), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "GRN-20240101-0001", got)
}

func TestGetNextNumber_DailyResetUsesSeparateKeys(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := core.DatedConfig("PO", 3)

	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	got, err := svc.GetNextNumber(context.Background(), cfg, nil, day1)
	require.NoError(t, err)
	assert.Equal(t, "PO-20240101-001", got)

	// The counter restarts on a new day
	got, err = svc.GetNextNumber(context.Background(), cfg, nil, day2)
	require.NoError(t, err)
	assert.Equal(t, "PO-20240102-001", got)

	assert.Contains(t, q.counters, "PO_20240101")
	assert.Contains(t, q.counters, "PO_20240102")
}

func TestGetNextNumber_CachedStrategyReservesRange(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := core.DefaultConfig("DN")
	opts := &core.Options{Strategy: core.StrategyCached, RangeSize: 10}
	period := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 10; i++ {
		got, err := svc.GetNextNumber(context.Background(), cfg, opts, period)
		require.NoError(t, err)
		assert.Equal(t, formatNumber(cfg, period, int64(i)), got)
	}

	// Whole range served by a single DB round trip
	assert.Equal(t, 1, q.calls)

	// Eleventh number triggers a refill
	got, err := svc.GetNextNumber(context.Background(), cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "DN-0011", got)
	assert.Equal(t, 2, q.calls)
}

func TestSetNextNumber_InvalidatesCache(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := core.DefaultConfig("SO")
	opts := &core.Options{Strategy: core.StrategyCached, RangeSize: 5}
	period := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetNextNumber(context.Background(), cfg, opts, period)
	require.NoError(t, err)

	require.NoError(t, svc.SetNextNumber(context.Background(), cfg, period, 100))

	svc.cacheMu.Lock()
	_, cached := svc.ranges["SO"]
	svc.cacheMu.Unlock()
	assert.False(t, cached)
}

func TestBuildKey(t *testing.T) {
	period := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		reset string
		want  string
	}{
		{"never", "INV"},
		{"day", "INV_20240315"},
		{"month", "INV_2024_03"},
		{"year", "INV_2024"},
	}
	for _, tt := range tests {
		cfg := core.Config{Prefix: "INV", ResetPeriod: tt.reset}
		assert.Equal(t, tt.want, buildKey(cfg, period))
	}
}
