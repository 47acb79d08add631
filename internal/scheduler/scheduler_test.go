package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int64
	err     error
}

func (m *mockPruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.removed, m.err
}

func (m *mockPruner) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSchedulerDefaults(t *testing.T) {
	s, err := NewScheduler(&mockPruner{}, Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRetention, s.retention)
	assert.Equal(t, defaultTick, s.tick)
	assert.True(t, s.NextRun().IsZero())
}

func TestNewSchedulerInvalidCron(t *testing.T) {
	_, err := NewScheduler(&mockPruner{}, Config{Schedule: "every hour"}, quietLogger())
	assert.Error(t, err)
}

func TestCalculateNextRun(t *testing.T) {
	from := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)

	tests := []struct {
		expr string
		want time.Time
	}{
		{"0 * * * *", time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)},
		{"30 3 * * *", time.Date(2026, 3, 2, 3, 30, 0, 0, time.UTC)},
		{"*/5 * * * *", time.Date(2026, 3, 1, 10, 20, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := CalculateNextRun(tc.expr, from)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := CalculateNextRun("bad", from)
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	p := &mockPruner{removed: 3}
	s, err := NewScheduler(p, Config{Retention: 24 * time.Hour}, quietLogger())
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.Len(t, p.cutoffs, 1)
	assert.Equal(t, now.Add(-24*time.Hour), p.cutoffs[0])
	assert.Equal(t, time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC), s.NextRun())
}

type vacuumingPruner struct {
	mockPruner
	vacuums   int
	vacuumErr error
}

func (v *vacuumingPruner) Vacuum(context.Context) error {
	v.vacuums++
	return v.vacuumErr
}

func TestRunOnceVacuumsAfterPrune(t *testing.T) {
	p := &vacuumingPruner{}
	s, err := NewScheduler(p, Config{}, quietLogger())
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, p.vacuums, "nothing removed, nothing to reclaim")

	p.removed = 5
	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, 1, p.vacuums)

	p.vacuumErr = errors.New("locked")
	n, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, 2, p.vacuums)
}

func TestRunOnceError(t *testing.T) {
	p := &mockPruner{err: errors.New("disk full")}
	s, err := NewScheduler(p, Config{}, quietLogger())
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	assert.EqualError(t, err, "disk full")
}

func TestStartRunsWhenDue(t *testing.T) {
	p := &mockPruner{}
	s, err := NewScheduler(p, Config{Schedule: "* * * * *", Tick: 5 * time.Millisecond}, quietLogger())
	require.NoError(t, err)

	var mu sync.Mutex
	now := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, p.calls(), "nothing is due before the first scheduled minute")

	mu.Lock()
	now = now.Add(time.Minute)
	mu.Unlock()

	assert.Eventually(t, func() bool { return p.calls() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, p.calls(), "next run advanced past the current time")
}

func TestStartTwice(t *testing.T) {
	s, err := NewScheduler(&mockPruner{}, Config{}, quietLogger())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestStopOnContextCancel(t *testing.T) {
	s, err := NewScheduler(&mockPruner{}, Config{Tick: time.Millisecond}, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	done := make(chan struct{})
	go func() {
		_ = s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
