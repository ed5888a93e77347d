package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// TotalQueries is the number of row-returning statements run.
	TotalQueries atomic.Int64
	// TotalExecs is the number of non-row statements run.
	TotalExecs atomic.Int64
	// TotalDuration is the time spent running statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is called when a statement exceeds the slow threshold.
type SlowQueryHook func(ctx context.Context, query string, params Params, duration time.Duration)

// StatsOption configures statistics collection on a DB.
type StatsOption func(*recorder)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(r *recorder) {
		r.threshold = d
	}
}

// WithSlowQueryHook sets a callback for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(r *recorder) {
		r.hook = hook
	}
}

// WithSlowQueryLog logs slow statements at warn level to the logger set
// with WithLogger. It can be combined with WithSlowQueryHook.
func WithSlowQueryLog() StatsOption {
	return func(r *recorder) {
		r.logSlow = true
	}
}

// recorder feeds a QueryStats from the executor.
type recorder struct {
	stats     *QueryStats
	mu        sync.RWMutex
	threshold time.Duration
	hook      SlowQueryHook
	logSlow   bool
	log       *slog.Logger
}

func newRecorder(stats *QueryStats, log *slog.Logger, opts ...StatsOption) *recorder {
	if stats == nil {
		stats = &QueryStats{}
	}
	if log == nil {
		log = slog.Default()
	}
	r := &recorder{stats: stats, log: log, threshold: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *recorder) record(ctx context.Context, query string, params Params, start time.Time, err error, isQuery bool) {
	if r == nil {
		return
	}
	duration := time.Since(start)
	if isQuery {
		r.stats.TotalQueries.Add(1)
	} else {
		r.stats.TotalExecs.Add(1)
	}
	r.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		r.stats.Errors.Add(1)
	}

	r.mu.RLock()
	threshold, hook := r.threshold, r.hook
	r.mu.RUnlock()

	if duration > threshold {
		r.stats.SlowQueries.Add(1)
		if r.logSlow {
			r.log.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "params", len(params))
		}
		if hook != nil {
			hook(ctx, query, params, duration)
		}
	}
}

// QueryStats returns the statistics of d, or nil when stats were not enabled
// with WithStats.
func (d *DB) QueryStats() *QueryStats {
	if d.rec == nil {
		return nil
	}
	return d.rec.stats
}

// SetSlowThreshold updates the slow statement threshold. It is a no-op when
// stats are disabled.
func (d *DB) SetSlowThreshold(threshold time.Duration) {
	if d.rec == nil {
		return
	}
	d.rec.mu.Lock()
	defer d.rec.mu.Unlock()
	d.rec.threshold = threshold
}
