package sql

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryStats(t *testing.T) {
	stats := &QueryStats{}
	var slow []string
	db, mock := newMock(t, WithStats(stats,
		WithSlowThreshold(0),
		WithSlowQueryHook(func(_ context.Context, query string, _ Params, _ time.Duration) {
			slow = append(slow, query)
		}),
	))
	require.Same(t, stats, db.QueryStats())

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `t`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `u`").WillReturnError(assert.AnError)

	_, err := db.GetAll(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	_, err = db.DeleteFrom(context.Background(), "t", nil)
	require.NoError(t, err)
	_, err = db.DeleteFrom(context.Background(), "u", nil)
	require.Error(t, err)

	s := stats.Stats()
	assert.Equal(t, int64(1), s.TotalQueries)
	assert.Equal(t, int64(2), s.TotalExecs)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, int64(3), s.SlowQueries)
	assert.Len(t, slow, 3)
	assert.Contains(t, s.String(), "queries=1 execs=2")

	stats.Reset()
	assert.Zero(t, stats.Stats().TotalQueries)
	assert.Zero(t, stats.Stats().AvgQueryDuration())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryStatsDisabled(t *testing.T) {
	db, _ := newMock(t)
	assert.Nil(t, db.QueryStats())
	db.SetSlowThreshold(time.Second)
}

func TestSetSlowThreshold(t *testing.T) {
	db, mock := newMock(t, WithStats(nil))
	db.SetSlowThreshold(time.Hour)
	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err := db.Exec(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Zero(t, db.QueryStats().Stats().SlowQueries)
	assert.Equal(t, int64(1), db.QueryStats().Stats().TotalExecs)
}

func TestSlowQueryLog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	db, mock := newMock(t, WithLogger(log), WithStats(nil, WithSlowThreshold(0), WithSlowQueryLog()))

	mock.ExpectExec("DELETE FROM `t`").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err := db.DeleteFrom(context.Background(), "t", nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="slow query detected"`)
	assert.Contains(t, buf.String(), "DELETE FROM `t`")
	assert.Equal(t, int64(1), db.QueryStats().Stats().SlowQueries)
}
