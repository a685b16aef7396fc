package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"orbit-hr-backend/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls int
	res   *usecase.SweepResult
	err   error
}

func (f *fakeSweeper) AutoClockOut(ctx context.Context) (*usecase.SweepResult, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("sweep must run with a deadline")
	}
	return f.res, f.err
}

func TestRunLogsUpdatedCount(t *testing.T) {
	var buf bytes.Buffer
	sw := &fakeSweeper{res: &usecase.SweepResult{Message: "Auto clock-out completed", UpdatedCount: 3}}
	s := New(sw, "0 0 18 * * 1-5", time.UTC, zerolog.New(&buf))

	s.Run(context.Background())

	assert.Equal(t, 1, sw.calls)
	assert.Contains(t, buf.String(), `"updated_count":3`)
	assert.Contains(t, buf.String(), "Auto clock-out completed")
}

func TestRunLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	sw := &fakeSweeper{err: errors.New("db down")}
	s := New(sw, "0 0 18 * * 1-5", time.UTC, zerolog.New(&buf))

	s.Run(context.Background())

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "db down")
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(&fakeSweeper{}, "every evening", time.UTC, zerolog.Nop())
	require.Error(t, s.Start())
}

func TestStartSchedulesInLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	s := New(&fakeSweeper{}, "0 0 18 * * *", wib, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	next := s.Next().In(wib)
	assert.False(t, next.IsZero())
	assert.Equal(t, 18, next.Hour())
	assert.Equal(t, 0, next.Minute())
}
