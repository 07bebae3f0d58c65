package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobPeriodically(t *testing.T) {
	s, err := NewScheduler(1, nil)
	require.NoError(t, err)

	var runs atomic.Int32
	s.Add(Job{Name: "count", Interval: 10 * time.Millisecond, RunOnStart: true, Run: func(ctx context.Context) error {
		assert.NotNil(t, middleware.GetLoggerFromCtx(ctx))
		runs.Add(1)
		return nil
	}})
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "job ran after Stop")
}

func TestScheduler_DisabledJob(t *testing.T) {
	s, err := NewScheduler(1, nil)
	require.NoError(t, err)

	var runs atomic.Int32
	s.Add(Job{Name: "off", Interval: 0, RunOnStart: true, Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}})
	s.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	assert.Zero(t, runs.Load())
}

func TestScheduler_BusyPoolSkipsTick(t *testing.T) {
	s, err := NewScheduler(1, nil)
	require.NoError(t, err)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, s.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	assert.ErrorIs(t, s.Submit(func() {}), ants.ErrPoolOverload)
	close(release)
	s.Stop()
}

func TestScheduler_FailingJobKeepsRunning(t *testing.T) {
	s, err := NewScheduler(1, nil)
	require.NoError(t, err)

	var runs atomic.Int32
	s.Add(Job{Name: "fail", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}})
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()
}
