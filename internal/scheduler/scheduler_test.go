package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	var runs atomic.Int32
	s := New(zap.NewNop())
	s.Add(Task{
		Name:     "orders",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopCancelsRuns(t *testing.T) {
	started := make(chan struct{})
	var cancelled atomic.Bool

	s := New(zap.NewNop())
	s.Add(Task{
		Name:     "slow",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		},
	})

	require.NoError(t, s.Start(context.Background()))
	<-started
	s.Stop()

	assert.True(t, cancelled.Load())
}

func TestScheduler_TimeoutPerRun(t *testing.T) {
	errs := make(chan error, 1)

	s := New(zap.NewNop())
	s.Add(Task{
		Name:     "timeout",
		Interval: time.Hour,
		Timeout:  20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			select {
			case errs <- ctx.Err():
			default:
			}
			return ctx.Err()
		},
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case err := <-errs:
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	case <-time.After(time.Second):
		t.Fatal("la tarea no expiró")
	}
}

func TestScheduler_ErrorsDoNotStopLoop(t *testing.T) {
	var runs atomic.Int32
	s := New(zap.NewNop())
	s.Add(Task{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("backend caído")
		},
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StartTwice(t *testing.T) {
	s := New(zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NotPanics(t, New(zap.NewNop()).Stop)
}
