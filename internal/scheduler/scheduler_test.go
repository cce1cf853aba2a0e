package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPruner struct {
	mock.Mock
}

func (m *MockPruner) PruneInvocations(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every other tuesday", testLogger())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestRunOnce_ContinuesAfterFailure(t *testing.T) {
	var order []string
	s, err := NewScheduler("@hourly", testLogger(),
		Job{Name: "first", Run: func(context.Context) error {
			order = append(order, "first")
			return errors.New("boom")
		}},
		Job{Name: "second", Run: func(context.Context) error {
			order = append(order, "second")
			return nil
		}},
	)
	require.NoError(t, err)

	s.RunOnce()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestScheduler_RunsAtStartupAndOnSchedule(t *testing.T) {
	var runs atomic.Int32
	s, err := NewScheduler("@every 1s", testLogger(), Job{Name: "count", Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}})
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)

	s.Stop()
	s.Stop()
	stopped := runs.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	s, err := NewScheduler("@hourly", testLogger(), Job{Name: "slow", Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}})
	require.NoError(t, err)

	s.Start()
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not cancel the running job")
	}
}

func TestRetentionJob(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	pruner := &MockPruner{}
	pruner.On("PruneInvocations", mock.Anything, now.Add(-30*24*time.Hour)).Return(int64(4), nil).Once()
	pruner.On("PruneInvocations", mock.Anything, now.Add(-30*24*time.Hour)).Return(int64(0), errors.New("database is locked")).Once()

	job := RetentionJob(pruner, 30*24*time.Hour, testLogger(), func() time.Time { return now })
	assert.Equal(t, "invocation_retention", job.Name)

	require.NoError(t, job.Run(context.Background()))
	assert.EqualError(t, job.Run(context.Background()), "database is locked")
	pruner.AssertExpectations(t)
}

func TestRetentionJob_NilLogger(t *testing.T) {
	pruner := &MockPruner{}
	pruner.On("PruneInvocations", mock.Anything, mock.Anything).Return(int64(2), nil).Once()

	job := RetentionJob(pruner, time.Hour, nil, nil)
	assert.NotPanics(t, func() {
		assert.NoError(t, job.Run(context.Background()))
	})
	pruner.AssertExpectations(t)
}
