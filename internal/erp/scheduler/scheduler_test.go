package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	mock.Mock
	calls atomic.Int32
}

func (m *mockRunner) RunDue(ctx context.Context) (bool, error) {
	m.calls.Add(1)
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func TestSchedulerRunsUntilCancelled(t *testing.T) {
	runner := &mockRunner{}
	runner.On("RunDue", mock.Anything).Return(false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(runner, 20*time.Millisecond, nil).Run(ctx) }()

	require.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestTickSurvivesErrors(t *testing.T) {
	runner := &mockRunner{}
	runner.On("RunDue", mock.Anything).Return(false, errors.New("db down")).Once()
	runner.On("RunDue", mock.Anything).Return(true, nil).Once()

	s := New(runner, 0, nil)
	assert.Equal(t, defaultInterval, s.interval)

	ctx := context.Background()
	assert.NotPanics(t, func() { s.tick(ctx) })
	assert.NotPanics(t, func() { s.tick(ctx) })
	runner.AssertNumberOfCalls(t, "RunDue", 2)
}
