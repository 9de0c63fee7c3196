package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 10*time.Second, policy.NextDelay(10), "clamped at max delay")
	assert.Equal(t, time.Second, policy.NextDelay(0), "attempt floored at 1")
}

func TestRetryPolicyDefaults(t *testing.T) {
	var policy RetryPolicy
	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
}

type recordingStore struct {
	mu       sync.Mutex
	calls    []int64
	failures int
}

func (s *recordingStore) RecomputeSpotRating(_ context.Context, spotID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, spotID)
	if s.failures > 0 {
		s.failures--
		return errors.New("transient")
	}
	return nil
}

func (s *recordingStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestRatingsWorkerProcessesQueue(t *testing.T) {
	store := &recordingStore{}
	logger := zerolog.Nop()
	w := NewRatingsWorker(store, RetryPolicy{InitialDelay: time.Millisecond}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Enqueue(7)
	w.Enqueue(8)

	assert.Eventually(t, func() bool {
		return store.callCount() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRatingsWorkerRetries(t *testing.T) {
	store := &recordingStore{failures: 1}
	logger := zerolog.Nop()
	w := NewRatingsWorker(store, RetryPolicy{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
	}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Enqueue(7)

	assert.Eventually(t, func() bool {
		return store.callCount() == 2
	}, time.Second, 5*time.Millisecond, "one failure plus one successful retry")
}

func TestRatingsWorkerEnqueueNeverBlocks(t *testing.T) {
	store := &recordingStore{}
	logger := zerolog.Nop()
	w := NewRatingsWorker(store, RetryPolicy{}, &logger)

	// No consumer running; fill well past the buffer without blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 2000; i++ {
			w.Enqueue(int64(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}
