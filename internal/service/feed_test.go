package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"apevault/internal/dto"
	"apevault/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCallRepo struct {
	mu      sync.Mutex
	calls   []model.Call
	err     error
	gate    chan struct{}
	fetches int
}

func (f *fakeCallRepo) FetchCalls(ctx context.Context, criteria dto.FilterCriteria) ([]model.Call, error) {
	f.mu.Lock()
	f.fetches++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.calls, nil
}

func TestFeedService_FetchCalls(t *testing.T) {
	want := []model.Call{
		{ID: "a", Status: model.CallStatusActive, CreatedAt: time.Now()},
	}
	svc := NewFeedService(testLogger(), &fakeCallRepo{calls: want})

	got, err := svc.FetchCalls(context.Background(), dto.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFeedService_FetchCallsErrorIsNotMaskedAsEmpty(t *testing.T) {
	svc := NewFeedService(testLogger(), &fakeCallRepo{err: errors.New("backend down")})

	got, err := svc.FetchCalls(context.Background(), dto.FilterCriteria{})
	require.Error(t, err)
	assert.Nil(t, got)
}

func TestFeedStream_DiscardsStaleResponse(t *testing.T) {
	gate := make(chan struct{})
	repo := &fakeCallRepo{
		calls: []model.Call{{ID: "slow"}},
		gate:  gate,
	}
	stream := NewFeedStream(NewFeedService(testLogger(), repo))

	// First fetch blocks on the gate while a second, newer fetch completes.
	type result struct {
		calls []model.Call
		err   error
	}
	firstDone := make(chan result, 1)
	go func() {
		calls, err := stream.Fetch(context.Background(), dto.FilterCriteria{Network: model.NetworkSolana})
		firstDone <- result{calls, err}
	}()

	// Wait until the first fetch is parked on the gate.
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.fetches == 1
	}, time.Second, 5*time.Millisecond)

	repo.mu.Lock()
	repo.gate = nil
	repo.mu.Unlock()

	calls, err := stream.Fetch(context.Background(), dto.FilterCriteria{Network: model.NetworkBSC})
	require.NoError(t, err)
	assert.Len(t, calls, 1)

	close(gate)
	first := <-firstDone
	assert.ErrorIs(t, first.err, ErrStaleResult)
	assert.Nil(t, first.calls)
}

func TestFeedStream_SequentialFetchesAllDeliver(t *testing.T) {
	repo := &fakeCallRepo{calls: []model.Call{{ID: "a"}}}
	stream := NewFeedStream(NewFeedService(testLogger(), repo))

	for i := 0; i < 3; i++ {
		calls, err := stream.Fetch(context.Background(), dto.FilterCriteria{})
		require.NoError(t, err)
		assert.Len(t, calls, 1)
	}
}
