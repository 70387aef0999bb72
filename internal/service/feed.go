package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"apevault/internal/dto"
	"apevault/internal/model"
	"apevault/internal/repository"
	"apevault/pkg/logger"
)

// ErrStaleResult is returned by a FeedStream fetch whose response arrived
// after a later fetch on the same stream already delivered.
var ErrStaleResult = errors.New("feed result superseded by a newer request")

type FeedService interface {
	FetchCalls(ctx context.Context, criteria dto.FilterCriteria) ([]model.Call, error)
}

type feedService struct {
	log       *logger.Logger
	callsRepo repository.CallRepository
}

func NewFeedService(log *logger.Logger, callsRepo repository.CallRepository) FeedService {
	return &feedService{
		log:       log,
		callsRepo: callsRepo,
	}
}

// FetchCalls runs one feed query. Failures are not retried; the caller sees
// the error rather than an empty feed.
func (s *feedService) FetchCalls(ctx context.Context, criteria dto.FilterCriteria) ([]model.Call, error) {
	calls, err := s.callsRepo.FetchCalls(ctx, criteria)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch calls",
			logger.ErrorField(err),
			logger.StringField("user_id", criteria.UserID),
			logger.StringField("network", string(criteria.Network)),
		)
		return nil, fmt.Errorf("fetch calls: %w", err)
	}

	return calls, nil
}

// FeedStream serializes the feed for a single interactive consumer that
// re-queries whenever its filter criteria change. Each fetch gets a
// monotonic sequence number; a response that loses the race to a newer one
// is discarded instead of overwriting fresher results.
type FeedStream struct {
	feed      FeedService
	seq       atomic.Int64
	delivered atomic.Int64
}

func NewFeedStream(feed FeedService) *FeedStream {
	return &FeedStream{feed: feed}
}

func (f *FeedStream) Fetch(ctx context.Context, criteria dto.FilterCriteria) ([]model.Call, error) {
	seq := f.seq.Add(1)

	calls, err := f.feed.FetchCalls(ctx, criteria)
	if err != nil {
		return nil, err
	}

	for {
		last := f.delivered.Load()
		if seq <= last {
			return nil, ErrStaleResult
		}
		if f.delivered.CompareAndSwap(last, seq) {
			return calls, nil
		}
	}
}
