package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// FeaturedService serves the homepage featured strip. Results are cached
// per (city, limit, authenticated) key with a TTL; concurrent callers for
// the same key collapse onto one fetch; fetches are spaced by a minimum
// interval; failures and empty pages are retried a bounded number of times
// before the city-wide fallback query runs.
type FeaturedService struct {
	hotels domain.HotelAPI
	tokens domain.TokenStore
	cache  domain.Cache

	ttl        time.Duration
	retryDelay time.Duration
	group      singleflight.Group
	fetchGate  *rate.Limiter

	mu     sync.Mutex
	reqIDs map[string]uint64 // latest issued request id per key
}

const featuredRetries = 2

func NewFeaturedService(h domain.HotelAPI, t domain.TokenStore, c domain.Cache, ttl, minInterval time.Duration) *FeaturedService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if minInterval <= 0 {
		minInterval = 2 * time.Second
	}
	return &FeaturedService{
		hotels:     h,
		tokens:     t,
		cache:      c,
		ttl:        ttl,
		retryDelay: time.Second,
		fetchGate:  rate.NewLimiter(rate.Every(minInterval), 1),
		reqIDs:     make(map[string]uint64),
	}
}

func (s *FeaturedService) Featured(ctx context.Context, city string, limit int, lang string) ([]domain.Stay, error) {
	if limit <= 0 {
		limit = 4
	}
	key := fmt.Sprintf("featured:%s:%d:%t", city, limit, s.authenticated(ctx))

	var cached []domain.Stay
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A caller that queued behind the winning flight may find the
		// cache already filled.
		var again []domain.Stay
		if ok, _ := s.cache.Get(ctx, key, &again); ok {
			return again, nil
		}

		reqID := s.issueRequest(key)

		if err := s.fetchGate.Wait(ctx); err != nil {
			return nil, err
		}

		raws, err := s.fetchWithRetry(ctx, city, limit)
		if err != nil {
			return nil, err
		}
		stays := StaysFromHotels(raws, lang)

		// A newer request for this key supersedes us; don't let a late
		// result overwrite fresher state.
		if s.isLatest(key, reqID) {
			_ = s.cache.Set(ctx, key, stays, int(s.ttl.Seconds()))
		}
		return stays, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Stay), nil
}

// Refresh drops the cached entry, detaches any in-flight fetch for the key
// so later callers start a fresh one, and invalidates the pending result.
func (s *FeaturedService) Refresh(ctx context.Context, city string, limit int) {
	for _, authed := range []bool{true, false} {
		key := fmt.Sprintf("featured:%s:%d:%t", city, limit, authed)
		_ = s.cache.Del(ctx, key)
		s.group.Forget(key)
		s.issueRequest(key)
	}
}

// fetchWithRetry runs the featured query with up to featuredRetries extra
// attempts on error or an empty page, then falls back to the unfiltered
// city query before conceding an empty result.
func (s *FeaturedService) fetchWithRetry(ctx context.Context, city string, limit int) ([]map[string]any, error) {
	q := domain.StaysQuery{City: city, Limit: limit, Featured: true}

	var raws []map[string]any
	var err error
	for attempt := 0; attempt <= featuredRetries; attempt++ {
		if attempt > 0 {
			log.Warn().Str("city", city).Int("attempt", attempt).Err(err).
				Msg("featured fetch retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
		raws, err = s.hotels.ListHotels(ctx, q)
		if err == nil && len(raws) > 0 {
			return raws, nil
		}
	}
	if err != nil {
		return nil, err
	}

	// Featured came back empty for this city; show the city itself rather
	// than an empty strip.
	log.Info().Str("city", city).Msg("no featured hotels, falling back to city query")
	return s.hotels.ListHotels(ctx, domain.StaysQuery{City: city, Limit: limit})
}

func (s *FeaturedService) authenticated(ctx context.Context) bool {
	if s.tokens == nil {
		return false
	}
	tok, err := s.tokens.Token(ctx)
	return err == nil && tok != ""
}

func (s *FeaturedService) issueRequest(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqIDs[key]++
	return s.reqIDs[key]
}

func (s *FeaturedService) isLatest(key string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reqIDs[key] == id
}
