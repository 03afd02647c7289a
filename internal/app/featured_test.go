package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// ---- fakes ----

type fakeHotelAPI struct {
	mu      sync.Mutex
	calls   []domain.StaysQuery
	pages   [][]map[string]any // consumed in order; last page repeats
	failFor int32              // first N calls error
	entered chan struct{}      // signaled at each call start, when set
	gate    chan struct{}      // first call blocks here, when set
}

func (f *fakeHotelAPI) ListHotels(_ context.Context, q domain.StaysQuery) ([]map[string]any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	n := len(f.calls)
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil && n == 1 {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if int32(n) <= f.failFor {
		return nil, errors.New("upstream down")
	}
	if len(f.pages) == 0 {
		return nil, nil
	}
	page := f.pages[0]
	if len(f.pages) > 1 {
		f.pages = f.pages[1:]
	}
	return page, nil
}

func (f *fakeHotelAPI) GetHotel(context.Context, int64) (map[string]any, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeHotelAPI) GetHotelBySlug(context.Context, string) (map[string]any, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeHotelAPI) ListAmenities(context.Context, int64) ([]string, error) { return nil, nil }

func (f *fakeHotelAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memCache struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  atomic.Int32
}

func newMemCache() *memCache { return &memCache{store: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.store[key] = b
	c.mu.Unlock()
	c.sets.Add(1)
	return nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
	return nil
}

// expire simulates TTL expiry by dropping every entry.
func (c *memCache) expire() {
	c.mu.Lock()
	c.store = map[string][]byte{}
	c.mu.Unlock()
}

func hotelsPage(names ...string) []map[string]any {
	out := make([]map[string]any, 0, len(names))
	for i, n := range names {
		out = append(out, map[string]any{"id": float64(i + 1), "hotel_name": n})
	}
	return out
}

func newTestFeatured(api *fakeHotelAPI, cache domain.Cache) *FeaturedService {
	s := NewFeaturedService(api, nil, cache, 5*time.Minute, time.Millisecond)
	s.retryDelay = time.Millisecond
	return s
}

// ---- tests ----

func TestFeatured_CacheHitWithinTTL(t *testing.T) {
	api := &fakeHotelAPI{pages: [][]map[string]any{hotelsPage("A", "B")}}
	cache := newMemCache()
	s := newTestFeatured(api, cache)

	ctx := context.Background()
	if _, err := s.Featured(ctx, "Makkah", 4, "en"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := s.Featured(ctx, "Makkah", 4, "en"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := api.callCount(); got != 1 {
		t.Fatalf("expected 1 upstream call for two cached reads, got %d", got)
	}

	// expiry: exactly one more request
	cache.expire()
	if _, err := s.Featured(ctx, "Makkah", 4, "en"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := api.callCount(); got != 2 {
		t.Fatalf("expected 2 upstream calls after expiry, got %d", got)
	}
}

func TestFeatured_KeyIncludesCityAndLimit(t *testing.T) {
	api := &fakeHotelAPI{pages: [][]map[string]any{hotelsPage("A")}}
	s := newTestFeatured(api, newMemCache())

	ctx := context.Background()
	_, _ = s.Featured(ctx, "Makkah", 4, "en")
	_, _ = s.Featured(ctx, "Madinah", 4, "en")
	_, _ = s.Featured(ctx, "Makkah", 8, "en")
	if got := api.callCount(); got != 3 {
		t.Fatalf("distinct keys must fetch separately, got %d calls", got)
	}
}

func TestFeatured_RetriesTwiceThenErrors(t *testing.T) {
	api := &fakeHotelAPI{failFor: 99} // always fails
	s := newTestFeatured(api, newMemCache())

	stays, err := s.Featured(context.Background(), "Makkah", 4, "en")
	if err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
	if len(stays) != 0 {
		t.Fatalf("expected empty data in error state, got %d", len(stays))
	}
	// initial attempt + 2 retries
	if got := api.callCount(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFeatured_RecoversWithinRetryBudget(t *testing.T) {
	api := &fakeHotelAPI{failFor: 2, pages: [][]map[string]any{hotelsPage("A")}}
	s := newTestFeatured(api, newMemCache())

	stays, err := s.Featured(context.Background(), "Makkah", 4, "en")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(stays) != 1 {
		t.Fatalf("expected 1 stay, got %d", len(stays))
	}
	if got := api.callCount(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFeatured_EmptyResultsFallBackToCityQuery(t *testing.T) {
	// three empty featured pages, then the unfiltered city page
	api := &fakeHotelAPI{pages: [][]map[string]any{{}, {}, {}, hotelsPage("A", "B", "C", "D")}}
	s := newTestFeatured(api, newMemCache())

	stays, err := s.Featured(context.Background(), "Makkah", 4, "en")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(stays) != 4 {
		t.Fatalf("expected fallback page of 4, got %d", len(stays))
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.calls) != 4 {
		t.Fatalf("expected 3 featured attempts + 1 fallback, got %d", len(api.calls))
	}
	for _, q := range api.calls[:3] {
		if !q.Featured || q.City != "Makkah" || q.Limit != 4 {
			t.Fatalf("featured attempt had wrong query: %+v", q)
		}
	}
	if last := api.calls[3]; last.Featured || last.City != "Makkah" {
		t.Fatalf("fallback must drop the featured flag, kept: %+v", last)
	}
}

func TestFeatured_ConcurrentCallersShareOneFetch(t *testing.T) {
	api := &fakeHotelAPI{pages: [][]map[string]any{hotelsPage("A", "B")}}
	s := newTestFeatured(api, newMemCache())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Featured(context.Background(), "Makkah", 4, "en"); err != nil {
				t.Errorf("err: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := api.callCount(); got != 1 {
		t.Fatalf("expected singleflight to collapse to 1 call, got %d", got)
	}
}

func TestFeatured_RefreshDetachesInFlightFetch(t *testing.T) {
	api := &fakeHotelAPI{
		pages:   [][]map[string]any{hotelsPage("A", "B")},
		entered: make(chan struct{}, 4),
		gate:    make(chan struct{}),
	}
	cache := newMemCache()
	s := newTestFeatured(api, cache)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Featured(context.Background(), "Makkah", 4, "en")
	}()
	<-api.entered // first fetch is now in flight

	s.Refresh(context.Background(), "Makkah", 4)

	// a post-refresh caller must not coalesce into the superseded flight
	stays, err := s.Featured(context.Background(), "Makkah", 4, "en")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(stays) != 2 {
		t.Fatalf("expected the fresh page, got %d stays", len(stays))
	}
	if got := api.callCount(); got != 2 {
		t.Fatalf("expected a fresh upstream fetch after refresh, got %d calls", got)
	}

	close(api.gate)
	wg.Wait()

	// only the fresh flight may write the cache
	if got := cache.sets.Load(); got != 1 {
		t.Fatalf("superseded flight wrote the cache: %d sets", got)
	}
	if _, err := s.Featured(context.Background(), "Makkah", 4, "en"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := api.callCount(); got != 2 {
		t.Fatalf("fresh result should serve the next read from cache, got %d calls", got)
	}
}

func TestFeatured_RefreshInvalidatesLateWrites(t *testing.T) {
	api := &fakeHotelAPI{pages: [][]map[string]any{hotelsPage("A")}}
	cache := newMemCache()
	s := newTestFeatured(api, cache)

	key := "featured:Makkah:4:false"
	id := s.issueRequest(key)
	s.Refresh(context.Background(), "Makkah", 4)
	if s.isLatest(key, id) {
		t.Fatalf("refresh must supersede in-flight request ids")
	}
}
