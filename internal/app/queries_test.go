package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/app"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

type stubHotels struct {
	mu        sync.Mutex
	listCalls int
	slugCalls int
	hotels    []map[string]any
}

func (s *stubHotels) ListHotels(_ context.Context, _ domain.StaysQuery) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return s.hotels, nil
}

func (s *stubHotels) GetHotel(context.Context, int64) (map[string]any, error) {
	return nil, domain.ErrNotFound
}

func (s *stubHotels) GetHotelBySlug(_ context.Context, slug string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slugCalls++
	for _, h := range s.hotels {
		if h["slug"] == slug {
			return h, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubHotels) ListAmenities(context.Context, int64) ([]string, error) { return nil, nil }

type stubRooms struct {
	roomCalls int
}

func (s *stubRooms) ListRoomOptions(context.Context, int64, string, string) ([]domain.RoomOption, error) {
	s.roomCalls++
	return []domain.RoomOption{{RoomTypeID: 1, Name: "Standard Double", PricePerNight: 200}}, nil
}
func (s *stubRooms) ListRoomRates(context.Context, int64, string, string) ([]domain.RoomRate, error) {
	return nil, nil
}
func (s *stubRooms) ListMealPlans(context.Context, int64) ([]domain.MealPlan, error) {
	return []domain.MealPlan{{ID: 7, Name: "Breakfast", Price: 15}}, nil
}

type stubCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newStubCache() *stubCache { return &stubCache{store: map[string][]byte{}} }

func (c *stubCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *stubCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.store[key] = b
	c.mu.Unlock()
	return nil
}

func (c *stubCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
	return nil
}

func testHotels() []map[string]any {
	return []map[string]any{
		{"id": float64(1), "hotel_name": "Grand Makkah Hotel", "slug": "grand-makkah-hotel", "star_rating": float64(5)},
		{"id": float64(2), "hotel_name": "Madinah Plaza", "slug": "madinah-plaza", "star_rating": float64(4)},
	}
}

func TestListStays_CacheMissThenHit(t *testing.T) {
	api := &stubHotels{hotels: testHotels()}
	cache := newStubCache()
	svc := app.NewStayQueryService(api, &stubRooms{}, cache, time.Minute)

	ctx := context.Background()
	q := domain.StaysQuery{City: "Makkah", Lang: "en", Limit: 10}

	first, err := svc.ListStays(ctx, q)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	second, err := svc.ListStays(ctx, q)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if api.listCalls != 1 {
		t.Fatalf("expected a single upstream call, got %d", api.listCalls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("stay counts: %d then %d, want 2", len(first), len(second))
	}
	if second[0].Title != "Grand Makkah Hotel" {
		t.Fatalf("cached copy mangled: %+v", second[0])
	}
}

func TestListStays_KeyVariesByLanguage(t *testing.T) {
	api := &stubHotels{hotels: testHotels()}
	svc := app.NewStayQueryService(api, &stubRooms{}, newStubCache(), time.Minute)

	ctx := context.Background()
	en, _ := svc.ListStays(ctx, domain.StaysQuery{City: "Makkah", Lang: "en", Limit: 10})
	ar, _ := svc.ListStays(ctx, domain.StaysQuery{City: "Makkah", Lang: "ar", Limit: 10})

	if api.listCalls != 2 {
		t.Fatalf("language variants must be fetched separately, got %d calls", api.listCalls)
	}
	if en[0].Title == ar[0].Title {
		t.Fatalf("arabic listing not translated: %q", ar[0].Title)
	}
}

func TestGetStayBySlug_CachesAndMisses(t *testing.T) {
	api := &stubHotels{hotels: testHotels()}
	svc := app.NewStayQueryService(api, &stubRooms{}, newStubCache(), time.Minute)

	ctx := context.Background()
	stay, err := svc.GetStayBySlug(ctx, "madinah-plaza", "en")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if stay.Title != "Madinah Plaza" {
		t.Fatalf("wrong stay: %+v", stay)
	}
	if _, err := svc.GetStayBySlug(ctx, "madinah-plaza", "en"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if api.slugCalls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", api.slugCalls)
	}

	if _, err := svc.GetStayBySlug(ctx, "no-such-slug", "en"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRoomOptions_NeverCached(t *testing.T) {
	rooms := &stubRooms{}
	svc := app.NewStayQueryService(&stubHotels{}, rooms, newStubCache(), time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.RoomOptions(ctx, 1, "10/09/2026", "13/09/2026"); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
	if rooms.roomCalls != 3 {
		t.Fatalf("room availability must bypass the cache, got %d calls", rooms.roomCalls)
	}
}
