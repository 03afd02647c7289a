package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// StayQueryService serves the listing and detail pages: remote fetch,
// normalization through the mapper, cache-aside with language-aware keys.
type StayQueryService struct {
	hotels   domain.HotelAPI
	rooms    domain.RoomAPI
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewStayQueryService(h domain.HotelAPI, r domain.RoomAPI, c domain.Cache, ttl time.Duration) *StayQueryService {
	return &StayQueryService{hotels: h, rooms: r, cache: c, cacheTTL: ttl}
}

func (s *StayQueryService) ListStays(ctx context.Context, q domain.StaysQuery) ([]domain.Stay, error) {
	key := fmt.Sprintf("stays:%s:%s:%d", q.City, q.Lang, q.Limit)
	var cached []domain.Stay
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	raws, err := s.hotels.ListHotels(ctx, q)
	if err != nil {
		return nil, err
	}
	stays := StaysFromHotels(raws, q.Lang)
	_ = s.cache.Set(ctx, key, stays, int(s.cacheTTL.Seconds()))
	return stays, nil
}

func (s *StayQueryService) GetStayBySlug(ctx context.Context, slug, lang string) (domain.Stay, error) {
	key := fmt.Sprintf("stay:%s:%s", slug, lang)
	var hv domain.Stay
	if ok, _ := s.cache.Get(ctx, key, &hv); ok {
		return hv, nil
	}
	raw, err := s.hotels.GetHotelBySlug(ctx, slug)
	if err != nil {
		return domain.Stay{}, err
	}
	stay := StayFromHotel(raw, lang)
	_ = s.cache.Set(ctx, key, stay, int(s.cacheTTL.Seconds()))
	return stay, nil
}

// RoomOptions is deliberately uncached: availability moves with every
// booking, and the detail page refetches per visit anyway.
func (s *StayQueryService) RoomOptions(ctx context.Context, hotelID int64, from, to string) ([]domain.RoomOption, error) {
	return s.rooms.ListRoomOptions(ctx, hotelID, from, to)
}

func (s *StayQueryService) MealPlans(ctx context.Context, hotelID int64) ([]domain.MealPlan, error) {
	return s.rooms.ListMealPlans(ctx, hotelID)
}
