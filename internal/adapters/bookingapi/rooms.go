package bookingapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

func (c *Client) ListRoomOptions(ctx context.Context, hotelID int64, from, to string) ([]domain.RoomOption, error) {
	v := url.Values{}
	if from != "" {
		v.Set("from_date", from)
	}
	if to != "" {
		v.Set("to_date", to)
	}
	path := fmt.Sprintf("/hotels/%d/rooms/", hotelID)
	if enc := v.Encode(); enc != "" {
		path += "?" + enc
	}
	var out struct {
		Results []domain.RoomOption `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out, reqOpts{}); err != nil {
		return nil, fmt.Errorf("list rooms for hotel %d: %w", hotelID, err)
	}
	return out.Results, nil
}

func (c *Client) ListRoomRates(ctx context.Context, roomTypeID int64, from, to string) ([]domain.RoomRate, error) {
	v := url.Values{}
	v.Set("room_type", strconv.FormatInt(roomTypeID, 10))
	if from != "" {
		v.Set("from_date", from)
	}
	if to != "" {
		v.Set("to_date", to)
	}
	var out struct {
		Results []domain.RoomRate `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/room-rates/?"+v.Encode(), nil, &out, reqOpts{}); err != nil {
		return nil, fmt.Errorf("list room rates: %w", err)
	}
	return out.Results, nil
}

func (c *Client) ListMealPlans(ctx context.Context, hotelID int64) ([]domain.MealPlan, error) {
	var out struct {
		Results []domain.MealPlan `json:"results"`
	}
	path := fmt.Sprintf("/hotels/%d/meal-plans/", hotelID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, reqOpts{}); err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	return out.Results, nil
}
