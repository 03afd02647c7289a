package bookingapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// createReservationBody is the backend contract for reservation creation:
// snake_case keys, DD/MM/YYYY date strings. The child count is sent under
// both spellings because deployed backend revisions have accepted either.
type createReservationBody struct {
	HotelID         int64          `json:"hotel_id"`
	RoomTypeID      int64          `json:"room_type_id"`
	RoomViewID      int64          `json:"room_view_id"`
	NumRooms        int            `json:"num_rooms"`
	MealPlanCounts  map[string]int `json:"meal_plan_counts,omitempty"`
	FromDate        string         `json:"from_date"`
	ToDate          string         `json:"to_date"`
	Adults          int            `json:"adults"`
	Children        int            `json:"children"`
	Childs          int            `json:"childs"`
	GuestName       string         `json:"guest_name,omitempty"`
	GuestEmail      string         `json:"guest_email,omitempty"`
	GuestPhone      string         `json:"guest_phone,omitempty"`
	SpecialRequests string         `json:"special_requests,omitempty"`
}

func (c *Client) CreateReservation(ctx context.Context, form domain.BookingForm) (domain.Reservation, error) {
	body := createReservationBody{
		HotelID:         form.HotelID,
		RoomTypeID:      form.RoomTypeID,
		RoomViewID:      form.RoomViewID,
		NumRooms:        form.NumRooms,
		MealPlanCounts:  form.MealPlanCounts,
		FromDate:        form.FromDate,
		ToDate:          form.ToDate,
		Adults:          form.Adults,
		Children:        form.Children,
		Childs:          form.Children,
		GuestName:       form.GuestName,
		GuestEmail:      form.GuestEmail,
		GuestPhone:      form.GuestPhone,
		SpecialRequests: form.SpecialRequests,
	}
	var out domain.Reservation
	if err := c.do(ctx, http.MethodPost, "/reservations/", body, &out, reqOpts{}); err != nil {
		return domain.Reservation{}, fmt.Errorf("create reservation: %w", err)
	}
	return out, nil
}

func (c *Client) PatchReservation(ctx context.Context, id int64, p domain.ReservationPatch) (domain.Reservation, error) {
	var out domain.Reservation
	path := fmt.Sprintf("/reservations/%d/", id)
	if err := c.do(ctx, http.MethodPatch, path, p, &out, reqOpts{}); err != nil {
		return domain.Reservation{}, fmt.Errorf("update reservation %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	var out domain.Reservation
	path := fmt.Sprintf("/reservations/%d/", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, reqOpts{}); err != nil {
		return domain.Reservation{}, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return out, nil
}
