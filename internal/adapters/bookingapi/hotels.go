package bookingapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// listEnvelope tolerates both paginated and bare-array list responses.
type listEnvelope struct {
	Results []map[string]any `json:"results"`
	Count   int              `json:"count"`
}

// ListHotels is the one call that carries the retry-with-backoff policy:
// listing is the storefront's front door and transient 429/5xx there is
// worth absorbing.
func (c *Client) ListHotels(ctx context.Context, q domain.StaysQuery) ([]map[string]any, error) {
	if c.mock {
		return mockHotels(), nil
	}
	v := url.Values{}
	if q.Featured {
		v.Set("featured", "true")
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if q.Limit > 0 {
		v.Set("page_size", strconv.Itoa(q.Limit))
	}
	path := "/hotels/"
	if enc := v.Encode(); enc != "" {
		path += "?" + enc
	}

	var env listEnvelope
	if err := c.getRetry(ctx, path, &env); err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	return env.Results, nil
}

func (c *Client) GetHotel(ctx context.Context, id int64) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/hotels/%d/", id), nil, &out, reqOpts{}); err != nil {
		return nil, fmt.Errorf("get hotel %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) GetHotelBySlug(ctx context.Context, slug string) (map[string]any, error) {
	var out map[string]any
	path := "/hotels/slug/" + url.PathEscape(slug) + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, &out, reqOpts{}); err != nil {
		return nil, fmt.Errorf("get hotel %q: %w", slug, err)
	}
	return out, nil
}

func (c *Client) ListAmenities(ctx context.Context, hotelID int64) ([]string, error) {
	var out struct {
		Amenities []string `json:"amenities"`
	}
	path := fmt.Sprintf("/hotels/%d/amenities/", hotelID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, reqOpts{}); err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	return out.Amenities, nil
}

// mockHotels is the legacy fixture path behind USE_MOCK_DATA. Kept tiny;
// main flows never engage it.
func mockHotels() []map[string]any {
	return []map[string]any{
		{
			"id": float64(1), "hotel_name": "Grand Makkah Hotel", "slug": "grand-makkah-hotel",
			"star_rating": float64(5), "city": "Makkah", "featured": true,
		},
		{
			"id": float64(2), "hotel_name": "Madinah Plaza", "slug": "madinah-plaza",
			"star_rating": float64(4), "city": "Madinah", "featured": true,
		},
	}
}
