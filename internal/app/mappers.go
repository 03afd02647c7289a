package app

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

/********** alias registries (single source of truth) **********/

var stayAliases = map[string][]string{
	"id":       {"id", "hotel_id", "pk"},
	"slug":     {"slug", "hotel_slug", "seo.slug"},
	"title":    {"hotel_name", "name", "title"},
	"category": {"category", "hotel_type", "type", "taxonomy.category"},
	"city":     {"address.city", "city", "locality", "town"},
	"state":    {"address.state", "state", "region"},
	"country":  {"address.country", "country", "country_code"},
	"zip":      {"address.zip", "address.postcode", "zip", "postcode"},
	"line1":    {"address.line1", "address.address_line1", "address_line1", "street"},
	"line2":    {"address.line2", "address.address_line2", "address_line2"},
}

var priceAliases = []string{
	"price", "min_price", "price_per_night", "starting_price",
	"rates.min", "rates.starting_from", "pricing.base",
}

var imageAliases = []string{"images", "photos", "gallery", "media.images"}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstStrAlias: first non-empty string for a named alias set.
func firstStrAlias(m map[string]any, key string) string {
	for _, p := range stayAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string, and
// {amount: n} money objects).
func getFloatFlexible(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.TrimPrefix(v, "$"))
			s = strings.ReplaceAll(s, ",", "")
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		case map[string]any:
			if amt, ok := getFloatFlexible(v, "amount", "value"); ok {
				return amt, true
			}
		}
	}
	return 0, false
}

func getIntFlexible(m map[string]any, paths ...string) (int, bool) {
	if f, ok := getFloatFlexible(m, paths...); ok {
		return int(f), true
	}
	return 0, false
}

// allNonEmptyStrings: accept a []any only when every entry is a usable
// image reference (plain string or {url/src}).
func allNonEmptyStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok || len(raw) == 0 {
			continue
		}
		out := make([]string, 0, len(raw))
		usable := true
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if strings.TrimSpace(t) == "" {
					usable = false
				} else {
					out = append(out, t)
				}
			case map[string]any:
				if u, ok := t["url"].(string); ok && u != "" {
					out = append(out, u)
				} else if u, ok := t["src"].(string); ok && u != "" {
					out = append(out, u)
				} else {
					usable = false
				}
			default:
				usable = false
			}
			if !usable {
				break
			}
		}
		if usable && len(out) > 0 {
			return out
		}
	}
	return nil
}

/********** fallback images **********/

// Known properties whose backend records ship without usable images. Keyed
// by slug and by display name so either lookup lands.
var fallbackImages = map[string]string{
	"grand-makkah-hotel":   "https://images.stay.example/makkah/grand-exterior.jpg",
	"Grand Makkah Hotel":   "https://images.stay.example/makkah/grand-exterior.jpg",
	"madinah-plaza":        "https://images.stay.example/madinah/plaza-lobby.jpg",
	"Madinah Plaza":        "https://images.stay.example/madinah/plaza-lobby.jpg",
	"jabal-omar-residence": "https://images.stay.example/makkah/jabal-omar-tower.jpg",
	"al-safwah-towers":     "https://images.stay.example/makkah/safwah-view.jpg",
}

var genericImages = []string{
	"https://images.stay.example/generic/room-1.jpg",
	"https://images.stay.example/generic/room-2.jpg",
	"https://images.stay.example/generic/lobby-1.jpg",
	"https://images.stay.example/generic/pool-1.jpg",
	"https://images.stay.example/generic/breakfast-1.jpg",
	"https://images.stay.example/generic/exterior-1.jpg",
}

// fallbackGallery picks the known image for the property when we have one,
// then pads with 2-3 generics. The pick is keyed off the slug/name hash so
// a given hotel always renders the same gallery.
func fallbackGallery(slug, title string) []string {
	var out []string
	if u, ok := fallbackImages[slug]; ok {
		out = append(out, u)
	} else if u, ok := fallbackImages[title]; ok {
		out = append(out, u)
	}
	h := fnv.New32a()
	h.Write([]byte(slug + title))
	seed := int(h.Sum32())
	n := 2 + seed%2 // 2 or 3 generics
	for i := 0; i < n; i++ {
		out = append(out, genericImages[(seed+i)%len(genericImages)])
	}
	return out
}

/********** price derivation **********/

// derivePrice prefers any backend-provided price shape; otherwise derives
// stars*100, reduced by the discount percentage when present.
func derivePrice(raw map[string]any) float64 {
	if p, ok := getFloatFlexible(raw, priceAliases...); ok && p > 0 {
		return p
	}
	stars, ok := getFloatFlexible(raw, "star_rating", "stars", "rating.stars", "rating")
	if !ok || stars <= 0 {
		stars = 3
	}
	price := stars * 100
	if d, ok := getFloatFlexible(raw, "discount_percentage", "discount"); ok && d > 0 && d < 100 {
		price = price * (1 - d/100)
	}
	return math.Round(price)
}

/********** hotel -> stay **********/

// StayFromHotel converts one raw backend hotel payload into the storefront
// stay record. locale "ar" applies the dictionary translation pass. Any
// panic during conversion is turned into a labeled placeholder record so a
// single bad payload cannot take down a listing.
func StayFromHotel(raw map[string]any, locale string) (stay domain.Stay) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("hotel conversion failed, returning placeholder")
			stay = placeholderStay()
		}
	}()

	slug := firstStrAlias(raw, "slug")
	title := firstStrAlias(raw, "title")
	if title == "" {
		title = "Hotel"
	}

	gallery := allNonEmptyStrings(raw, imageAliases...)
	if len(gallery) == 0 {
		gallery = fallbackGallery(slug, title)
	}

	price := derivePrice(raw)
	category := firstStrAlias(raw, "category")
	if category == "" {
		category = "Hotel"
	}

	addr := joinNonEmpty(", ",
		firstStrAlias(raw, "line1"),
		firstStrAlias(raw, "line2"),
		firstStrAlias(raw, "city"),
		firstStrAlias(raw, "state"),
		firstStrAlias(raw, "zip"),
		firstStrAlias(raw, "country"),
	)
	if addr == "" {
		addr = lookupStr(raw, "full_address")
	}

	id := ""
	if n, ok := getIntFlexible(raw, stayAliases["id"]...); ok {
		id = strconv.Itoa(n)
	} else if s := lookupStr(raw, "id"); s != "" {
		id = s
	}

	score, _ := getFloatFlexible(raw, "review_score", "rating.score", "avg_review", "review_rating")
	count, _ := getIntFlexible(raw, "review_count", "reviews_count", "num_reviews")
	if v, ok := raw["reviews_summary"]; ok && v != nil {
		// null means no reviews yet; any other shape is an object
		rs := v.(map[string]any)
		if f, ok := getFloatFlexible(rs, "score", "average"); ok {
			score = f
		}
		if n, ok := getIntFlexible(rs, "count", "total"); ok {
			count = n
		}
	}
	bedrooms, _ := getIntFlexible(raw, "bedrooms", "num_bedrooms", "rooms")
	bathrooms, _ := getIntFlexible(raw, "bathrooms", "num_bathrooms")

	stay = domain.Stay{
		ID:            id,
		Slug:          slug,
		Title:         title,
		Address:       addr,
		FeaturedImage: gallery[0],
		GalleryImgs:   gallery,
		Price:         fmt.Sprintf("$%d", int(math.Round(price))),
		Category:      category,
		ReviewScore:   score,
		ReviewCount:   count,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
	}

	if lat, ok := getFloatFlexible(raw, "latitude", "lat", "address.lat", "location.lat"); ok {
		if lng, ok := getFloatFlexible(raw, "longitude", "lng", "lon", "address.lng", "location.lng"); ok {
			stay.Coords = &domain.Coords{Lat: lat, Lng: lng}
		}
	}
	if d, ok := getFloatFlexible(raw, "discount_percentage", "discount"); ok && d > 0 {
		stay.SaleOff = fmt.Sprintf("-%d%% today", int(d))
	}

	if locale == "ar" {
		stay.Title = TranslateName(stay.Title)
		stay.Category = TranslateCategory(stay.Category)
		stay.Address = TranslateAddress(stay.Address)
	}
	return stay
}

// StaysFromHotels converts a batch, isolating per-element failures: a bad
// element yields a placeholder, a nil element is dropped.
func StaysFromHotels(raws []map[string]any, locale string) []domain.Stay {
	out := make([]domain.Stay, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		out = append(out, StayFromHotel(raw, locale))
	}
	return out
}

func placeholderStay() domain.Stay {
	return domain.Stay{
		Title:         "Error Loading Hotel",
		Category:      "Hotel",
		FeaturedImage: genericImages[0],
		GalleryImgs:   genericImages[:2],
		Price:         "$0",
		Placeholder:   true,
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}
