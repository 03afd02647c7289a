package domain

// Stay is the storefront-facing hotel record derived from a raw backend
// payload. It is built once per fetch by the app-layer mapper and never
// written back.
type Stay struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Address       string   `json:"address"`
	FeaturedImage string   `json:"featuredImage"`
	GalleryImgs   []string `json:"galleryImgs"`
	Price         string   `json:"price"`
	Category      string   `json:"category"`
	ReviewScore   float64  `json:"reviewStart"`
	ReviewCount   int      `json:"reviewCount"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Coords        *Coords  `json:"map,omitempty"`
	IsAds         bool     `json:"isAds"`
	SaleOff       string   `json:"saleOff,omitempty"`
	// Placeholder marks a record synthesized after a conversion failure.
	// Callers rendering lists may skip or badge it.
	Placeholder bool `json:"placeholder,omitempty"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RoomOption is a (room type, room view) pair offered during room
// selection, with its own rate and occupancy limits.
type RoomOption struct {
	RoomTypeID    int64    `json:"room_type_id"`
	RoomViewID    int64    `json:"room_view_id"`
	Name          string   `json:"name"`
	View          string   `json:"view"`
	PricePerNight float64  `json:"price_per_night"`
	MaxOccupancy  int      `json:"max_occupancy"`
	Available     int      `json:"available"`
	Images        []string `json:"images,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
}

// RoomRate carries a date-bounded nightly price for a room type.
type RoomRate struct {
	RoomTypeID int64   `json:"room_type_id"`
	From       string  `json:"from_date"` // DD/MM/YYYY
	To         string  `json:"to_date"`   // DD/MM/YYYY
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
}

// MealPlan is an add-on priced per guest per night.
type MealPlan struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type StaysQuery struct {
	City     string
	Lang     string
	Limit    int
	Featured bool
}

type StaysPage struct {
	Items []Stay  `json:"items"`
	Total int     `json:"total"`
	Next  *string `json:"next,omitempty"`
}
