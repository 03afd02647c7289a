package domain

// Reservation lifecycle statuses as reported by the booking backend.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

// Payment statuses. Transitions are reported by the backend, never computed
// locally.
const (
	PaymentPending    = "pending"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentStatusPaid = "paid" // reservation-side payment_status after a completed payment
)

type Reservation struct {
	ID              int64          `json:"id"`
	HotelID         int64          `json:"hotel_id"`
	RoomTypeID      int64          `json:"room_type_id"`
	RoomViewID      int64          `json:"room_view_id"`
	NumRooms        int            `json:"num_rooms"`
	MealPlanCounts  map[string]int `json:"meal_plan_counts,omitempty"`
	FromDate        string         `json:"from_date"` // DD/MM/YYYY
	ToDate          string         `json:"to_date"`   // DD/MM/YYYY
	Adults          int            `json:"adults"`
	Children        int            `json:"children"`
	Status          string         `json:"status"`
	PaymentStatus   string         `json:"payment_status"`
	GuestName       string         `json:"guest_name,omitempty"`
	GuestEmail      string         `json:"guest_email,omitempty"`
	GuestPhone      string         `json:"guest_phone,omitempty"`
	SpecialRequests string         `json:"special_requests,omitempty"`
	TotalPrice      float64        `json:"total_price,omitempty"`
}

type Payment struct {
	ID            int64   `json:"id"`
	ReservationID int64   `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id,omitempty"`
}

// BookingForm is what the storefront collects before checkout.
type BookingForm struct {
	HotelID         int64          `json:"hotel_id" validate:"required,gt=0"`
	RoomTypeID      int64          `json:"room_type_id" validate:"required,gt=0"`
	RoomViewID      int64          `json:"room_view_id"`
	NumRooms        int            `json:"num_rooms" validate:"required,gte=1"`
	MealPlanCounts  map[string]int `json:"meal_plan_counts,omitempty"`
	FromDate        string         `json:"from_date" validate:"required"`
	ToDate          string         `json:"to_date" validate:"required"`
	Adults          int            `json:"adults" validate:"required,gte=1"`
	Children        int            `json:"children" validate:"gte=0"`
	GuestName       string         `json:"guest_name" validate:"required"`
	GuestEmail      string         `json:"guest_email" validate:"required,email"`
	GuestPhone      string         `json:"guest_phone"`
	SpecialRequests string         `json:"special_requests"`
	// ReservationID reuses an existing pending reservation instead of
	// creating a new one.
	ReservationID int64 `json:"reservation_id,omitempty"`
}

// AuthEvent is broadcast on login, logout, and token refresh so other
// components can react without threading state through call chains.
type AuthEvent struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Source          string `json:"source"` // login | logout | refresh
}
