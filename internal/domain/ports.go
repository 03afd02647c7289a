package domain

import "context"

// HotelAPI exposes the hotel read endpoints of the remote booking backend.
// Payload shapes vary across backend versions, so hotels come back as raw
// maps and are normalized exactly once by the app-layer mapper.
type HotelAPI interface {
	ListHotels(ctx context.Context, q StaysQuery) ([]map[string]any, error)
	GetHotel(ctx context.Context, id int64) (map[string]any, error)
	GetHotelBySlug(ctx context.Context, slug string) (map[string]any, error)
	ListAmenities(ctx context.Context, hotelID int64) ([]string, error)
}

type RoomAPI interface {
	ListRoomOptions(ctx context.Context, hotelID int64, from, to string) ([]RoomOption, error)
	ListRoomRates(ctx context.Context, roomTypeID int64, from, to string) ([]RoomRate, error)
	ListMealPlans(ctx context.Context, hotelID int64) ([]MealPlan, error)
}

// ReservationPatch is a partial update; nil fields are left untouched.
type ReservationPatch struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

type ReservationAPI interface {
	CreateReservation(ctx context.Context, form BookingForm) (Reservation, error)
	PatchReservation(ctx context.Context, id int64, p ReservationPatch) (Reservation, error)
	GetReservation(ctx context.Context, id int64) (Reservation, error)
}

type PaymentRequest struct {
	ReservationID int64   `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Method        string  `json:"method"`
	// IdempotencyKey guards against double charges on checkout retries.
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type PaymentAPI interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (Payment, error)
	ProcessPayment(ctx context.Context, paymentID int64) (Payment, error)
	RefundPayment(ctx context.Context, paymentID int64) (Payment, error)
	VerifyPayment(ctx context.Context, transactionID string) (Payment, error)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthAPI interface {
	Login(ctx context.Context, c Credentials) (TokenPair, error)
	Register(ctx context.Context, c Credentials) (TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (TokenPair, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// TokenStore is the persisted slot the HTTP client reads its Authorization
// material from. Implementations also keep the post-login redirect URL.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, p TokenPair) error
	RefreshToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
	SetRedirect(ctx context.Context, url string) error
	Redirect(ctx context.Context) (string, error)
}

// PaymentGateway is the optional third-party card processor step that runs
// before the payment is recorded against the booking backend.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, amountMinor int64, currency, description, customerEmail string) (url, sessionID string, err error)
	Refund(ctx context.Context, sessionID string) error
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, r Reservation, email string) error
}
