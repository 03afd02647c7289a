package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

const (
	dateLayout       = "02/01/2006" // DD/MM/YYYY, the backend's wire format
	serviceChargePct = 0.10
	defaultCurrency  = "USD"
)

// Quote is the client-side price re-derivation shown before payment. The
// backend stays authoritative for the final amount.
type Quote struct {
	Nights        int     `json:"nights"`
	RoomTotal     float64 `json:"room_total"`
	MealPlanTotal float64 `json:"meal_plan_total"`
	ServiceCharge float64 `json:"service_charge"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
}

// CheckoutResult reports every step independently: checkout is a sequence
// of remote calls, not a transaction, and a late failure leaves the earlier
// steps in place.
type CheckoutResult struct {
	Reservation domain.Reservation `json:"reservation"`
	Payment     domain.Payment     `json:"payment"`
	SessionURL  string             `json:"session_url,omitempty"`
	Steps       []StepResult       `json:"steps"`
}

type StepResult struct {
	Name  string `json:"name"` // reserve | pay | confirm | refetch | notify
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type CheckoutService struct {
	reservations domain.ReservationAPI
	payments     domain.PaymentAPI
	tokens       domain.TokenStore
	gateway      domain.PaymentGateway // optional
	notifier     domain.Notifier       // optional
	validate     *validator.Validate
}

func NewCheckoutService(r domain.ReservationAPI, p domain.PaymentAPI, t domain.TokenStore, gw domain.PaymentGateway, n domain.Notifier) *CheckoutService {
	return &CheckoutService{
		reservations: r,
		payments:     p,
		tokens:       t,
		gateway:      gw,
		notifier:     n,
		validate:     validator.New(),
	}
}

// ValidateForm runs before any network call: struct tags first, then the
// date rules the tags can't express.
func (s *CheckoutService) ValidateForm(form domain.BookingForm) error {
	if err := s.validate.Struct(form); err != nil {
		return fmt.Errorf("invalid booking form: %w", err)
	}
	from, err := time.Parse(dateLayout, form.FromDate)
	if err != nil {
		return fmt.Errorf("invalid check-in date %q, expected DD/MM/YYYY", form.FromDate)
	}
	to, err := time.Parse(dateLayout, form.ToDate)
	if err != nil {
		return fmt.Errorf("invalid check-out date %q, expected DD/MM/YYYY", form.ToDate)
	}
	if !to.After(from) {
		return errors.New("check-out date must be after check-in date")
	}
	if form.Adults+form.Children < 1 {
		return errors.New("at least one guest is required")
	}
	return nil
}

// PriceQuote derives room rate x nights x rooms, adds meal plans (priced
// per guest per night) and the fixed service charge.
func (s *CheckoutService) PriceQuote(form domain.BookingForm, nightlyRate float64, plans []domain.MealPlan) (Quote, error) {
	if err := s.ValidateForm(form); err != nil {
		return Quote{}, err
	}
	from, _ := time.Parse(dateLayout, form.FromDate)
	to, _ := time.Parse(dateLayout, form.ToDate)
	nights := int(to.Sub(from).Hours() / 24)

	roomTotal := nightlyRate * float64(nights) * float64(form.NumRooms)

	planPrices := make(map[string]float64, len(plans))
	for _, p := range plans {
		planPrices[strconv.FormatInt(p.ID, 10)] = p.Price
	}
	mealTotal := 0.0
	for planID, count := range form.MealPlanCounts {
		mealTotal += planPrices[planID] * float64(count) * float64(nights)
	}

	sub := roomTotal + mealTotal
	charge := round2(sub * serviceChargePct)
	return Quote{
		Nights:        nights,
		RoomTotal:     round2(roomTotal),
		MealPlanTotal: round2(mealTotal),
		ServiceCharge: charge,
		Total:         round2(sub + charge),
		Currency:      defaultCurrency,
	}, nil
}

// Checkout runs the booking sequence: reserve, pay, confirm, refetch.
// Each step's failure is recorded and stops the steps after it; completed
// steps are never rolled back (a created-but-unpaid reservation stays).
func (s *CheckoutService) Checkout(ctx context.Context, form domain.BookingForm, amount float64, returnURL string) (CheckoutResult, error) {
	var res CheckoutResult

	if err := s.ValidateForm(form); err != nil {
		return res, err
	}

	// Auth re-check right before submission.
	tok, err := s.tokens.Token(ctx)
	if err != nil || tok == "" {
		if returnURL != "" {
			_ = s.tokens.SetRedirect(ctx, returnURL)
		}
		return res, domain.ErrLoginRequired
	}

	// 1) create or reuse the reservation
	var reservation domain.Reservation
	if form.ReservationID > 0 {
		reservation, err = s.reservations.GetReservation(ctx, form.ReservationID)
	} else {
		reservation, err = s.reservations.CreateReservation(ctx, form)
	}
	if err != nil {
		res.Steps = append(res.Steps, StepResult{Name: "reserve", Error: err.Error()})
		return res, err
	}
	res.Reservation = reservation
	res.Steps = append(res.Steps, StepResult{Name: "reserve", OK: true})

	// 2) payment: optional card-processor session, then record against the
	// backend
	if s.gateway != nil {
		url, sessionID, gerr := s.gateway.CreateCheckoutSession(
			ctx, int64(math.Round(amount*100)), defaultCurrency,
			fmt.Sprintf("Reservation #%d", reservation.ID), form.GuestEmail,
		)
		if gerr != nil {
			res.Steps = append(res.Steps, StepResult{Name: "pay", Error: gerr.Error()})
			return res, fmt.Errorf("payment session: %w", gerr)
		}
		res.SessionURL = url
		log.Info().Int64("reservation", reservation.ID).Str("session", sessionID).
			Msg("payment session created")
	}

	payment, err := s.payments.CreatePayment(ctx, domain.PaymentRequest{
		ReservationID:  reservation.ID,
		Amount:         amount,
		Currency:       defaultCurrency,
		Method:         "card",
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		res.Steps = append(res.Steps, StepResult{Name: "pay", Error: err.Error()})
		return res, err
	}
	res.Payment = payment
	res.Steps = append(res.Steps, StepResult{Name: "pay", OK: true})

	// 3) patch the reservation with the derived statuses
	patch := patchForPayment(payment.Status)
	updated, err := s.reservations.PatchReservation(ctx, reservation.ID, patch)
	if err != nil {
		res.Steps = append(res.Steps, StepResult{Name: "confirm", Error: err.Error()})
		return res, err
	}
	res.Reservation = updated
	res.Steps = append(res.Steps, StepResult{Name: "confirm", OK: true})

	// 4) best-effort refetch for display
	if final, rerr := s.reservations.GetReservation(ctx, reservation.ID); rerr == nil {
		res.Reservation = final
		res.Steps = append(res.Steps, StepResult{Name: "refetch", OK: true})
	} else {
		res.Steps = append(res.Steps, StepResult{Name: "refetch", Error: rerr.Error()})
	}

	// best-effort confirmation mail on a completed payment
	if s.notifier != nil && payment.Status == domain.PaymentCompleted {
		if nerr := s.notifier.BookingConfirmed(ctx, res.Reservation, form.GuestEmail); nerr != nil {
			log.Warn().Err(nerr).Int64("reservation", reservation.ID).
				Msg("confirmation email failed")
			res.Steps = append(res.Steps, StepResult{Name: "notify", Error: nerr.Error()})
		} else {
			res.Steps = append(res.Steps, StepResult{Name: "notify", OK: true})
		}
	}

	return res, nil
}

// patchForPayment maps the reported payment status onto the reservation
// fields: completed pays and confirms, anything pending stays pending.
func patchForPayment(paymentStatus string) domain.ReservationPatch {
	var p domain.ReservationPatch
	switch paymentStatus {
	case domain.PaymentCompleted:
		p.PaymentStatus = strPtr(domain.PaymentStatusPaid)
		p.Status = strPtr(domain.ReservationConfirmed)
	case domain.PaymentFailed:
		p.PaymentStatus = strPtr(domain.PaymentFailed)
	default:
		p.PaymentStatus = strPtr(domain.PaymentPending)
	}
	return p
}

func strPtr(s string) *string { return &s }

func round2(f float64) float64 { return math.Round(f*100) / 100 }
