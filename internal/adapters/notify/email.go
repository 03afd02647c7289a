package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

type Email struct {
	client *sendgrid.Client
	from   string
}

func NewEmail(apiKey, from string) *Email {
	return &Email{client: sendgrid.NewSendClient(apiKey), from: from}
}

// BookingConfirmed sends the post-checkout confirmation. Failures are the
// caller's to ignore; checkout never blocks on mail.
func (e *Email) BookingConfirmed(_ context.Context, r domain.Reservation, email string) error {
	subject := fmt.Sprintf("Booking confirmed: reservation #%d", r.ID)
	body := fmt.Sprintf(
		"Your reservation #%d is confirmed.\nStay: %s to %s\nGuests: %d adults, %d children\nTotal: %.2f\n",
		r.ID, r.FromDate, r.ToDate, r.Adults, r.Children, r.TotalPrice,
	)
	from := mail.NewEmail("Bookings", e.from)
	to := mail.NewEmail(r.GuestName, email)
	msg := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := e.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	log.Info().Int64("reservation", r.ID).Msg("confirmation email sent")
	return nil
}
