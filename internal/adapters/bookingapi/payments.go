package bookingapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

func (c *Client) CreatePayment(ctx context.Context, req domain.PaymentRequest) (domain.Payment, error) {
	var out domain.Payment
	if err := c.do(ctx, http.MethodPost, "/payments/", req, &out, reqOpts{}); err != nil {
		return domain.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return out, nil
}

func (c *Client) ProcessPayment(ctx context.Context, paymentID int64) (domain.Payment, error) {
	var out domain.Payment
	path := fmt.Sprintf("/payments/%d/process/", paymentID)
	if err := c.do(ctx, http.MethodPost, path, nil, &out, reqOpts{}); err != nil {
		return domain.Payment{}, fmt.Errorf("process payment %d: %w", paymentID, err)
	}
	return out, nil
}

func (c *Client) RefundPayment(ctx context.Context, paymentID int64) (domain.Payment, error) {
	var out domain.Payment
	path := fmt.Sprintf("/payments/%d/refund/", paymentID)
	if err := c.do(ctx, http.MethodPost, path, nil, &out, reqOpts{}); err != nil {
		return domain.Payment{}, fmt.Errorf("refund payment %d: %w", paymentID, err)
	}
	return out, nil
}

func (c *Client) VerifyPayment(ctx context.Context, transactionID string) (domain.Payment, error) {
	var out domain.Payment
	path := "/payments/verify/" + url.PathEscape(transactionID) + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, &out, reqOpts{}); err != nil {
		return domain.Payment{}, fmt.Errorf("verify payment %s: %w", transactionID, err)
	}
	return out, nil
}
