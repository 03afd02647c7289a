package bookingapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// Auth endpoints are exempt from the 401 refresh policy: a 401 from login
// is a wrong password, not an expired session.

func (c *Client) Login(ctx context.Context, cr domain.Credentials) (domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login/", cr, &pair, reqOpts{authEndpoint: true}); err != nil {
		return domain.TokenPair{}, fmt.Errorf("login: %w", err)
	}
	if c.tokens != nil {
		if err := c.tokens.SetTokens(ctx, pair); err != nil {
			return domain.TokenPair{}, err
		}
	}
	c.publish(domain.AuthEvent{IsAuthenticated: true, Source: "login"})
	return pair, nil
}

func (c *Client) Register(ctx context.Context, cr domain.Credentials) (domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/register/", cr, &pair, reqOpts{authEndpoint: true}); err != nil {
		return domain.TokenPair{}, fmt.Errorf("register: %w", err)
	}
	if c.tokens != nil {
		if err := c.tokens.SetTokens(ctx, pair); err != nil {
			return domain.TokenPair{}, err
		}
	}
	c.publish(domain.AuthEvent{IsAuthenticated: true, Source: "login"})
	return pair, nil
}

func (c *Client) RefreshToken(ctx context.Context, refresh string) (domain.TokenPair, error) {
	var pair domain.TokenPair
	body := map[string]string{"refresh": refresh}
	if err := c.do(ctx, http.MethodPost, "/auth/token/refresh/", body, &pair, reqOpts{authEndpoint: true}); err != nil {
		return domain.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	return pair, nil
}

// Logout clears the persisted session and broadcasts the state change.
func (c *Client) Logout(ctx context.Context) error {
	if c.tokens != nil {
		if err := c.tokens.Clear(ctx); err != nil {
			return err
		}
	}
	c.publish(domain.AuthEvent{IsAuthenticated: false, Source: "logout"})
	return nil
}
