// internal/adapters/bookingapi/client.go
package bookingapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/observability"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// Client is the single transport in front of the remote booking backend.
// Every outbound request goes through do(): rate limiting, Authorization
// injection from the token store, error-body normalization, and a
// single-flight refresh-and-replay on 401.
type Client struct {
	base    string
	key     string
	hc      *http.Client
	rl      *rate.Limiter
	tokens  domain.TokenStore
	publish func(domain.AuthEvent)

	refreshG singleflight.Group
	mock     bool
}

func New(base, key string, timeout time.Duration, rps int, tokens domain.TokenStore, publish func(domain.AuthEvent)) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if publish == nil {
		publish = func(domain.AuthEvent) {}
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		key:     key,
		hc:      &http.Client{Timeout: timeout},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		tokens:  tokens,
		publish: publish,
	}, nil
}

// UseMockData switches the hotel listing onto the legacy fixture path.
func (c *Client) UseMockData(on bool) { c.mock = on }

type reqOpts struct {
	// authEndpoint marks login/register/refresh calls, which are exempt
	// from the 401 refresh-and-replay policy.
	authEndpoint bool
	// retried is set on the single replay after a token refresh.
	retried bool
}

// do issues one JSON request. The body is marshaled up front so the request
// can be replayed after a token refresh.
func (c *Client) do(ctx context.Context, method, path string, body, out any, opts reqOpts) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	return c.send(ctx, method, path, payload, out, opts)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any, opts reqOpts) error {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	c.setHeaders(ctx, req, payload != nil)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("booking", path, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// no response at all: transport-level failure
		return fmt.Errorf("network error, check your connection: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("booking", path, resp.StatusCode, time.Since(start))

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("booking_api_request")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || resp.StatusCode == http.StatusNoContent {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)

	case resp.StatusCode == http.StatusUnauthorized && !opts.authEndpoint && !opts.retried:
		io.Copy(io.Discard, resp.Body)
		if err := c.refreshTokens(ctx); err != nil {
			return err
		}
		opts.retried = true
		return c.send(ctx, method, path, payload, out, opts)

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return newAPIError(resp, b)
	}
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-storefront/1.0")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	if c.tokens == nil {
		return
	}
	tok, err := c.tokens.Token(ctx)
	if err != nil || tok == "" {
		return
	}
	req.Header.Set("Authorization", authHeader(tok))
}

// authHeader picks the scheme by token shape: a three-segment token is a
// JWT and gets the Bearer prefix, anything else is a legacy opaque token.
func authHeader(tok string) string {
	if strings.Count(tok, ".") == 2 {
		return "Bearer " + tok
	}
	return "Token " + tok
}

// refreshTokens coalesces concurrent 401 handlers onto one refresh call.
// On failure the stored token is cleared and a logout event published.
func (c *Client) refreshTokens(ctx context.Context) error {
	_, err, _ := c.refreshG.Do("refresh", func() (any, error) {
		rt, err := c.tokens.RefreshToken(ctx)
		if err != nil || rt == "" {
			return nil, fmt.Errorf("%w: no refresh token", domain.ErrUnauthorized)
		}
		var pair domain.TokenPair
		body := map[string]string{"refresh": rt}
		if err := c.do(ctx, http.MethodPost, "/auth/token/refresh/", body, &pair, reqOpts{authEndpoint: true}); err != nil {
			return nil, fmt.Errorf("token refresh failed: %w", err)
		}
		if err := c.tokens.SetTokens(ctx, pair); err != nil {
			return nil, err
		}
		c.publish(domain.AuthEvent{IsAuthenticated: true, Source: "refresh"})
		return nil, nil
	})
	if err != nil {
		_ = c.tokens.Clear(ctx)
		c.publish(domain.AuthEvent{IsAuthenticated: false, Source: "logout"})
		log.Warn().Err(err).Msg("session expired, forcing logout")
		return err
	}
	return nil
}

// getRetry wraps do() with the backoff loop used by the hotel listing call:
// up to 4 attempts on 429/5xx, honoring Retry-After when the server sends
// one.
func (c *Client) getRetry(ctx context.Context, path string, out any) error {
	var lastErr error
	for i := 0; i < 4; i++ {
		err := c.do(ctx, http.MethodGet, path, nil, out, reqOpts{})
		if err == nil {
			return nil
		}
		var se *statusError
		if !errors.As(err, &se) || (se.status != http.StatusTooManyRequests && se.status < 500) {
			return err
		}
		lastErr = err
		wait := backoff(i)
		if se.retryAfter > 0 {
			wait = se.retryAfter
		}
		if i < 3 && sleepCtx(ctx, wait) {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		break
	}
	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent.
func retryAfter(h string) time.Duration {
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand to stay safe under concurrency.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
