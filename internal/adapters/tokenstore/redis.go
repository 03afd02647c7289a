// Package tokenstore persists the session material the API client reads on
// every request. Fixed keys mirror the storage contract the web client
// used: access token, refresh token, post-login redirect URL, and the
// auth-change timestamp other processes watch.
package tokenstore

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

const (
	keyAccess    = "auth:token"
	keyRefresh   = "auth:refresh"
	keyRedirect  = "auth:redirect_url"
	keyChangedAt = "auth:changed_at"

	redirectTTL = 30 * time.Minute
)

type Redis struct{ c *redis.Client }

func NewRedis(addr, pass string, db int) *Redis {
	return &Redis{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (s *Redis) Token(ctx context.Context) (string, error) {
	v, err := s.c.Get(ctx, keyAccess).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (s *Redis) SetTokens(ctx context.Context, p domain.TokenPair) error {
	ttl := tokenTTL(p.Access)
	if err := s.c.Set(ctx, keyAccess, p.Access, ttl).Err(); err != nil {
		return err
	}
	if p.Refresh != "" {
		// refresh tokens outlive access tokens; keep them a week at most
		if err := s.c.Set(ctx, keyRefresh, p.Refresh, 7*24*time.Hour).Err(); err != nil {
			return err
		}
	}
	return s.touch(ctx)
}

func (s *Redis) RefreshToken(ctx context.Context) (string, error) {
	v, err := s.c.Get(ctx, keyRefresh).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (s *Redis) Clear(ctx context.Context) error {
	if err := s.c.Del(ctx, keyAccess, keyRefresh).Err(); err != nil {
		return err
	}
	return s.touch(ctx)
}

func (s *Redis) SetRedirect(ctx context.Context, url string) error {
	return s.c.Set(ctx, keyRedirect, url, redirectTTL).Err()
}

func (s *Redis) Redirect(ctx context.Context) (string, error) {
	v, err := s.c.GetDel(ctx, keyRedirect).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

// touch bumps the change timestamp so sessions in other processes notice
// login/logout without a direct signal.
func (s *Redis) touch(ctx context.Context) error {
	return s.c.Set(ctx, keyChangedAt, time.Now().UTC().Format(time.RFC3339), 0).Err()
}

// tokenTTL derives the storage TTL from the JWT exp claim when the access
// token is a JWT; opaque tokens fall back to a day.
func tokenTTL(tok string) time.Duration {
	const fallback = 24 * time.Hour
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	d := time.Until(exp.Time)
	if d <= 0 {
		log.Warn().Msg("storing already-expired access token")
		return time.Minute
	}
	return d
}
