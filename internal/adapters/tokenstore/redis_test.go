package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

func signedJWT(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(ttl).Unix(),
		"sub": "42",
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestRedis_SetTokensUsesJWTExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedis(mr.Addr(), "", 0)
	ctx := context.Background()

	access := signedJWT(t, time.Hour)
	if err := store.SetTokens(ctx, domain.TokenPair{Access: access, Refresh: "r1"}); err != nil {
		t.Fatalf("err: %v", err)
	}

	got, err := store.Token(ctx)
	if err != nil || got != access {
		t.Fatalf("token round trip failed: %q, %v", got, err)
	}
	ttl := mr.TTL(keyAccess)
	if ttl <= 50*time.Minute || ttl > time.Hour {
		t.Fatalf("access TTL should track the exp claim, got %v", ttl)
	}
	if ttl := mr.TTL(keyRefresh); ttl != 7*24*time.Hour {
		t.Fatalf("refresh TTL = %v, want a week", ttl)
	}
}

func TestRedis_OpaqueTokenGetsFallbackTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedis(mr.Addr(), "", 0)

	if err := store.SetTokens(context.Background(), domain.TokenPair{Access: "opaque-token"}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if ttl := mr.TTL(keyAccess); ttl != 24*time.Hour {
		t.Fatalf("opaque TTL = %v, want 24h", ttl)
	}
}

func TestRedis_ClearRemovesSessionAndBumpsChangedAt(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedis(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := store.SetTokens(ctx, domain.TokenPair{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("err: %v", err)
	}
	if tok, _ := store.Token(ctx); tok != "" {
		t.Fatalf("access survived clear: %q", tok)
	}
	if rt, _ := store.RefreshToken(ctx); rt != "" {
		t.Fatalf("refresh survived clear: %q", rt)
	}
	if !mr.Exists(keyChangedAt) {
		t.Fatalf("changed_at marker missing after clear")
	}
}

func TestRedis_RedirectIsReadOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedis(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := store.SetRedirect(ctx, "/checkout?hotel=1"); err != nil {
		t.Fatalf("err: %v", err)
	}
	first, err := store.Redirect(ctx)
	if err != nil || first != "/checkout?hotel=1" {
		t.Fatalf("redirect = %q, %v", first, err)
	}
	second, err := store.Redirect(ctx)
	if err != nil || second != "" {
		t.Fatalf("redirect must clear after first read, got %q", second)
	}
}

func TestTokenTTL_ExpiredTokenGetsMinimum(t *testing.T) {
	if d := tokenTTL(signedJWT(t, -time.Hour)); d != time.Minute {
		t.Fatalf("expired token TTL = %v, want 1m", d)
	}
}

func TestMemory_MirrorsRedisSemantics(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_ = store.SetTokens(ctx, domain.TokenPair{Access: "a1", Refresh: "r1"})
	// refresh survives an access-only rotation
	_ = store.SetTokens(ctx, domain.TokenPair{Access: "a2"})
	if rt, _ := store.RefreshToken(ctx); rt != "r1" {
		t.Fatalf("refresh lost on rotation: %q", rt)
	}

	_ = store.SetRedirect(ctx, "/stays/grand-makkah-hotel")
	if u, _ := store.Redirect(ctx); u != "/stays/grand-makkah-hotel" {
		t.Fatalf("redirect = %q", u)
	}
	if u, _ := store.Redirect(ctx); u != "" {
		t.Fatalf("redirect must be read-once, got %q", u)
	}
}
