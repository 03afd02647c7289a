package tokenstore

import (
	"context"
	"sync"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// Memory is the in-process twin of the redis store, used in tests and
// single-binary runs without redis.
type Memory struct {
	mu       sync.Mutex
	access   string
	refresh  string
	redirect string
}

func NewMemory() *Memory { return &Memory{} }

func (s *Memory) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, nil
}

func (s *Memory) SetTokens(_ context.Context, p domain.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = p.Access
	if p.Refresh != "" {
		s.refresh = p.Refresh
	}
	return nil
}

func (s *Memory) RefreshToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, nil
}

func (s *Memory) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
	return nil
}

func (s *Memory) SetRedirect(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirect = url
	return nil
}

func (s *Memory) Redirect(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.redirect
	s.redirect = ""
	return u, nil
}
