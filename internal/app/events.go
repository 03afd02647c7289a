package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// AuthBroadcaster fans auth-state changes out to any subscriber (cache
// invalidation, session watchers) without threading state through call
// chains. Publish never blocks: a slow subscriber drops events rather than
// stalling the request path.
type AuthBroadcaster struct {
	mu   sync.Mutex
	subs []chan domain.AuthEvent
}

func NewAuthBroadcaster() *AuthBroadcaster { return &AuthBroadcaster{} }

func (b *AuthBroadcaster) Subscribe() <-chan domain.AuthEvent {
	ch := make(chan domain.AuthEvent, 8)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *AuthBroadcaster) Publish(ev domain.AuthEvent) {
	b.mu.Lock()
	subs := make([]chan domain.AuthEvent, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	log.Debug().Bool("authenticated", ev.IsAuthenticated).Str("source", ev.Source).
		Msg("auth_state_changed")
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
