// Package session keeps the live carts in memory, one per shopper session.
//
// The original storefront held the cart in a single browser session's
// memory; the service equivalent is this store. Each session has exactly one
// logical writer (the shopper), so the store only guards against map-level
// races, not against concurrent edits of the same cart.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/digiflydk/orderfly-cart/internal/domain/cart"
)

// ErrNotFound is returned when no cart exists for a session id.
var ErrNotFound = errors.New("cart session not found")

type entry struct {
	state   cart.State
	touched time.Time
}

// Store holds cart states keyed by session id, expiring idle sessions.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	carts map[string]*entry
}

// NewStore creates a Store that expires carts idle longer than ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		carts: make(map[string]*entry),
	}
}

// Create registers a new cart session and returns its state with the
// generated session id filled in.
func (s *Store) Create(state cart.State) cart.State {
	state.ID = uuid.New().String()

	s.mu.Lock()
	s.carts[state.ID] = &entry{state: state, touched: s.now()}
	s.mu.Unlock()

	return state
}

// Get returns the current state of a session.
func (s *Store) Get(id string) (cart.State, error) {
	s.mu.RLock()
	e, ok := s.carts[id]
	s.mu.RUnlock()

	if !ok {
		return cart.State{}, ErrNotFound
	}
	return e.state, nil
}

// Update applies a mutation action to the session's cart and stores the
// returned state. The action receives the current state and must return the
// next state or an error; on error nothing is stored.
func (s *Store) Update(id string, action func(cart.State) (cart.State, error)) (cart.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.carts[id]
	if !ok {
		return cart.State{}, ErrNotFound
	}

	next, err := action(e.state)
	if err != nil {
		return cart.State{}, err
	}
	e.state = next
	e.touched = s.now()
	return next, nil
}

// Delete removes a session, e.g. after successful order placement.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
}

// StartSweeper removes expired sessions every interval until ctx is done.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.carts {
		if e.touched.Before(cutoff) {
			delete(s.carts, id)
		}
	}
}
