package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSessionTTL      = 2 * time.Hour
	DefaultSessionCapacity = 10000
)

var ErrSessionStoreFull = errors.New("session store is full")

// SessionStore keeps one value per browser session in memory. Entries expire after
// ttl without access; every Load pushes the deadline forward. A live session is never
// evicted to make room: once capacity sessions are live, new ones are refused with
// ErrSessionStoreFull.
type SessionStore[T any] struct {
	mu       sync.Mutex
	client   *ristretto.Cache
	cache    *cache.Cache[T]
	ttl      time.Duration
	capacity int
	// last access of every live session
	seen    map[string]time.Time
	factory func() T
}

func NewSessionStore[T any](ttl time.Duration, capacity int, factory func() T) (*SessionStore[T], error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(capacity) * 10,
		// every entry costs 1; the headroom covers expired entries ristretto has not
		// cleaned up yet, so admission never has to evict a live one
		MaxCost:            int64(capacity) * 2,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	return &SessionStore[T]{
		client:   ristrettoCache,
		cache:    cache.New[T](ristrettoStore),
		ttl:      ttl,
		capacity: capacity,
		seen:     make(map[string]time.Time),
		factory:  factory,
	}, nil
}

// Load returns the value of session id, creating it when the session is new or expired.
// The bool reports whether a fresh value was created.
func (s *SessionStore[T]) Load(ctx context.Context, id string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if value, err := s.cache.Get(ctx, id); err == nil {
		s.save(ctx, id, value, now)
		return value, false, nil
	}

	if _, live := s.seen[id]; !live && len(s.seen) >= s.capacity {
		s.pruneExpired(now)
		if len(s.seen) >= s.capacity {
			var zero T
			return zero, false, ErrSessionStoreFull
		}
	}
	value := s.factory()
	s.save(ctx, id, value, now)
	return value, true, nil
}

// Delete ends session id and frees its slot.
func (s *SessionStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.seen, id)
	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	s.client.Wait()
	return nil
}

func (s *SessionStore[T]) Close() {
	s.client.Close()
}

func (s *SessionStore[T]) save(ctx context.Context, id string, value T, now time.Time) {
	err := s.cache.Set(ctx, id, value, store.WithCost(1), store.WithExpiration(s.ttl))
	if err != nil {
		// the value is still usable for this request, it just won't survive it
		log.Ctx(ctx).Warn().Err(err).Str("session_id", id).Msg("session was not stored")
		return
	}
	s.client.Wait()
	s.seen[id] = now
}

func (s *SessionStore[T]) pruneExpired(now time.Time) {
	for id, last := range s.seen {
		if now.Sub(last) >= s.ttl {
			delete(s.seen, id)
		}
	}
}
