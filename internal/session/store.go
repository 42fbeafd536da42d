// Package session implements the per-sender session store on Redis.
//
// Each profile is one JSON blob under "user:<id>"; "userEmail:<email>" is a
// secondary index mapping an email back to exactly one sender id (last writer
// wins). Save is a total overwrite: merging signals into the profile is the
// orchestrator's job, never the store's.
//
// Error semantics: store unavailability propagates as a hard failure of the
// caller's whole message turn. There are no retries at this layer. A missing
// record is (nil, nil), not an error.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

const (
	userPrefix  = "user:"
	emailPrefix = "userEmail:"
	seenPrefix  = "seen:"

	// seenTTL bounds how long a processed inbound message id is remembered
	// for webhook dedupe.
	seenTTL = 24 * time.Hour
)

// Store persists user profiles and carts in Redis.
type Store struct {
	rdb *redis.Client
}

// New wraps an existing Redis client.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Open parses a redis:// URL and returns a connected Store. Connection
// errors surface lazily on first use, matching go-redis behavior.
func Open(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return New(redis.NewClient(opts)), nil
}

// Close releases the underlying client.
func (s *Store) Close() error { return s.rdb.Close() }

func userKey(id string) string     { return userPrefix + id }
func emailKey(email string) string { return emailPrefix + email }

// Get returns the profile for id, or (nil, nil) when none exists yet.
func (s *Store) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	data, err := s.rdb.Get(ctx, userKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	var p domain.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal user %s: %w", id, err)
	}
	return &p, nil
}

// Save overwrites the whole profile record (last write wins) and, when an
// email is set, points the email index at this id.
func (s *Store) Save(ctx context.Context, p *domain.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", p.ID, err)
	}
	if err := s.rdb.Set(ctx, userKey(p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("save user %s: %w", p.ID, err)
	}
	if p.Email != "" {
		if err := s.rdb.Set(ctx, emailKey(p.Email), p.ID, 0).Err(); err != nil {
			return fmt.Errorf("index email for user %s: %w", p.ID, err)
		}
	}
	return nil
}

// FindByEmail resolves the secondary index and loads the referenced profile.
// A dangling or missing index entry yields (nil, nil).
func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	id, err := s.rdb.Get(ctx, emailKey(email)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	return s.Get(ctx, id)
}

// getOrNew loads the profile or starts a fresh one for id.
func (s *Store) getOrNew(ctx context.Context, id string) (*domain.UserProfile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &domain.UserProfile{ID: id}
	}
	return p, nil
}

// AddProductInterest records productID in the interest set and as the
// last-viewed product.
func (s *Store) AddProductInterest(ctx context.Context, id, productID string) error {
	p, err := s.getOrNew(ctx, id)
	if err != nil {
		return err
	}
	p.AddInterest(productID)
	return s.Save(ctx, p)
}

// SetLastProduct stamps the last-viewed product only.
func (s *Store) SetLastProduct(ctx context.Context, id, productID string) error {
	p, err := s.getOrNew(ctx, id)
	if err != nil {
		return err
	}
	p.LastProductID = productID
	return s.Save(ctx, p)
}

// SetLanguage persists the conversation language for id.
func (s *Store) SetLanguage(ctx context.Context, id, language string) error {
	p, err := s.getOrNew(ctx, id)
	if err != nil {
		return err
	}
	p.Language = language
	return s.Save(ctx, p)
}

// AddToCart increments the quantity for productID by 1, creating the line
// when absent.
func (s *Store) AddToCart(ctx context.Context, id, productID string) error {
	p, err := s.getOrNew(ctx, id)
	if err != nil {
		return err
	}
	if p.Cart == nil {
		p.Cart = map[string]int{}
	}
	p.Cart[productID]++
	return s.Save(ctx, p)
}

// RemoveFromCart deletes the line for productID. Removing an absent line is
// a no-op and does not touch the record.
func (s *Store) RemoveFromCart(ctx context.Context, id, productID string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.Cart == nil {
		return nil
	}
	if _, ok := p.Cart[productID]; !ok {
		return nil
	}
	delete(p.Cart, productID)
	return s.Save(ctx, p)
}

// UpdateCartItem sets the line to quantity when quantity > 0, otherwise
// deletes it. A zero-quantity line is never stored.
func (s *Store) UpdateCartItem(ctx context.Context, id, productID string, quantity int) error {
	p, err := s.getOrNew(ctx, id)
	if err != nil {
		return err
	}
	if p.Cart == nil {
		p.Cart = map[string]int{}
	}
	if quantity <= 0 {
		delete(p.Cart, productID)
	} else {
		p.Cart[productID] = quantity
	}
	return s.Save(ctx, p)
}

// GetCart returns the cart as lines ordered by product id for deterministic
// summaries. An absent profile or empty cart yields an empty slice.
func (s *Store) GetCart(ctx context.Context, id string) ([]domain.CartLine, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || len(p.Cart) == 0 {
		return []domain.CartLine{}, nil
	}
	lines := make([]domain.CartLine, 0, len(p.Cart))
	for productID, qty := range p.Cart {
		lines = append(lines, domain.CartLine{ProductID: productID, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// ClearCart empties the cart, keeping the rest of the profile intact.
func (s *Store) ClearCart(ctx context.Context, id string) error {
	p, err := s.getOrNew(ctx, id)
	if err != nil {
		return err
	}
	p.Cart = map[string]int{}
	return s.Save(ctx, p)
}

// MarkSeen records an inbound message id for webhook dedupe and reports
// whether it was already processed. The transport retries webhooks, so a
// duplicate must not run a second dialogue turn.
func (s *Store) MarkSeen(ctx context.Context, messageID string) (alreadySeen bool, err error) {
	set, err := s.rdb.SetNX(ctx, seenPrefix+messageID, 1, seenTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}
	return !set, nil
}
