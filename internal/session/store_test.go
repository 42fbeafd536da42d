package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestSaveGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &domain.UserProfile{
		ID:               "15551234567",
		Name:             "Ana",
		Email:            "ana@example.com",
		Language:         domain.LanguageSpanish,
		ProductInterests: []string{"p1", "p2"},
		LastProductID:    "p2",
		Cart:             map[string]int{"p1": 2},
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Get(ctx, "15551234567")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out == nil {
		t.Fatal("Get returned nil")
	}
	if out.Name != in.Name || out.Email != in.Email || out.Language != in.Language {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if out.Cart["p1"] != 2 {
		t.Errorf("cart = %v", out.Cart)
	}
}

func TestGet_Missing(t *testing.T) {
	s := newTestStore(t)
	p, err := s.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p != nil {
		t.Fatalf("p = %+v; want nil for missing profile", p)
	}
}

func TestFindByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &domain.UserProfile{ID: "u1", Email: "ana@x.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	p, err := s.FindByEmail(ctx, "ana@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if p == nil || p.ID != "u1" {
		t.Fatalf("p = %+v; want id u1", p)
	}

	if p, _ := s.FindByEmail(ctx, "missing@x.com"); p != nil {
		t.Fatalf("p = %+v; want nil", p)
	}
}

func TestFindByEmail_LastWriterWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Save(ctx, &domain.UserProfile{ID: "u1", Email: "shared@x.com"})
	_ = s.Save(ctx, &domain.UserProfile{ID: "u2", Email: "shared@x.com"})

	p, err := s.FindByEmail(ctx, "shared@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if p == nil || p.ID != "u2" {
		t.Fatalf("p = %+v; want the later writer u2", p)
	}
}

func TestAddToCart_Increments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.AddToCart(ctx, "u1", "p1")
	_ = s.AddToCart(ctx, "u1", "p1")

	lines, err := s.GetCart(ctx, "u1")
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("lines = %+v; want one line with qty 2", lines)
	}
}

func TestCart_NoZeroQuantityLines(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.AddToCart(ctx, "u1", "p1")
	_ = s.AddToCart(ctx, "u1", "p2")

	if err := s.UpdateCartItem(ctx, "u1", "p1", 0); err != nil {
		t.Fatalf("UpdateCartItem: %v", err)
	}
	if err := s.RemoveFromCart(ctx, "u1", "p2"); err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}

	p, _ := s.Get(ctx, "u1")
	for id, qty := range p.Cart {
		if qty <= 0 {
			t.Errorf("line %s has quantity %d; zero lines must be deleted", id, qty)
		}
	}
	lines, _ := s.GetCart(ctx, "u1")
	if len(lines) != 0 {
		t.Fatalf("lines = %+v; want empty cart", lines)
	}
}

func TestRemoveFromCart_AbsentIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RemoveFromCart(ctx, "ghost", "p1"); err != nil {
		t.Fatalf("RemoveFromCart on missing profile: %v", err)
	}
	if p, _ := s.Get(ctx, "ghost"); p != nil {
		t.Fatalf("no-op remove must not create a profile, got %+v", p)
	}
}

func TestUpdateCartItem_SetsQuantity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.AddToCart(ctx, "u1", "p1")
	if err := s.UpdateCartItem(ctx, "u1", "p1", 5); err != nil {
		t.Fatalf("UpdateCartItem: %v", err)
	}

	lines, _ := s.GetCart(ctx, "u1")
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("lines = %+v; want qty 5", lines)
	}
}

func TestGetCart_SortedByProductID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.AddToCart(ctx, "u1", "b")
	_ = s.AddToCart(ctx, "u1", "a")
	_ = s.AddToCart(ctx, "u1", "c")

	lines, _ := s.GetCart(ctx, "u1")
	if len(lines) != 3 || lines[0].ProductID != "a" || lines[2].ProductID != "c" {
		t.Fatalf("lines = %+v; want sorted by product id", lines)
	}
}

func TestClearCart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Save(ctx, &domain.UserProfile{ID: "u1", Name: "Ana", Cart: map[string]int{"p1": 3}})
	if err := s.ClearCart(ctx, "u1"); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}

	p, _ := s.Get(ctx, "u1")
	if len(p.Cart) != 0 {
		t.Errorf("cart = %v; want empty", p.Cart)
	}
	if p.Name != "Ana" {
		t.Errorf("ClearCart must not drop other fields, name = %q", p.Name)
	}
}

func TestCartHelpers_MutateOnlyCart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.SetLanguage(ctx, "u1", domain.LanguageEnglish)
	_ = s.AddProductInterest(ctx, "u1", "p9")
	_ = s.AddProductInterest(ctx, "u1", "p9")
	_ = s.SetLastProduct(ctx, "u1", "p3")

	p, _ := s.Get(ctx, "u1")
	if p.Language != domain.LanguageEnglish {
		t.Errorf("language = %q", p.Language)
	}
	if len(p.ProductInterests) != 1 || p.ProductInterests[0] != "p9" {
		t.Errorf("interests = %v; want set semantics", p.ProductInterests)
	}
	if p.LastProductID != "p3" {
		t.Errorf("last product = %q", p.LastProductID)
	}
}

func TestSave_LastWriteWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Two turns race on the same sender: each read its own copy, the later
	// save overwrites the whole record. Documented trade-off, not a crash.
	first, _ := s.getOrNew(ctx, "u1")
	second, _ := s.getOrNew(ctx, "u1")

	first.Cart = map[string]int{"p1": 1}
	_ = s.Save(ctx, first)

	second.Name = "Ana"
	_ = s.Save(ctx, second)

	p, _ := s.Get(ctx, "u1")
	if p.Name != "Ana" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.Cart) != 0 {
		t.Errorf("cart = %v; the second save's stale copy wins by design", p.Cart)
	}
}

func TestMarkSeen(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seen, err := s.MarkSeen(ctx, "SM123")
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if seen {
		t.Fatal("first delivery reported as already seen")
	}

	seen, _ = s.MarkSeen(ctx, "SM123")
	if !seen {
		t.Fatal("retry not reported as already seen")
	}
}
