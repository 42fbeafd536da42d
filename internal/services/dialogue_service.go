// Package services – DialogueService
//
// This file implements the dialogue orchestration engine: the component that
// turns one inbound WhatsApp message plus persisted session state into one
// outbound reply plus state mutations. It merges the independent per-turn
// signals (detected language, declared identity, classified intent, catalog
// match, cart contents) into a single consistent decision.
//
// Persistence follows a two-phase update. Phase 1 merges extracted identity
// signals (email, name, first-contact language) into the profile and saves
// them eagerly, so a crash later in the turn cannot lose declared identity.
// Phase 2 executes exactly one intent branch, which may mutate cart/interest
// state and persists its own changes.
//
// Collaborator failures (catalog, classifier, generator, store) propagate
// unmodified to the caller: a partial reply built on wrong catalog or intent
// context would mislead the user. Soft misses (no product match, empty cart,
// missing profile fields) are never errors and always produce a valid reply.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tiendabot/go-shop-assistant/internal/catalog"
	"github.com/tiendabot/go-shop-assistant/internal/domain"
	"github.com/tiendabot/go-shop-assistant/internal/nlp"
)

// CatalogProvider fetches the full normalized product list for a turn.
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) ([]domain.CatalogItem, error)
}

// SessionStore defines the session persistence contract required by the
// orchestrator. Save is a total overwrite; merging is done here, not in the
// store.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.UserProfile, error)
	Save(ctx context.Context, p *domain.UserProfile) error
	FindByEmail(ctx context.Context, email string) (*domain.UserProfile, error)

	AddToCart(ctx context.Context, id, productID string) error
	RemoveFromCart(ctx context.Context, id, productID string) error
	UpdateCartItem(ctx context.Context, id, productID string, quantity int) error
	GetCart(ctx context.Context, id string) ([]domain.CartLine, error)
	ClearCart(ctx context.Context, id string) error
}

// IntentClassifier labels a message. Any label is acceptable; unrecognized
// values are mapped to the fallback intent here, never treated as errors.
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, text string) (string, error)
}

// ProductMatcher maps free text plus the catalog onto zero-or-one product
// id ("" means no match).
type ProductMatcher interface {
	MatchProduct(ctx context.Context, text string, catalog []domain.CatalogItem) (string, error)
}

// ResponseGenerator produces the final user-facing text, one operation per
// intent plus a generic fallback.
type ResponseGenerator interface {
	WelcomeResponse(ctx context.Context, userMessage, storeName, language string) (string, error)
	AskNameResponse(ctx context.Context, userMessage, storeName, language string) (string, error)
	GreetingResponse(ctx context.Context, userMessage, storeName, userName, language, lastProductName string) (string, error)
	LanguageChangedResponse(ctx context.Context, userMessage, storeName, userName, language string) (string, error)
	StoreInformationResponse(ctx context.Context, userMessage, storeName, userName, language string) (string, error)
	ListProductsResponse(ctx context.Context, userMessage string, catalog []domain.CatalogItem, storeName, userName, language string) (string, error)
	ProductDetailResponse(ctx context.Context, userMessage string, product domain.CatalogItem, storeName, userName, language string) (string, error)
	BuyProductResponse(ctx context.Context, userMessage string, product domain.CatalogItem, storeName, userName, language string) (string, error)
	ProductNotFoundResponse(ctx context.Context, userMessage, storeName, userName, language string) (string, error)
	CartSummaryResponse(ctx context.Context, userMessage, summary, total, storeName, userName, language string) (string, error)
	CheckoutResponse(ctx context.Context, userMessage, summary, link, storeName, userName, language string) (string, error)
	ChatWithBasePrompt(ctx context.Context, storeName, userName, intent, userInput, language string) (string, error)
}

// DialogueService sequences catalog fetch, extraction, profile merge, intent
// classification, and per-intent dispatch for one inbound message.
//
// The session record is the only shared mutable resource and it is not
// locked: two concurrent turns for the same sender each read-modify-write
// the whole profile and the last save wins. That lost-update hazard is an
// accepted trade-off for low-frequency chat traffic.
type DialogueService struct {
	Catalog    CatalogProvider
	Store      SessionStore
	Classifier IntentClassifier
	Matcher    ProductMatcher
	Generator  ResponseGenerator

	Links     catalog.LinkBuilder
	StoreName string
}

// turn carries the per-message state threaded through the intent handlers.
type turn struct {
	senderID string
	text     string
	signals  nlp.Signals
	catalog  []domain.CatalogItem
	profile  *domain.UserProfile

	// isNew is true when no stored profile existed for the sender at turn
	// start (and none was recovered through the email index).
	isNew bool

	// lastProduct is the catalog item for the profile's last-viewed product
	// id, nil when unset or no longer in the catalog.
	lastProduct *domain.CatalogItem
}

// ProcessMessage runs one full dialogue turn for the sender and returns the
// outbound payload. State mutated by the turn is persisted before return.
func (s *DialogueService) ProcessMessage(ctx context.Context, senderID, text string) (*domain.DialogueResult, error) {
	tr := otel.Tracer("services/DialogueService")
	ctx, span := tr.Start(ctx, "ProcessMessage",
		trace.WithAttributes(attribute.String("sender.id", senderID)),
	)
	defer span.End()

	// 1. Catalog, refetched every turn.
	items, err := s.Catalog.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Pure text analysis.
	signals := nlp.Extract(text)

	t := &turn{
		senderID: senderID,
		text:     text,
		signals:  signals,
		catalog:  items,
	}

	// 3–6. Load, merge, and eagerly persist identity.
	if err := s.loadAndMergeProfile(ctx, t); err != nil {
		return nil, err
	}

	// 7. Conversational context from the last-viewed product.
	if t.profile.LastProductID != "" {
		t.lastProduct = findProduct(items, t.profile.LastProductID)
	}

	// 8. Classification; unrecognized labels become the fallback intent.
	label, err := s.Classifier.ClassifyIntent(ctx, text)
	if err != nil {
		return nil, err
	}
	intent := domain.ParseIntent(label)
	span.SetAttributes(attribute.String("dialogue.intent", string(intent)))

	// 9. Exactly one branch executes.
	switch intent {
	case domain.IntentHello:
		return s.handleHello(ctx, t)
	case domain.IntentChangeLanguage:
		return s.handleChangeLanguage(ctx, t)
	case domain.IntentStoreInformation:
		return s.handleStoreInformation(ctx, t)
	case domain.IntentListProducts:
		return s.handleListProducts(ctx, t)
	case domain.IntentViewProduct:
		return s.handleViewProduct(ctx, t)
	case domain.IntentBuyProduct:
		return s.handleBuyProduct(ctx, t)
	case domain.IntentCart:
		return s.handleCart(ctx, t)
	case domain.IntentCheckout:
		return s.handleCheckout(ctx, t)
	case domain.IntentOther:
		return s.handleOther(ctx, t, intent)
	default:
		// ParseIntent collapses unknown labels to IntentOther, so this arm
		// only fires if a new Intent constant is added without a handler.
		return s.handleOther(ctx, t, intent)
	}
}

// loadAndMergeProfile implements steps 3–6 of the turn: identity merge via
// the email index, lazy profile creation, and the eager two-phase saves for
// email, name, and first-contact language.
func (s *DialogueService) loadAndMergeProfile(ctx context.Context, t *turn) error {
	profile, err := s.Store.Get(ctx, t.senderID)
	if err != nil {
		return err
	}

	// A returning user on a new channel binding: re-key the record found by
	// email to the current sender id and persist.
	if profile == nil && t.signals.Email != "" {
		existing, err := s.Store.FindByEmail(ctx, t.signals.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.ID = t.senderID
			if err := s.Store.Save(ctx, existing); err != nil {
				return err
			}
			profile = existing
		}
	}

	if profile == nil {
		profile = &domain.UserProfile{ID: t.senderID}
		t.isNew = true
	}
	t.profile = profile

	// Identity fields are saved eagerly, independent of the intent branch,
	// so a crash later in the turn cannot lose declared identity.
	if t.signals.Email != "" {
		profile.Email = t.signals.Email
		if err := s.Store.Save(ctx, profile); err != nil {
			return err
		}
	}
	if t.signals.Name != "" {
		profile.Name = t.signals.Name
		if err := s.Store.Save(ctx, profile); err != nil {
			return err
		}
	}
	if profile.Language == "" {
		profile.Language = t.signals.Language
		if err := s.Store.Save(ctx, profile); err != nil {
			return err
		}
	}
	return nil
}

// findProduct returns the catalog item with the given id, or nil.
func findProduct(items []domain.CatalogItem, id string) *domain.CatalogItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
