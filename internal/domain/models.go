// Package domain defines the data model shared by the session store, the
// dialogue orchestrator, and the AI adapters: user profiles, normalized
// catalog items, cart lines, and the outbound dialogue payload.
package domain

// Supported conversation languages. Any other detector output is coerced to
// English before it reaches a profile.
const (
	LanguageEnglish = "English"
	LanguageSpanish = "Spanish"
)

// UserProfile is the per-sender session record, keyed by the sender's phone
// number (without transport prefix). It is stored as a single JSON blob and
// every mutation is a read-modify-write of the whole record.
//
// Fields:
//   - ID: sender id, primary key. Never empty once persisted.
//   - Name / Email: identity fields declared by the user in free text.
//     Email doubles as a secondary index (last writer wins on collision).
//   - Language: "English" or "Spanish"; set on first contact and changed
//     only through an explicit language-change turn.
//   - ProductInterests: set of product ids the user has shown interest in.
//     Insertion order is irrelevant; duplicates are never stored.
//   - LastProductID: most recently viewed product, used as implicit context
//     for ambiguous follow-up messages.
//   - Cart: product id -> quantity. A key is present iff quantity > 0.
type UserProfile struct {
	ID               string         `json:"id"`
	Name             string         `json:"name,omitempty"`
	Email            string         `json:"email,omitempty"`
	Language         string         `json:"language,omitempty"`
	ProductInterests []string       `json:"productInterests,omitempty"`
	LastProductID    string         `json:"lastProductId,omitempty"`
	Cart             map[string]int `json:"cart,omitempty"`
}

// AddInterest records productID in the interest set and stamps it as the
// last-viewed product. Adding an id twice is a no-op for the set.
func (p *UserProfile) AddInterest(productID string) {
	p.LastProductID = productID
	for _, id := range p.ProductInterests {
		if id == productID {
			return
		}
	}
	p.ProductInterests = append(p.ProductInterests, productID)
}

// CatalogItem is the normalized, read-through projection of a commerce
// backend product. It is refetched on every inbound message and never
// persisted.
//
// Price is kept as the provider's decimal text to avoid floating rounding;
// arithmetic happens in the orchestrator through a fixed-point type.
type CatalogItem struct {
	ID          string `json:"productId"`
	Name        string `json:"productName"`
	VariantID   string `json:"variantId,omitempty"`
	Handle      string `json:"handle,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Price       string `json:"price,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Description string `json:"description,omitempty"`
}

// CartLine is one (product, quantity) pair read back from a profile's cart.
// Quantity is always > 0; the store deletes lines instead of zeroing them.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// DialogueResult is the orchestrator's outbound payload. MediaURL and
// ActionURL are optional; when ActionURL is set the transport is expected to
// surface it as a distinct clickable action rather than inlining it in Body.
type DialogueResult struct {
	Body      string `json:"body"`
	MediaURL  string `json:"mediaUrl,omitempty"`
	ActionURL string `json:"actionUrl,omitempty"`
}
