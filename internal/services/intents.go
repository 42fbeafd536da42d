package services

import (
	"context"
	"strings"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// handleHello greets the user. The profile language is always re-stamped to
// the detected value: a user may greet in a different language than the one
// previously recorded.
func (s *DialogueService) handleHello(ctx context.Context, t *turn) (*domain.DialogueResult, error) {
	t.profile.Language = t.signals.Language
	if err := s.Store.Save(ctx, t.profile); err != nil {
		return nil, err
	}

	var (
		body string
		err  error
	)
	switch {
	case t.isNew:
		body, err = s.Generator.WelcomeResponse(ctx, t.text, s.StoreName, t.profile.Language)
	case t.profile.Name == "":
		body, err = s.Generator.AskNameResponse(ctx, t.text, s.StoreName, t.profile.Language)
	default:
		lastName := ""
		if t.lastProduct != nil {
			lastName = t.lastProduct.Name
		}
		body, err = s.Generator.GreetingResponse(ctx, t.text, s.StoreName, t.profile.Name, t.profile.Language, lastName)
	}
	if err != nil {
		return nil, err
	}
	return &domain.DialogueResult{Body: body}, nil
}

// handleChangeLanguage honors an explicit language keyword in the raw text
// and falls back to the statistically detected language when none is
// present. The confirmation is generated in the newly set language.
func (s *DialogueService) handleChangeLanguage(ctx context.Context, t *turn) (*domain.DialogueResult, error) {
	lang := requestedLanguage(t.text)
	if lang == "" {
		lang = t.signals.Language
	}

	t.profile.Language = lang
	if err := s.Store.Save(ctx, t.profile); err != nil {
		return nil, err
	}

	body, err := s.Generator.LanguageChangedResponse(ctx, t.text, s.StoreName, t.profile.Name, lang)
	if err != nil {
		return nil, err
	}
	return &domain.DialogueResult{Body: body}, nil
}

// requestedLanguage scans for explicit language keywords, returning "" when
// neither language is named.
func requestedLanguage(text string) string {
	l := strings.ToLower(text)
	switch {
	case strings.Contains(l, "spanish"), strings.Contains(l, "español"), strings.Contains(l, "espanol"):
		return domain.LanguageSpanish
	case strings.Contains(l, "english"), strings.Contains(l, "inglés"), strings.Contains(l, "ingles"):
		return domain.LanguageEnglish
	}
	return ""
}

func (s *DialogueService) handleStoreInformation(ctx context.Context, t *turn) (*domain.DialogueResult, error) {
	body, err := s.Generator.StoreInformationResponse(ctx, t.text, s.StoreName, t.profile.Name, t.profile.Language)
	if err != nil {
		return nil, err
	}
	return &domain.DialogueResult{Body: body}, nil
}

func (s *DialogueService) handleListProducts(ctx context.Context, t *turn) (*domain.DialogueResult, error) {
	body, err := s.Generator.ListProductsResponse(ctx, t.text, t.catalog, s.StoreName, t.profile.Name, t.profile.Language)
	if err != nil {
		return nil, err
	}
	return &domain.DialogueResult{Body: body}, nil
}

// handleViewProduct matches a product, describes it with image media and a
// storefront deep link, and records interest + last-viewed. A miss produces
// the not-found reply with no state mutation.
func (s *DialogueService) handleViewProduct(ctx context.Context, t *turn) (*domain.DialogueResult, error) {
	matchedID, err := s.Matcher.MatchProduct(ctx, t.text, t.catalog)
	if err != nil {
		return nil, err
	}
	product := findProduct(t.catalog, matchedID)
	if product == nil {
		body, err := s.Generator.ProductNotFoundResponse(ctx, t.text, s.StoreName, t.profile.Name, t.profile.Language)
		if err != nil {
			return nil, err
		}
		return &domain.DialogueResult{Body: body}, nil
	}

	body, err := s.Generator.ProductDetailResponse(ctx, t.text, *product, s.StoreName, t.profile.Name, t.profile.Language)
	if err != nil {
		return nil, err
	}

	t.profile.AddInterest(product.ID)
	if err := s.Store.Save(ctx, t.profile); err != nil {
		return nil, err
	}

	return &domain.DialogueResult{
		Body:      body,
		MediaURL:  product.ImageURL,
		ActionURL: s.Links.ProductURL(product.Handle),
	}, nil
}

// handleBuyProduct resolves a product (direct match, or the last-viewed
// product as disambiguation context), adds one unit to the cart, and records
// interest + last-viewed.
func (s *DialogueService) handleBuyProduct(ctx context.Context, t *turn) (*domain.DialogueResult, error) {
	matchedID, err := s.Matcher.MatchProduct(ctx, t.text, t.catalog)
	if err != nil {
		return nil, err
	}
	product := findProduct(t.catalog, matchedID)
	if product == nil {
		product = t.lastProduct
	}
	if product == nil {
		body, err := s.Generator.ProductNotFoundResponse(ctx, t.text, s.StoreName, t.profile.Name, t.profile.Language)
		if err != nil {
			return nil, err
		}
		return &domain.DialogueResult{Body: body}, nil
	}

	body, err := s.Generator.BuyProductResponse(ctx, t.text, *product, s.StoreName, t.profile.Name, t.profile.Language)
	if err != nil {
		return nil, err
	}

	t.profile.AddInterest(product.ID)
	if err := s.Store.Save(ctx, t.profile); err != nil {
		return nil, err
	}
	if err := s.Store.AddToCart(ctx, t.senderID, product.ID); err != nil {
		return nil, err
	}

	return &domain.DialogueResult{Body: body, MediaURL: product.ImageURL}, nil
}

// handleCart optionally applies a keyword-classified cart operation on a
// matched product, then always re-reads the cart and replies with a line
// summary and running total.
func (s *DialogueService) handleCart(ctx context.Context, t *turn) (*domain.DialogueResult, error) {
	matchedID, err := s.Matcher.MatchProduct(ctx, t.text, t.catalog)
	if err != nil {
		return nil, err
	}

	if product := findProduct(t.catalog, matchedID); product != nil {
		switch classifyCartOp(t.text) {
		case cartOpRemove:
			err = s.Store.RemoveFromCart(ctx, t.senderID, product.ID)
		case cartOpUpdate:
			err = s.Store.UpdateCartItem(ctx, t.senderID, product.ID, firstInt(t.text, 1))
		case cartOpAdd:
			err = s.Store.AddToCart(ctx, t.senderID, product.ID)
		case cartOpNone:
			// A product was referenced but no operation requested.
		}
		if err != nil {
			return nil, err
		}
	}

	lines, err := s.Store.GetCart(ctx, t.senderID)
	if err != nil {
		return nil, err
	}
	summary, total := cartSummary(lines, t.catalog)

	body, err := s.Generator.CartSummaryResponse(ctx, t.text, summary, total, s.StoreName, t.profile.Name, t.profile.Language)
	if err != nil {
		return nil, err
	}
	return &domain.DialogueResult{Body: body}, nil
}

// handleCheckout summarizes the cart and builds a cart-permalink deep link
// encoding each line as variantId:quantity (productId when no variant is
// resolvable). An empty cart produces the no-items reply with no link.
func (s *DialogueService) handleCheckout(ctx context.Context, t *turn) (*domain.DialogueResult, error) {
	lines, err := s.Store.GetCart(ctx, t.senderID)
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		body, err := s.Generator.CheckoutResponse(ctx, t.text, "", "", s.StoreName, t.profile.Name, t.profile.Language)
		if err != nil {
			return nil, err
		}
		return &domain.DialogueResult{Body: body}, nil
	}

	summary, _ := cartSummary(lines, t.catalog)
	link := s.Links.CartURL(checkoutEntries(lines, t.catalog))

	body, err := s.Generator.CheckoutResponse(ctx, t.text, summary, link, s.StoreName, t.profile.Name, t.profile.Language)
	if err != nil {
		return nil, err
	}
	return &domain.DialogueResult{Body: body, ActionURL: link}, nil
}

func (s *DialogueService) handleOther(ctx context.Context, t *turn, intent domain.Intent) (*domain.DialogueResult, error) {
	body, err := s.Generator.ChatWithBasePrompt(ctx, s.StoreName, t.profile.Name, string(intent), t.text, t.profile.Language)
	if err != nil {
		return nil, err
	}
	return &domain.DialogueResult{Body: body}, nil
}
