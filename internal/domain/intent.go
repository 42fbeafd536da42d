package domain

import "strings"

// Intent is the closed classification of what the user wants in a single
// message. The classifier may return arbitrary text; ParseIntent is the only
// place that maps labels to values, so the orchestrator's dispatch switch can
// stay exhaustive over this set.
type Intent string

const (
	IntentHello            Intent = "hello"
	IntentChangeLanguage   Intent = "change-language"
	IntentStoreInformation Intent = "store-information"
	IntentListProducts     Intent = "list-products"
	IntentViewProduct      Intent = "view-product-detail"
	IntentBuyProduct       Intent = "buy-product"
	IntentCart             Intent = "cart"
	IntentCheckout         Intent = "checkout"
	IntentOther            Intent = "other"
)

// AllIntents lists every classifiable intent except the fallback. The
// classifier prompt is built from this slice so the closed set lives in
// exactly one place.
var AllIntents = []Intent{
	IntentHello,
	IntentChangeLanguage,
	IntentStoreInformation,
	IntentListProducts,
	IntentViewProduct,
	IntentBuyProduct,
	IntentCart,
	IntentCheckout,
}

// ParseIntent maps a raw classifier label to an Intent. Labels are matched
// case-insensitively after trimming; anything unrecognized becomes
// IntentOther, never an error.
func ParseIntent(label string) Intent {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, in := range AllIntents {
		if l == string(in) {
			return in
		}
	}
	return IntentOther
}
