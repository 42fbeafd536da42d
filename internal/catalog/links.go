package catalog

import (
	"fmt"
	"strings"
)

// LinkBuilder derives storefront deep links from the configured shop domain.
// All builders return "" when the domain (or a required part) is missing, so
// callers can treat an empty string as "no link available".
type LinkBuilder struct {
	ShopDomain string
}

// ProductURL returns the storefront page for a product handle.
func (l LinkBuilder) ProductURL(handle string) string {
	if l.ShopDomain == "" || handle == "" {
		return ""
	}
	return fmt.Sprintf("https://%s/products/%s", l.ShopDomain, handle)
}

// CartURL returns a cart permalink preloading the given "variantId:quantity"
// entries, joined by commas.
func (l LinkBuilder) CartURL(entries []string) string {
	if l.ShopDomain == "" || len(entries) == 0 {
		return ""
	}
	return fmt.Sprintf("https://%s/cart/%s", l.ShopDomain, strings.Join(entries, ","))
}
