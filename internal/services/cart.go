package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// cartOp is the mutation requested by a cart-intent message.
type cartOp int

const (
	cartOpNone cartOp = iota
	cartOpRemove
	cartOpUpdate
	cartOpAdd
)

var (
	removeRE = regexp.MustCompile(`(?i)\b(remove|delete)\b`)
	updateRE = regexp.MustCompile(`(?i)\b(update|change|edit)\b`)
	addRE    = regexp.MustCompile(`(?i)\b(add|buy|purchase)\b`)
	intRE    = regexp.MustCompile(`\d+`)
)

// classifyCartOp maps cart-intent phrasing onto an operation. Any phrasing
// without a recognized keyword yields cartOpNone (summary only).
func classifyCartOp(text string) cartOp {
	switch {
	case removeRE.MatchString(text):
		return cartOpRemove
	case updateRE.MatchString(text):
		return cartOpUpdate
	case addRE.MatchString(text):
		return cartOpAdd
	}
	return cartOpNone
}

// firstInt returns the first integer literal in text, or def when there is
// none. Multiple literals resolve deterministically to the first.
func firstInt(text string, def int) int {
	m := intRE.FindString(text)
	if m == "" {
		return def
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return def
	}
	return n
}

// cartSummary renders cart lines as "Name xQty" joined by commas and computes
// the running total (unit price × quantity). Products missing from the
// catalog fall back to their raw id; a missing or unparseable price counts
// as zero. All arithmetic is fixed-point decimal.
func cartSummary(lines []domain.CartLine, items []domain.CatalogItem) (summary, total string) {
	parts := make([]string, 0, len(lines))
	sum := decimal.Zero

	for _, line := range lines {
		name := line.ProductID
		price := decimal.Zero
		if p := findProduct(items, line.ProductID); p != nil {
			name = p.Name
			if parsed, err := decimal.NewFromString(p.Price); err == nil {
				price = parsed
			}
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, line.Quantity))
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return strings.Join(parts, ", "), sum.StringFixed(2)
}

// checkoutEntries encodes each cart line as "variantId:quantity" for the
// cart permalink, falling back to the product id when no variant id is
// resolvable (product gone from the catalog, or variant-less product).
func checkoutEntries(lines []domain.CartLine, items []domain.CatalogItem) []string {
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		id := line.ProductID
		if p := findProduct(items, line.ProductID); p != nil && p.VariantID != "" {
			id = p.VariantID
		}
		entries = append(entries, fmt.Sprintf("%s:%d", id, line.Quantity))
	}
	return entries
}
