package catalog

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// productsResponse mirrors the Admin REST products.json envelope. Only the
// fields the normalizer reads are declared.
type productsResponse struct {
	Products []RawProduct `json:"products"`
}

// RawProduct is the provider-shaped product record before normalization.
type RawProduct struct {
	ID       int64        `json:"id"`
	Title    string       `json:"title"`
	Handle   string       `json:"handle"`
	Vendor   string       `json:"vendor"`
	BodyHTML string       `json:"body_html"`
	Image    *rawImage    `json:"image"`
	Images   []rawImage   `json:"images"`
	Variants []rawVariant `json:"variants"`
}

type rawImage struct {
	Src string `json:"src"`
}

type rawVariant struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}

// Normalize maps a raw provider record into the uniform catalog item shape:
// numeric ids become strings, the first variant supplies price and variant
// id, the primary (or first) image supplies the media URL, and the HTML
// description is flattened to plain text.
func Normalize(p RawProduct) domain.CatalogItem {
	item := domain.CatalogItem{
		ID:          strconv.FormatInt(p.ID, 10),
		Name:        p.Title,
		Handle:      p.Handle,
		Vendor:      p.Vendor,
		Description: StripHTML(p.BodyHTML),
	}

	if len(p.Variants) > 0 {
		item.VariantID = strconv.FormatInt(p.Variants[0].ID, 10)
		item.Price = p.Variants[0].Price
	}

	switch {
	case p.Image != nil && p.Image.Src != "":
		item.ImageURL = p.Image.Src
	case len(p.Images) > 0:
		item.ImageURL = p.Images[0].Src
	}

	return item
}

var (
	tagRE        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// StripHTML flattens an HTML fragment to trimmed plain text: tags are
// removed, entities decoded, and whitespace runs collapsed to single spaces.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = tagRE.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
