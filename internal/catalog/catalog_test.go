package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tiendabot/go-shop-assistant/internal/config"
)

func TestStripHTML(t *testing.T) {
	cases := map[string]string{
		"":                                  "",
		"plain text":                        "plain text",
		"<p>Hello <b>world</b></p>":         "Hello world",
		"<p>a</p><p>b</p>":                  "a b",
		"Fish &amp; Chips":                  "Fish & Chips",
		"  <div>\n  spaced\t out </div>  ":  "spaced out",
		`<img src="x.png"/>caption`:         "caption",
		"<ul><li>one</li><li>two</li></ul>": "one two",
	}
	for in, want := range cases {
		if got := StripHTML(in); got != want {
			t.Errorf("StripHTML(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	p := RawProduct{
		ID:       632910392,
		Title:    "IPod Nano - 8GB",
		Handle:   "ipod-nano",
		Vendor:   "Apple",
		BodyHTML: "<strong>Good, clean</strong> music player.",
		Image:    &rawImage{Src: "https://cdn.example/ipod.png"},
		Images:   []rawImage{{Src: "https://cdn.example/alt.png"}},
		Variants: []rawVariant{
			{ID: 808950810, Price: "199.00"},
			{ID: 808950811, Price: "249.00"},
		},
	}

	item := Normalize(p)

	if item.ID != "632910392" {
		t.Errorf("ID = %q", item.ID)
	}
	if item.Name != "IPod Nano - 8GB" {
		t.Errorf("Name = %q", item.Name)
	}
	if item.VariantID != "808950810" {
		t.Errorf("VariantID = %q; want first variant", item.VariantID)
	}
	if item.Price != "199.00" {
		t.Errorf("Price = %q", item.Price)
	}
	if item.ImageURL != "https://cdn.example/ipod.png" {
		t.Errorf("ImageURL = %q; want primary image", item.ImageURL)
	}
	if item.Description != "Good, clean music player." {
		t.Errorf("Description = %q", item.Description)
	}
}

func TestNormalize_FallsBackToFirstImage(t *testing.T) {
	p := RawProduct{ID: 1, Title: "x", Images: []rawImage{{Src: "a.png"}, {Src: "b.png"}}}
	if got := Normalize(p).ImageURL; got != "a.png" {
		t.Fatalf("ImageURL = %q; want %q", got, "a.png")
	}
}

func TestFetchCatalog_NotConfigured(t *testing.T) {
	c := NewClient(config.ShopifyConfig{})
	if _, err := c.FetchCatalog(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v; want ErrNotConfigured", err)
	}
}

func TestFetchCatalog(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		if r.URL.Path != "/admin/api/2023-10/products.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[
			{"id":1,"title":"Widget","handle":"widget","vendor":"Acme",
			 "body_html":"<p>A widget</p>",
			 "variants":[{"id":11,"price":"10.00"}]},
			{"id":2,"title":"Gadget","variants":[{"id":22,"price":"5.00"}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(config.ShopifyConfig{ShopDomain: "acme.myshopify.com", AccessToken: "tok"})
	c.baseURL = srv.URL

	items, err := c.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	if gotToken != "tok" {
		t.Errorf("access token header = %q", gotToken)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d; want 2", len(items))
	}
	if items[0].Name != "Widget" || items[0].Price != "10.00" || items[0].Description != "A widget" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].VariantID != "22" {
		t.Errorf("items[1].VariantID = %q", items[1].VariantID)
	}
}

func TestFetchCatalog_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(config.ShopifyConfig{ShopDomain: "acme.myshopify.com", AccessToken: "bad"})
	c.baseURL = srv.URL

	if _, err := c.FetchCatalog(context.Background()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestLinkBuilder(t *testing.T) {
	l := LinkBuilder{ShopDomain: "acme.myshopify.com"}

	if got := l.ProductURL("widget"); got != "https://acme.myshopify.com/products/widget" {
		t.Errorf("ProductURL = %q", got)
	}
	if got := l.ProductURL(""); got != "" {
		t.Errorf("ProductURL with no handle = %q; want empty", got)
	}
	if got := l.CartURL([]string{"11:2", "22:1"}); got != "https://acme.myshopify.com/cart/11:2,22:1" {
		t.Errorf("CartURL = %q", got)
	}
	if got := (LinkBuilder{}).CartURL([]string{"11:2"}); got != "" {
		t.Errorf("CartURL with no domain = %q; want empty", got)
	}
}
