package services

import (
	"testing"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

func TestClassifyCartOp(t *testing.T) {
	cases := map[string]cartOp{
		"remove the widget":            cartOpRemove,
		"please DELETE that":           cartOpRemove,
		"update the quantity to 3":     cartOpUpdate,
		"change it to two":             cartOpUpdate,
		"edit my cart":                 cartOpUpdate,
		"add one more":                 cartOpAdd,
		"I want to buy the gadget":     cartOpAdd,
		"purchase it":                  cartOpAdd,
		"what's in my cart?":           cartOpNone,
		"my address is 5 Main Street":  cartOpNone, // "add" inside a word must not match
		"they edited it without me":    cartOpNone,
		"removed it already, show me?": cartOpNone,
	}
	for in, want := range cases {
		if got := classifyCartOp(in); got != want {
			t.Errorf("classifyCartOp(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestFirstInt(t *testing.T) {
	cases := []struct {
		text string
		def  int
		want int
	}{
		{"change it to 3", 1, 3},
		{"make it 12, or maybe 5", 1, 12},
		{"no numbers here", 1, 1},
		{"", 7, 7},
	}
	for _, tc := range cases {
		if got := firstInt(tc.text, tc.def); got != tc.want {
			t.Errorf("firstInt(%q, %d) = %d; want %d", tc.text, tc.def, got, tc.want)
		}
	}
}

func TestCartSummary(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "gone", Quantity: 3},
	}

	summary, total := cartSummary(lines, testCatalog)

	if summary != "Widget x2, Gadget x1, gone x3" {
		t.Errorf("summary = %q", summary)
	}
	// 2*10.00 + 1*5.00, the vanished product prices as zero.
	if total != "25.00" {
		t.Errorf("total = %q; want 25.00", total)
	}
}

func TestCartSummary_Empty(t *testing.T) {
	summary, total := cartSummary(nil, testCatalog)
	if summary != "" || total != "0.00" {
		t.Errorf("summary, total = %q, %q", summary, total)
	}
}

func TestCheckoutEntries(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p3", Quantity: 1}, // no variant id
		{ProductID: "gone", Quantity: 4},
	}

	got := checkoutEntries(lines, testCatalog)
	want := []string{"11:2", "p3:1", "gone:4"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}
