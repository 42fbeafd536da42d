package nlp

import (
	"testing"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Hello, I would like to see your products please", domain.LanguageEnglish},
		{"Hola, quisiera ver los productos que tienen disponibles", domain.LanguageSpanish},
		{"Me gustaría comprar una camiseta para mi hermano", domain.LanguageSpanish},
		{"What time does the store open tomorrow morning?", domain.LanguageEnglish},
		// Undecidable input defaults to English.
		{"", domain.LanguageEnglish},
		{"1234 5678", domain.LanguageEnglish},
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.text); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %q; want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractEmail(t *testing.T) {
	cases := map[string]string{
		"my name is Ana, ana@x.com":              "ana@x.com",
		"reach me at First.Last+tag@mail.co.uk!": "first.last+tag@mail.co.uk",
		"two: a@x.com then b@y.com":              "a@x.com",
		"no address here":                        "",
		"broken@nodomain":                        "",
	}
	for in, want := range cases {
		if got := ExtractEmail(in); got != want {
			t.Errorf("ExtractEmail(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestExtractName(t *testing.T) {
	cases := map[string]string{
		"my name is Ana, ana@x.com":         "Ana",
		"hi, My Name Is john smith. hello":  "John Smith",
		"I am Pedro":                        "Pedro",
		"i'm maria":                         "Maria",
		"mi nombre es Luisa Fernanda":       "Luisa Fernanda",
		"hola, me llamo carlos!":            "Carlos",
		"soy Andrea, mucho gusto":           "Andrea",
		"what products do you have?":        "",
		"":                                  "",
		"my name is ":                       "",
		"the island is beautiful, honestly": "",
	}
	for in, want := range cases {
		if got := ExtractName(in); got != want {
			t.Errorf("ExtractName(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestExtract_CombinedSignals(t *testing.T) {
	got := Extract("hola, me llamo Ana, mi correo es ana@x.com")
	if got.Language != domain.LanguageSpanish {
		t.Errorf("Language = %q", got.Language)
	}
	if got.Name != "Ana" {
		t.Errorf("Name = %q; want %q", got.Name, "Ana")
	}
	if got.Email != "ana@x.com" {
		t.Errorf("Email = %q", got.Email)
	}
}
