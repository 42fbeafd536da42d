package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// persona builds the shared system-prompt preamble carrying store name,
// customer name, and reply language.
func persona(storeName, userName, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a friendly WhatsApp shopping assistant for the store %q. ", storeName)
	fmt.Fprint(&b, "Keep replies short and chat-friendly. ")
	if userName != "" {
		fmt.Fprintf(&b, "The customer's name is %s; address them by name. ", userName)
	}
	if language == "" {
		language = domain.LanguageEnglish
	}
	fmt.Fprintf(&b, "Always reply in %s.", language)
	return b.String()
}

// describeProduct renders a catalog item for prompt context.
func describeProduct(p domain.CatalogItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s.", p.Name)
	if p.Price != "" {
		fmt.Fprintf(&b, " Price: %s.", p.Price)
	}
	if p.Vendor != "" {
		fmt.Fprintf(&b, " Vendor: %s.", p.Vendor)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, " Description: %s", p.Description)
	}
	return b.String()
}

// WelcomeResponse greets a brand-new customer and asks for their name and,
// optionally, an email address.
func (c *Client) WelcomeResponse(ctx context.Context, userMessage, storeName, language string) (string, error) {
	system := persona(storeName, "", language) +
		" This is a brand-new customer. Welcome them to the store and ask for their name" +
		" (and optionally their email) so you can assist them better."
	return c.chat(ctx, system, userMessage)
}

// AskNameResponse nudges a known-but-anonymous customer for their name
// without repeating the welcome.
func (c *Client) AskNameResponse(ctx context.Context, userMessage, storeName, language string) (string, error) {
	system := persona(storeName, "", language) +
		" The customer has chatted before but never shared their name." +
		" Politely ask for their name. Do not welcome them as if they were new."
	return c.chat(ctx, system, userMessage)
}

// GreetingResponse greets a returning, named customer. When lastProductName
// is non-empty the reply also checks in about that product.
func (c *Client) GreetingResponse(ctx context.Context, userMessage, storeName, userName, language, lastProductName string) (string, error) {
	system := persona(storeName, userName, language) + " Greet the customer back."
	if lastProductName != "" {
		system += fmt.Sprintf(" They recently looked at %q; ask whether they are still interested in it.", lastProductName)
	}
	return c.chat(ctx, system, userMessage)
}

// LanguageChangedResponse confirms the newly set conversation language, in
// that language.
func (c *Client) LanguageChangedResponse(ctx context.Context, userMessage, storeName, userName, language string) (string, error) {
	system := persona(storeName, userName, language) +
		fmt.Sprintf(" Confirm to the customer that the conversation language is now %s.", language)
	return c.chat(ctx, system, userMessage)
}

// StoreInformationResponse answers general questions about the store.
func (c *Client) StoreInformationResponse(ctx context.Context, userMessage, storeName, userName, language string) (string, error) {
	system := persona(storeName, userName, language) +
		" Answer the customer's question about the store itself (hours, shipping, policies)." +
		" If you do not know a detail, say so instead of inventing one."
	return c.chat(ctx, system, userMessage)
}

// ListProductsResponse presents the current catalog.
func (c *Client) ListProductsResponse(ctx context.Context, userMessage string, catalog []domain.CatalogItem, storeName, userName, language string) (string, error) {
	entries := make([]string, len(catalog))
	for i, p := range catalog {
		if p.Price != "" {
			entries[i] = fmt.Sprintf("%s (%s)", p.Name, p.Price)
		} else {
			entries[i] = p.Name
		}
	}
	system := persona(storeName, userName, language) +
		" Present the available products as a short, readable list. Products: " +
		strings.Join(entries, "; ") + "."
	return c.chat(ctx, system, userMessage)
}

// ProductDetailResponse describes one matched product.
func (c *Client) ProductDetailResponse(ctx context.Context, userMessage string, product domain.CatalogItem, storeName, userName, language string) (string, error) {
	system := persona(storeName, userName, language) +
		" Describe this product enthusiastically but accurately. " + describeProduct(product)
	return c.chat(ctx, system, userMessage)
}

// BuyProductResponse assists a purchase of the resolved product.
func (c *Client) BuyProductResponse(ctx context.Context, userMessage string, product domain.CatalogItem, storeName, userName, language string) (string, error) {
	system := persona(storeName, userName, language) +
		" The customer wants to buy this product; it has been added to their cart." +
		" Confirm the addition and offer to continue to checkout. " + describeProduct(product)
	return c.chat(ctx, system, userMessage)
}

// ProductNotFoundResponse handles the soft miss where no product could be
// resolved for the request.
func (c *Client) ProductNotFoundResponse(ctx context.Context, userMessage, storeName, userName, language string) (string, error) {
	system := persona(storeName, userName, language) +
		" The product the customer asked about was not found in the catalog." +
		" Apologize briefly and invite them to ask for the product list."
	return c.chat(ctx, system, userMessage)
}

// CartSummaryResponse reports the current cart contents and running total.
func (c *Client) CartSummaryResponse(ctx context.Context, userMessage, summary, total, storeName, userName, language string) (string, error) {
	system := persona(storeName, userName, language)
	if summary == "" {
		system += " The customer's cart is empty. Tell them so and offer the product list."
	} else {
		system += fmt.Sprintf(" Summarize the customer's cart. Items: %s. Total: %s.", summary, total)
	}
	return c.chat(ctx, system, userMessage)
}

// CheckoutResponse walks the customer to checkout. The link, when present,
// is delivered separately by the transport; the reply should reference it.
func (c *Client) CheckoutResponse(ctx context.Context, userMessage, summary, link, storeName, userName, language string) (string, error) {
	system := persona(storeName, userName, language)
	if summary == "" {
		system += " The customer asked to check out but their cart is empty. Tell them so kindly."
	} else {
		system += fmt.Sprintf(" The customer is checking out these items: %s.", summary)
		if link != "" {
			system += " A checkout link accompanies this message; point them to it."
		}
	}
	return c.chat(ctx, system, userMessage)
}

// ChatWithBasePrompt is the generic fallback for unclassified intents.
func (c *Client) ChatWithBasePrompt(ctx context.Context, storeName, userName, intent, userInput, language string) (string, error) {
	system := persona(storeName, userName, language) +
		fmt.Sprintf(" The message was classified as %q; answer helpfully as an e-commerce assistant.", intent)
	return c.chat(ctx, system, userInput)
}
