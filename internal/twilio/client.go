// Package twilio delivers outbound WhatsApp messages through the Twilio
// Messages API. The dialogue engine only produces a payload (body, optional
// media, optional action link); this client owns the transport shape:
// "whatsapp:" address prefixes, MediaUrl attachments, and PersistentAction
// for deep links so they arrive as a distinct clickable element.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tiendabot/go-shop-assistant/internal/config"
	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// ErrNotConfigured is returned when the Twilio credentials or sender number
// are missing.
var ErrNotConfigured = errors.New("twilio credentials are not configured")

// Client sends WhatsApp messages for one configured sender number.
type Client struct {
	cfg config.TwilioConfig

	// baseURL overrides the Twilio API origin in tests.
	baseURL string
	httpc   *http.Client
}

// NewClient constructs a Client. Credentials are checked at send time.
func NewClient(cfg config.TwilioConfig) *Client {
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendWhatsApp delivers result to the given recipient (an E.164 number
// without the "whatsapp:" prefix). Failures propagate to the caller; the
// caller decides whether the end user gets an apology.
func (c *Client) SendWhatsApp(ctx context.Context, to string, result *domain.DialogueResult) error {
	if c.cfg.AccountSID == "" || c.cfg.AuthToken == "" || c.cfg.WhatsAppNumber == "" {
		return ErrNotConfigured
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+c.cfg.WhatsAppNumber)
	form.Set("To", "whatsapp:"+to)
	form.Set("Body", result.Body)
	if result.MediaURL != "" {
		form.Set("MediaUrl", result.MediaURL)
	}
	if result.ActionURL != "" {
		// Delivered as a separate tappable action, not inlined in the body.
		form.Set("PersistentAction", result.ActionURL+"|Ver Producto")
	}

	base := c.baseURL
	if base == "" {
		base = "https://api.twilio.com"
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", base, c.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("send whatsapp message: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
