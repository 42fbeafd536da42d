// WhatsApp webhook handler.
//
// Twilio posts one form-encoded request per inbound message. The handler is
// transport-thin: it validates the sender, deduplicates retried deliveries
// by message SID, runs one dialogue turn, and answers with TwiML.
//
// Delivery of the reply has two modes. With a configured REST transport the
// reply (including media and the persistent-action deep link) goes out via
// the Messages API and the webhook answers an empty TwiML document. Without
// one, the reply is inlined in the TwiML response; TwiML has no separate
// action element, so a deep link is appended to the body text instead.
//
// A failed turn deliberately produces an error status and no reply: a
// partial answer built on wrong catalog or intent context would mislead the
// user, and Twilio's side decides whether to emit a generic apology.
package handlers

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
	"github.com/tiendabot/go-shop-assistant/internal/http/middleware"
)

// DialogueEngine runs one dialogue turn for an inbound message.
type DialogueEngine interface {
	ProcessMessage(ctx context.Context, senderID, text string) (*domain.DialogueResult, error)
}

// Deduper remembers processed inbound message ids across webhook retries.
type Deduper interface {
	MarkSeen(ctx context.Context, messageID string) (alreadySeen bool, err error)
}

// Transport delivers a reply over the Messages API (media and persistent
// actions included), as opposed to inlining it in the TwiML response.
type Transport interface {
	SendWhatsApp(ctx context.Context, to string, result *domain.DialogueResult) error
}

// WebhookHandler serves POST /whatsapp/webhook.
type WebhookHandler struct {
	Engine DialogueEngine
	Dedupe Deduper

	// Transport is optional; when nil the reply is returned inline as TwiML.
	Transport Transport
}

// twiml mirrors the Twilio messaging response document.
type twiml struct {
	XMLName xml.Name      `xml:"Response"`
	Message *twimlMessage `xml:"Message,omitempty"`
}

type twimlMessage struct {
	Body  string `xml:"Body"`
	Media string `xml:"Media,omitempty"`
}

// Handle processes one inbound WhatsApp message.
//
// Note the per-sender race: two concurrent webhook calls for the same sender
// each run a full read-modify-write turn and the last profile save wins.
// That lost-update hazard is accepted for chat-frequency traffic.
func (h *WebhookHandler) Handle(c *gin.Context) {
	from := strings.TrimPrefix(c.PostForm("From"), "whatsapp:")
	if from == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "missing From field")
		return
	}
	body := c.PostForm("Body")

	if sid := c.PostForm("MessageSid"); sid != "" && h.Dedupe != nil {
		seen, err := h.Dedupe.MarkSeen(c.Request.Context(), sid)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "dedupe check failed")
			return
		}
		if seen {
			middleware.ObserveDialogueTurn("duplicate")
			writeTwiML(c, twiml{})
			return
		}
	}

	res, err := h.Engine.ProcessMessage(c.Request.Context(), from, body)
	if err != nil {
		middleware.ObserveDialogueTurn("error")
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Err(err).
			Str("sender", from).
			Msg("dialogue turn failed")
		fail(c, http.StatusBadGateway, ErrCodeDialogueFailed, "message processing failed")
		return
	}
	middleware.ObserveDialogueTurn("ok")

	if h.Transport != nil {
		if err := h.Transport.SendWhatsApp(c.Request.Context(), from, res); err != nil {
			lg := middleware.LoggerFrom(c)
			lg.Error().
				Err(err).
				Str("sender", from).
				Msg("reply delivery failed")
			fail(c, http.StatusBadGateway, ErrCodeDialogueFailed, "reply delivery failed")
			return
		}
		writeTwiML(c, twiml{})
		return
	}

	text := res.Body
	if res.ActionURL != "" {
		text += "\n" + res.ActionURL
	}
	writeTwiML(c, twiml{Message: &twimlMessage{Body: text, Media: res.MediaURL}})
}

func writeTwiML(c *gin.Context, doc twiml) {
	c.Header("Content-Type", "text/xml")
	c.Status(http.StatusOK)
	_, _ = c.Writer.WriteString(xml.Header)
	out, err := xml.Marshal(doc)
	if err != nil {
		return
	}
	_, _ = c.Writer.Write(out)
}
