package entity

import "encoding/json"

// Webhook event names sent by Clicksign.
const (
	WebhookEventSign      = "sign"
	WebhookEventClose     = "close"
	WebhookEventAutoClose = "auto_close"
	WebhookEventCancel    = "cancel"
	WebhookEventDeadline  = "deadline"
	WebhookEventAddSigner = "add_signer"
)

// WebhookPayload is the callback body posted by Clicksign on document
// events.
type WebhookPayload struct {
	Event    WebhookEvent    `json:"event"`
	Document WebhookDocument `json:"document"`
}

// WebhookEvent keeps Data raw since its shape depends on the event name.
type WebhookEvent struct {
	Name       string          `json:"name"`
	Data       json.RawMessage `json:"data,omitempty"`
	OccurredAt string          `json:"occurred_at"`
}

type WebhookDocument struct {
	Key      string `json:"key"`
	Path     string `json:"path,omitempty"`
	Filename string `json:"filename,omitempty"`
	Status   string `json:"status,omitempty"`
}

// SignEventData is the data of a "sign" event.
type SignEventData struct {
	Signer struct {
		Key   string `json:"key"`
		Email string `json:"email"`
	} `json:"signer"`
}
