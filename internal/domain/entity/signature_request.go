package entity

import (
	"strings"
	"time"

	"clicksign-esign/pkg/clicksign"
)

// Tracked signature request statuses.
const (
	SignatureStatusPending  = "pending"
	SignatureStatusRunning  = clicksign.DocumentStatusRunning
	SignatureStatusClosed   = clicksign.DocumentStatusClosed
	SignatureStatusCanceled = clicksign.DocumentStatusCanceled
)

// SignatureRequestInput is the body of POST /api/v1/signature-requests: a
// document generated from a template plus the people who must sign it.
type SignatureRequestInput struct {
	TemplateID string             `json:"template_id"`
	Document   clicksign.Document `json:"document"`
	Signers    []SignerInput      `json:"signers"`
	// Message is sent to every signer without a message of their own.
	Message string `json:"message,omitempty"`
	// Notify defaults to true. When false signers are attached but no email
	// is requested.
	Notify *bool `json:"notify,omitempty"`
}

func (in *SignatureRequestInput) ShouldNotify() bool {
	return in.Notify == nil || *in.Notify
}

type SignerInput struct {
	Signer  clicksign.Signer `json:"signer"`
	SignAs  string           `json:"sign_as"`
	Group   *int             `json:"group,omitempty"`
	Message string           `json:"message,omitempty"`
}

// SignatureRequest is the tracked state of a document sent for signature,
// stored per document key.
type SignatureRequest struct {
	DocumentKey string          `json:"document_key"`
	TemplateID  string          `json:"template_id"`
	Path        string          `json:"path"`
	Status      string          `json:"status"`
	Signers     []TrackedSigner `json:"signers"`
	Events      []TrackedEvent  `json:"events,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type TrackedSigner struct {
	SignerKey           string     `json:"signer_key"`
	ListKey             string     `json:"list_key,omitempty"`
	RequestSignatureKey string     `json:"request_signature_key,omitempty"`
	URL                 string     `json:"url,omitempty"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	SignAs              string     `json:"sign_as"`
	Group               *int       `json:"group,omitempty"`
	Notified            bool       `json:"notified"`
	SignedAt            *time.Time `json:"signed_at,omitempty"`
}

type TrackedEvent struct {
	Name       string    `json:"name"`
	OccurredAt string    `json:"occurred_at"`
	ReceivedAt time.Time `json:"received_at"`
}

// FindSigner returns the signer matching key, falling back to email
// compared case-insensitively.
func (r *SignatureRequest) FindSigner(key, email string) *TrackedSigner {
	for i := range r.Signers {
		if key != "" && r.Signers[i].SignerKey == key {
			return &r.Signers[i]
		}
	}
	if email == "" {
		return nil
	}
	for i := range r.Signers {
		if strings.EqualFold(r.Signers[i].Email, email) {
			return &r.Signers[i]
		}
	}
	return nil
}

// AllSigned reports whether every signer has signed.
func (r *SignatureRequest) AllSigned() bool {
	if len(r.Signers) == 0 {
		return false
	}
	for _, s := range r.Signers {
		if s.SignedAt == nil {
			return false
		}
	}
	return true
}
