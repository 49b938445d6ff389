package clicksign

import (
	"context"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Authentication methods a signer may use.
const (
	AuthEmail     = "email"
	AuthSMS       = "sms"
	AuthWhatsApp  = "whatsapp"
	AuthAPI       = "api"
	AuthPix       = "pix"
	AuthICPBrasil = "icp_brasil"
)

// Delivery channels for signer notifications.
const (
	DeliveryEmail = "email"
	DeliveryNone  = "none"
)

// SignerRequestKey is the conventional label wrapping a signer in request
// and response bodies.
const SignerRequestKey = "signer"

// Signer is a person required to sign a document. Key, CreatedAt and
// UpdatedAt are only set in responses.
type Signer struct {
	Key                     *string  `json:"key,omitempty"`
	Email                   string   `json:"email"`
	PhoneNumber             string   `json:"phone_number"`
	Auths                   []string `json:"auths"`
	Name                    string   `json:"name"`
	Documentation           string   `json:"documentation"` // national ID (CPF)
	Birthday                string   `json:"birthday"`
	HasDocumentation        bool     `json:"has_documentation"`
	Delivery                string   `json:"delivery"`
	SelfieEnabled           bool     `json:"selfie_enabled"`
	HandwrittenEnabled      bool     `json:"handwritten_enabled"`
	OfficialDocumentEnabled bool     `json:"official_document_enabled"`
	LivenessEnabled         bool     `json:"liveness_enabled"`
	CreatedAt               *string  `json:"created_at,omitempty"`
	UpdatedAt               *string  `json:"updated_at,omitempty"`
}

// Validate checks the fields Clicksign requires to create a signer.
func (s Signer) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Email, validation.Required),
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Auths,
			validation.Required,
			validation.Each(validation.In(AuthEmail, AuthSMS, AuthWhatsApp, AuthAPI, AuthPix, AuthICPBrasil)),
		),
	)
}

// ParseSignerRequest decodes a raw body such as {"signer": {...}} into the
// typed request shape accepted by CreateSigner.
func ParseSignerRequest(raw []byte) (map[string]Signer, error) {
	var body map[string]Signer
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, malformedInput(fmt.Errorf("invalid signer request: %w", err))
	}
	return body, nil
}

// CreateSigner registers the signers in requestBody, conventionally a single
// entry under SignerRequestKey. Each signer is validated before anything is
// sent. The result carries the server-assigned fields.
func (c *Client) CreateSigner(ctx context.Context, requestBody map[string]Signer) (map[string]Signer, error) {
	if len(requestBody) == 0 {
		return nil, malformedInput(fmt.Errorf("signer request is empty"))
	}
	for label, signer := range requestBody {
		if err := signer.Validate(); err != nil {
			return nil, malformedInput(fmt.Errorf("%s: %w", label, err))
		}
	}

	var result map[string]Signer
	if err := c.postJSON(ctx, endpointSigners, requestBody, &result); err != nil {
		return nil, err
	}

	return result, nil
}
