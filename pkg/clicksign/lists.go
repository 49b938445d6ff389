package clicksign

import (
	"context"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Roles a signer may sign as.
const (
	SignAsSign      = "sign"
	SignAsApprove   = "approve"
	SignAsParty     = "party"
	SignAsWitness   = "witness"
	SignAsReceipt   = "receipt"
	SignAsValidator = "validator"
)

// SignAsRoles lists every valid sign_as value, in the form validation.In
// expects.
var SignAsRoles = []interface{}{
	SignAsSign, SignAsApprove, SignAsParty, SignAsWitness, SignAsReceipt, SignAsValidator,
}

// ListRequestKey is the conventional label wrapping a list in request and
// response bodies.
const ListRequestKey = "list"

// SignerToDocument associates a signer with a document. Group orders
// sequential signing and may be omitted. The pointer fields other than
// Group are only set in responses.
type SignerToDocument struct {
	Key                 *string `json:"key,omitempty"`
	RequestSignatureKey *string `json:"request_signature_key,omitempty"`
	DocumentKey         string  `json:"document_key"`
	SignerKey           string  `json:"signer_key"`
	SignAs              string  `json:"sign_as"`
	Group               *int    `json:"group,omitempty"`
	Message             string  `json:"message"`
	URL                 *string `json:"url,omitempty"`
	CreatedAt           *string `json:"created_at,omitempty"`
	UpdatedAt           *string `json:"updated_at,omitempty"`
}

// Validate checks the fields required to attach a signer.
func (l SignerToDocument) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.DocumentKey, validation.Required),
		validation.Field(&l.SignerKey, validation.Required),
		validation.Field(&l.SignAs, validation.Required, validation.In(SignAsRoles...)),
		validation.Field(&l.Group, validation.NilOrNotEmpty, validation.Min(1)),
	)
}

// ParseListRequest decodes a raw body such as {"list": {...}} into the typed
// request shape accepted by AddSignerToDocument.
func ParseListRequest(raw []byte) (map[string]SignerToDocument, error) {
	var body map[string]SignerToDocument
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, malformedInput(fmt.Errorf("invalid list request: %w", err))
	}
	return body, nil
}

// AddSignerToDocument attaches signers to documents, conventionally a single
// entry under ListRequestKey. The result carries the list key and the
// request_signature_key used for notifications.
func (c *Client) AddSignerToDocument(ctx context.Context, requestBody map[string]SignerToDocument) (map[string]SignerToDocument, error) {
	if len(requestBody) == 0 {
		return nil, malformedInput(fmt.Errorf("list request is empty"))
	}
	for label, list := range requestBody {
		if err := list.Validate(); err != nil {
			return nil, malformedInput(fmt.Errorf("%s: %w", label, err))
		}
	}

	var result map[string]SignerToDocument
	if err := c.postJSON(ctx, endpointLists, requestBody, &result); err != nil {
		return nil, err
	}

	return result, nil
}
