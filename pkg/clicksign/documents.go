package clicksign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Document status values reported by Clicksign.
const (
	DocumentStatusRunning  = "running"
	DocumentStatusClosed   = "closed"
	DocumentStatusCanceled = "canceled"
)

// DocumentTemplate is the template used to generate a document.
type DocumentTemplate struct {
	// Key is the template's unique key. It is carried in the URL on creation
	// and only returned in responses.
	Key string `json:"key,omitempty"`
	// Data fills the template placeholders, keyed by placeholder name.
	Data map[string]string `json:"data"`
}

// EventData is the "data" field of a document event.
type EventData struct {
	User       map[string]string `json:"user,omitempty"`
	Account    map[string]string `json:"account,omitempty"`
	DeadlineAt string            `json:"deadline_at,omitempty"`
	AutoClose  bool              `json:"auto_close"`
	Locale     string            `json:"locale,omitempty"`
}

// DocumentEvent is one entry of a document's lifecycle.
type DocumentEvent struct {
	Name       string    `json:"name"`
	Data       EventData `json:"data"`
	OccurredAt string    `json:"occurred_at"`
}

// Document describes a document within Clicksign. Everything except Path
// and Template is set by the server.
type Document struct {
	Key  *string `json:"key,omitempty"`
	Path string  `json:"path"` // full path within the account's virtual filesystem
	// Filename is the name of the generated file.
	Filename   *string `json:"filename,omitempty"`
	UpdatedAt  *string `json:"updated_at,omitempty"`
	FinishedAt *string `json:"finished_at,omitempty"`
	DeadlineAt *string `json:"deadline_at,omitempty"`
	Status     *string `json:"status,omitempty"`
	// AutoClose finalizes the document once every signer has signed.
	AutoClose       *bool             `json:"auto_close,omitempty"`
	Locale          *string           `json:"locale,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	SequenceEnabled *bool             `json:"sequence_enabled,omitempty"`
	SignableGroup   *string           `json:"signable_group,omitempty"`
	RemindInterval  *string           `json:"remind_interval,omitempty"`
	Downloads       map[string]string `json:"downloads,omitempty"`
	Template        DocumentTemplate  `json:"template"`
	Signers         []string          `json:"signers,omitempty"` // signer keys
	Events          []DocumentEvent   `json:"events,omitempty"`
}

// Validate checks the fields required on the request path.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Path, validation.Required),
	)
}

// CreateDocumentByModel creates a document from the template templateID.
// templateBody must be valid JSON and is sent byte for byte, since template
// placeholders are free-form. The response is returned as decoded JSON,
// typically {"document": {...}}, with numbers kept as json.Number.
func (c *Client) CreateDocumentByModel(ctx context.Context, templateID string, templateBody string) (interface{}, error) {
	if !json.Valid([]byte(templateBody)) {
		return nil, malformedInput(errors.New("template body is not valid JSON"))
	}

	endpoint := fmt.Sprintf("templates/%s/documents", templateID)
	text, err := c.post(ctx, endpoint, []byte(templateBody))
	if err != nil {
		return nil, err
	}

	result, err := decodeVerbatim(text)
	if err != nil {
		return nil, malformedResponse(fmt.Errorf("failed to unmarshal response: %w", err))
	}
	return result, nil
}

// decodeVerbatim decodes a single JSON value without rounding numbers.
func decodeVerbatim(text string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var result interface{}
	if err := dec.Decode(&result); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return result, nil
}

// DocumentKeyOf extracts the document key from a CreateDocumentByModel
// result, looking under "document" first and then at the top level.
func DocumentKeyOf(result interface{}) (string, bool) {
	obj, ok := result.(map[string]interface{})
	if !ok {
		return "", false
	}
	if doc, ok := obj["document"].(map[string]interface{}); ok {
		if key, ok := doc["key"].(string); ok && key != "" {
			return key, true
		}
	}
	key, ok := obj["key"].(string)
	return key, ok && key != ""
}
