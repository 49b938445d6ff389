package httpclient

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"clicksign-esign/internal/config"
)

// WebhookSignatureHeader carries the HMAC of a Clicksign webhook body.
const WebhookSignatureHeader = "Content-Hmac"

const signaturePrefix = "sha256="

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// HMACSignature signs and verifies webhook bodies with the account's HMAC
// secret. The header value has the form "sha256=<hex digest>".
type HMACSignature struct {
	Secret string
}

func NewHMACSignature(secret string) *HMACSignature {
	return &HMACSignature{Secret: secret}
}

// NewWebhookSignature returns nil when no webhook secret is configured.
func NewWebhookSignature(cfg *config.Config) *HMACSignature {
	if !cfg.Clicksign.VerifiesWebhooks() {
		return nil
	}
	return NewHMACSignature(cfg.Clicksign.WebhookSecret)
}

// GenerateSignature returns the header value for body.
func (h *HMACSignature) GenerateSignature(body []byte) string {
	mac := hmac.New(sha256.New, []byte(h.Secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks header against body in constant time.
func (h *HMACSignature) Verify(body []byte, header string) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return ErrMissingSignature
	}
	if !strings.HasPrefix(header, signaturePrefix) {
		return ErrInvalidSignature
	}

	expected := h.GenerateSignature(body)
	if !hmac.Equal([]byte(strings.ToLower(header)), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}
