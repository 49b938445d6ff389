package clicksign

import "context"

// Notification body keys.
const (
	NotificationRequestSignatureKey = "request_signature_key"
	NotificationMessage             = "message"
	NotificationURL                 = "url"
)

// RequestSigningByEmail asks Clicksign to email the signer identified by the
// request_signature_key in requestBody. The response body is discarded.
func (c *Client) RequestSigningByEmail(ctx context.Context, requestBody map[string]string) error {
	if requestBody == nil {
		requestBody = map[string]string{}
	}
	return c.postJSON(ctx, endpointNotifications, requestBody, nil)
}
