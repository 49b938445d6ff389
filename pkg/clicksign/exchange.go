package clicksign

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxBodyLogLength = 500 // Maximum characters to log for body
	maxBase64Length  = 100
)

var base64Pattern = regexp.MustCompile(`"([A-Za-z0-9+/=]{100,})"`)

// Exchange describes one completed request/response round trip. Endpoint is
// relative to the host and never includes the access token.
type Exchange struct {
	Method       string
	Endpoint     string
	RequestBody  []byte
	ResponseBody []byte
	StatusCode   int
	Duration     time.Duration
	Failed       bool
}

// ExchangeRecorder receives every exchange that produced a response.
// RecordExchange is called synchronously on the request path; slow
// implementations should hand off to a goroutine.
type ExchangeRecorder interface {
	RecordExchange(ctx context.Context, ex Exchange)
}

func (c *Client) record(ctx context.Context, ex Exchange) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordExchange(ctx, ex)
}

// TruncateString truncates s if it exceeds maxLength.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + fmt.Sprintf("... [truncated, total %d chars]", len(s))
}

// TruncateBase64InJSON elides long base64-like string values, such as
// embedded document contents.
func TruncateBase64InJSON(jsonStr string, maxLength int) string {
	return base64Pattern.ReplaceAllStringFunc(jsonStr, func(match string) string {
		content := match[1 : len(match)-1]
		if len(content) > maxLength {
			return fmt.Sprintf(`"%s... [base64 truncated, total %d chars]"`, content[:maxLength], len(content))
		}
		return match
	})
}

func (c *Client) logRequest(method, url string, body []byte) {
	if ce := c.logger.Check(zap.DebugLevel, ""); ce == nil {
		return
	}

	var logBuilder strings.Builder
	logBuilder.WriteString("\n>>> [CLICKSIGN-REQ]\n")
	logBuilder.WriteString(fmt.Sprintf("Method: %s\n", method))
	logBuilder.WriteString(fmt.Sprintf("URL: %s\n", url))
	if len(body) > 0 {
		bodyStr := TruncateBase64InJSON(string(body), maxBase64Length)
		bodyStr = TruncateString(bodyStr, maxBodyLogLength)
		logBuilder.WriteString(fmt.Sprintf("REQUEST BODY: %s\n", bodyStr))
	}

	c.logger.Debug(logBuilder.String())
}

func (c *Client) logResponse(statusCode int, duration time.Duration, body []byte) {
	if ce := c.logger.Check(zap.DebugLevel, ""); ce == nil {
		return
	}

	var logBuilder strings.Builder
	logBuilder.WriteString("\n>>> [CLICKSIGN-RESPONSE]\n")
	logBuilder.WriteString(fmt.Sprintf("Status: %d\n", statusCode))
	logBuilder.WriteString(fmt.Sprintf("Duration: %s\n", duration))
	logBuilder.WriteString(fmt.Sprintf("Body: %s\n", TruncateString(string(body), maxBodyLogLength)))

	c.logger.Debug(logBuilder.String())
}
