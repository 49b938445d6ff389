package clicksign

import (
	"fmt"
	"io"
	"net/http"
)

// handleResponse maps a completed response to its body text or an *Error.
// The raw body is returned in both cases for logging.
func handleResponse(resp *http.Response) (string, []byte, error) {
	raw, err := readBody(resp)
	if err != nil {
		return "", nil, err
	}
	body, err := statusOutcome(resp.StatusCode, raw)
	return body, raw, err
}

// readBody drains and closes the response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(fmt.Errorf("failed to read response body: %w", err))
	}
	return raw, nil
}

// statusOutcome is the status-code table. Only 400 and unlisted statuses
// carry the body; the other failures are fixed regardless of content.
func statusOutcome(statusCode int, raw []byte) (string, error) {
	body := string(raw)

	switch statusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return body, nil
	case http.StatusBadRequest:
		return "", &Error{Kind: KindBadRequest, StatusCode: statusCode, Body: body}
	case http.StatusUnauthorized:
		return "", &Error{Kind: KindUnauthorized, StatusCode: statusCode}
	case http.StatusForbidden:
		return "", &Error{Kind: KindForbidden, StatusCode: statusCode}
	case http.StatusInternalServerError:
		return "", &Error{Kind: KindServerError, StatusCode: statusCode}
	case http.StatusServiceUnavailable:
		return "", &Error{Kind: KindServiceUnavailable, StatusCode: statusCode}
	default:
		return "", &Error{Kind: KindUnexpectedStatus, StatusCode: statusCode, Body: body}
	}
}
