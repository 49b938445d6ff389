package clicksign

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure returned by the client.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindMalformedInput is returned when a body fails to parse as JSON or
	// fails validation before it is sent.
	KindMalformedInput
	// KindTransport wraps network and connection errors from the HTTP layer.
	KindTransport
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindServerError
	KindServiceUnavailable
	// KindUnexpectedStatus covers any status code not listed above.
	KindUnexpectedStatus
	// KindMalformedResponse is returned when a success body cannot be decoded.
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed_input"
	case KindTransport:
		return "transport_failure"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindServerError:
		return "server_error"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindUnexpectedStatus:
		return "unexpected_status"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is the single failure value returned by every client operation.
type Error struct {
	Kind       ErrorKind
	StatusCode int    // HTTP status, zero when no response was received
	Body       string // server-supplied body for 400 and unexpected statuses
	Err        error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrMalformedInput     = &Error{Kind: KindMalformedInput}
	ErrTransport          = &Error{Kind: KindTransport}
	ErrBadRequest         = &Error{Kind: KindBadRequest}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrServerError        = &Error{Kind: KindServerError}
	ErrServiceUnavailable = &Error{Kind: KindServiceUnavailable}
	ErrUnexpectedStatus   = &Error{Kind: KindUnexpectedStatus}
	ErrMalformedResponse  = &Error{Kind: KindMalformedResponse}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindBadRequest:
		return "400 Bad Request: " + e.Body
	case KindUnauthorized:
		return "401 Unauthorized"
	case KindForbidden:
		return "403 Forbidden"
	case KindServerError:
		return "500 Internal Server Error"
	case KindServiceUnavailable:
		return "503 Service Unavailable"
	case KindUnexpectedStatus:
		msg := fmt.Sprintf("received response: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
		if e.Body != "" {
			msg += ": " + e.Body
		}
		return msg
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func malformedInput(err error) error {
	return &Error{Kind: KindMalformedInput, Err: err}
}

func transportFailure(err error) error {
	return &Error{Kind: KindTransport, Err: err}
}

func malformedResponse(err error) error {
	return &Error{Kind: KindMalformedResponse, Err: err}
}
