package entity

import "time"

// APILog is one stored request/response exchange with Clicksign. Endpoint
// never contains the access token.
type APILog struct {
	ID           int64     `json:"id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestBody  string    `json:"request_body"`
	ResponseBody string    `json:"response_body"`
	StatusCode   int       `json:"status_code"`
	Duration     int64     `json:"duration_ms"`
	Failed       bool      `json:"failed"`
	CreatedAt    time.Time `json:"created_at"`
}
