// Package model defines the request/response types of the logo service.
// Struct tags (`json:"..."` and `db:"..."`) tell the JSON binder and sqlx how
// to map fields.
package model

import "time"

// LogoRequest is the body of POST /generate. Text is a pointer so a missing
// field (or an explicit null) decodes to nil; the service rejects nil and "".
type LogoRequest struct {
	Text *string `json:"text"`
}

// TextValue returns the request text, or "" when the field was absent.
func (r LogoRequest) TextValue() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}

// LogoResponse is the success body of POST /generate.
type LogoResponse struct {
	Echo string `json:"echo"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}

// StatusOK is the only status the health endpoint reports.
const StatusOK = "ok"

// ErrorResponse is the body of every 4xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// GenerationOutcome records how a /generate call ended.
type GenerationOutcome string

const (
	OutcomeOK       GenerationOutcome = "ok"
	OutcomeRejected GenerationOutcome = "rejected"
)

// Generation is one row of the optional generation history. The text itself is
// never stored, only its length in bytes.
type Generation struct {
	ID        int64             `db:"id" json:"id"`
	TextLen   int               `db:"text_len" json:"text_len"`
	Outcome   GenerationOutcome `db:"outcome" json:"outcome"`
	ClientIP  string            `db:"client_ip" json:"client_ip"`
	RequestID string            `db:"request_id" json:"request_id"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}
