package triage

import (
	"strings"

	"github.com/google/uuid"
)

// RequestIDPrefix starts every generated request id.
const RequestIDPrefix = "REQ-"

// IDGenerator returns a new unique request id.
type IDGenerator func() string

// NewRequestID returns "REQ-" followed by 8 upper-case hex characters taken
// from a random UUID.
func NewRequestID() string {
	return RequestIDPrefix + strings.ToUpper(uuid.NewString()[:8])
}
