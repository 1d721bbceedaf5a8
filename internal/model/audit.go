package model

import (
	"maps"
	"slices"
	"time"
)

// AuditEvent is a timestamped record of one pipeline stage's output.
type AuditEvent struct {
	Timestamp time.Time      `json:"ts"`
	Event     string         `json:"event"`
	Details   map[string]any `json:"details"`
}

// Clone returns a copy whose Details map, and any string slices inside it,
// are not shared with e.
func (e AuditEvent) Clone() AuditEvent {
	e.Details = maps.Clone(e.Details)
	for k, v := range e.Details {
		if s, ok := v.([]string); ok {
			e.Details[k] = slices.Clone(s)
		}
	}
	return e
}
