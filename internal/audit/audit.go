// Package audit builds the append-only event trail attached to every ticket.
package audit

import (
	"maps"
	"slices"
	"time"

	"github.com/sells-group/triage-cli/internal/model"
)

// Event names recorded by the triage pipeline.
const (
	EventIntakeReceived   = "intake_received"
	EventAIClassification = "ai_classification"
	EventWorkflowRouted   = "workflow_routed"
)

// Clock returns the current time.
type Clock func() time.Time

// SystemClock returns the wall-clock time in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Trail is an immutable ordered sequence of audit events. Append returns a
// new Trail and leaves the receiver untouched.
type Trail struct {
	events []model.AuditEvent
}

// Append returns a trail with one more event at the end.
func (t Trail) Append(at time.Time, event string, details map[string]any) Trail {
	events := make([]model.AuditEvent, len(t.events), len(t.events)+1)
	copy(events, t.events)
	if details == nil {
		details = map[string]any{}
	}
	events = append(events, model.AuditEvent{
		Timestamp: at.UTC(),
		Event:     event,
		Details:   maps.Clone(details),
	})
	return Trail{events: events}
}

// Events returns a copy of the recorded events in append order.
func (t Trail) Events() []model.AuditEvent {
	out := make([]model.AuditEvent, len(t.events))
	for i, e := range t.events {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of events.
func (t Trail) Len() int {
	return len(t.events)
}

// IntakeDetails is the payload of an intake_received event.
func IntakeDetails(req model.IntakeRequest) map[string]any {
	return map[string]any{
		"request_id": req.RequestID,
		"department": req.Department,
		"urgency":    string(req.Urgency),
	}
}

// ClassificationDetails is the payload of an ai_classification event.
func ClassificationDetails(cls model.ClassificationResult) map[string]any {
	return map[string]any{
		"category":   string(cls.Category),
		"confidence": cls.Confidence,
		"rationale":  cls.Rationale,
	}
}

// RoutingDetails is the payload of a workflow_routed event.
func RoutingDetails(d model.RoutingDecision) map[string]any {
	reasons := slices.Clone(d.Reasons)
	if reasons == nil {
		reasons = []string{}
	}
	return map[string]any{
		"destination":           string(d.Destination),
		"requires_human_review": d.RequiresHumanReview,
		"reasons":               reasons,
	}
}
