package model

import "time"

// TicketRecord is the terminal artifact of a triage run. It embeds copies of
// every stage's output and is not modified after NewTicketRecord returns.
type TicketRecord struct {
	Request        IntakeRequest        `json:"request"`
	Classification ClassificationResult `json:"classification"`
	Routing        RoutingDecision      `json:"routing"`
	CreatedAt      time.Time            `json:"created_at"`
	AuditLog       []AuditEvent         `json:"audit_log"`
}

// NewTicketRecord assembles a ticket from deep copies of its parts, so later
// changes to the arguments never reach the ticket.
func NewTicketRecord(req IntakeRequest, cls ClassificationResult, routing RoutingDecision, createdAt time.Time, events []AuditEvent) TicketRecord {
	log := make([]AuditEvent, len(events))
	for i, e := range events {
		log[i] = e.Clone()
	}
	return TicketRecord{
		Request:        req.clone(),
		Classification: cls.clone(),
		Routing:        routing.clone(),
		CreatedAt:      createdAt.UTC(),
		AuditLog:       log,
	}
}
