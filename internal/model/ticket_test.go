package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketRecord_CopiesInputs(t *testing.T) {
	req, err := NewIntakeRequest("REQ-1", "Dana", "IT", UrgencyHigh, "sso login error")
	require.NoError(t, err)

	cls := ClassificationResult{
		Category:          CategoryAccessPermissions,
		Confidence:        1,
		Rationale:         "r",
		ExtractedEntities: map[string]any{SignalPossibleAuthIssue: true},
	}
	routing := RoutingDecision{
		Destination: DestinationITSupport,
		Action:      ActionNotifyPrimaryOnCall,
		Reasons:     []string{"first"},
	}
	events := []AuditEvent{
		{Timestamp: time.Unix(0, 0).UTC(), Event: "intake_received", Details: map[string]any{"request_id": "REQ-1"}},
	}
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))

	ticket := NewTicketRecord(req, cls, routing, created, events)

	*req.EmployeeName = "Someone Else"
	cls.ExtractedEntities[SignalPossibleOrderIssue] = true
	routing.Reasons[0] = "changed"
	events[0].Details["request_id"] = "REQ-2"

	assert.Equal(t, "Dana", ticket.Request.Employee())
	assert.NotContains(t, ticket.Classification.ExtractedEntities, SignalPossibleOrderIssue)
	assert.Equal(t, []string{"first"}, ticket.Routing.Reasons)
	assert.Equal(t, "REQ-1", ticket.AuditLog[0].Details["request_id"])
	assert.Equal(t, time.UTC, ticket.CreatedAt.Location())
	assert.True(t, created.Equal(ticket.CreatedAt))
}

func TestNewTicketRecord_EmptyReasonsNotNil(t *testing.T) {
	ticket := NewTicketRecord(IntakeRequest{}, ClassificationResult{}, RoutingDecision{}, time.Now(), nil)
	assert.NotNil(t, ticket.Routing.Reasons)
	assert.NotNil(t, ticket.Classification.ExtractedEntities)
	assert.NotNil(t, ticket.AuditLog)
}

func TestAuditEvent_CloneCopiesStringSlices(t *testing.T) {
	e := AuditEvent{Event: "workflow_routed", Details: map[string]any{"reasons": []string{"a"}}}
	c := e.Clone()

	c.Details["reasons"].([]string)[0] = "b"
	assert.Equal(t, []string{"a"}, e.Details["reasons"])
}
