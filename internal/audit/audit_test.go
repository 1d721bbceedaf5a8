package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/triage-cli/internal/model"
)

func TestTrail_AppendIsPersistent(t *testing.T) {
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var empty Trail
	one := empty.Append(t0, EventIntakeReceived, map[string]any{"request_id": "REQ-1"})
	two := one.Append(t0.Add(time.Second), EventAIClassification, nil)

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())

	// Appending to the same base twice never clobbers an earlier branch.
	other := one.Append(t0, "other", nil)
	assert.Equal(t, EventAIClassification, two.Events()[1].Event)
	assert.Equal(t, "other", other.Events()[1].Event)
}

func TestTrail_EventsAreCopies(t *testing.T) {
	details := map[string]any{"request_id": "REQ-1"}
	trail := Trail{}.Append(time.Now(), EventIntakeReceived, details)

	details["request_id"] = "REQ-2"
	events := trail.Events()
	events[0].Details["request_id"] = "REQ-3"
	events[0].Event = "changed"

	got := trail.Events()
	require.Len(t, got, 1)
	assert.Equal(t, EventIntakeReceived, got[0].Event)
	assert.Equal(t, "REQ-1", got[0].Details["request_id"])
	assert.NotNil(t, Trail{}.Append(time.Now(), "x", nil).Events()[0].Details)
}

func TestTrail_TimestampsAreUTC(t *testing.T) {
	local := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("PST", -8*3600))
	trail := Trail{}.Append(local, EventIntakeReceived, nil)

	ts := trail.Events()[0].Timestamp
	assert.Equal(t, time.UTC, ts.Location())
	assert.True(t, local.Equal(ts))
}

func TestDetails(t *testing.T) {
	req := model.IntakeRequest{RequestID: "REQ-1", Department: "IT", Urgency: model.UrgencyHigh, Message: "m"}
	assert.Equal(t, map[string]any{
		"request_id": "REQ-1",
		"department": "IT",
		"urgency":    "high",
	}, IntakeDetails(req))

	cls := model.ClassificationResult{Category: model.CategoryUnknown, Confidence: 0.35, Rationale: "r"}
	assert.Equal(t, map[string]any{
		"category":   "unknown",
		"confidence": 0.35,
		"rationale":  "r",
	}, ClassificationDetails(cls))

	reasons := []string{"a"}
	routed := RoutingDetails(model.RoutingDecision{Destination: model.DestinationHumanReview, RequiresHumanReview: true, Reasons: reasons})
	reasons[0] = "b"
	assert.Equal(t, map[string]any{
		"destination":           "Human Review",
		"requires_human_review": true,
		"reasons":               []string{"a"},
	}, routed)

	assert.Equal(t, []string{}, RoutingDetails(model.RoutingDecision{})["reasons"])
}

func TestSystemClock(t *testing.T) {
	assert.Equal(t, time.UTC, SystemClock().Location())
}
