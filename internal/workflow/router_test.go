package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/triage-cli/internal/model"
)

func classification(cat model.Category, conf float64, signals ...string) model.ClassificationResult {
	entities := map[string]any{}
	for _, s := range signals {
		entities[s] = true
	}
	return model.ClassificationResult{Category: cat, Confidence: conf, ExtractedEntities: entities}
}

func TestRoute_ConfidentCategoryQueues(t *testing.T) {
	r := Default()

	tests := []struct {
		category model.Category
		want     model.Destination
	}{
		{model.CategoryRecognitionHelp, model.DestinationRecognitionOps},
		{model.CategoryAwardFulfillmentIssue, model.DestinationRecognitionOps},
		{model.CategoryNominationGuidance, model.DestinationHROps},
		{model.CategoryPolicyEligibility, model.DestinationHROps},
		{model.CategoryAccessPermissions, model.DestinationITSupport},
		{model.CategoryUnknown, model.DestinationHumanReview},
		{model.Category("billing"), model.DestinationHumanReview},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			d := r.Route(classification(tt.category, 0.9), model.UrgencyMedium)
			assert.Equal(t, tt.want, d.Destination)
			assert.False(t, d.RequiresHumanReview)
			assert.Equal(t, model.ActionNotifyPrimary, d.Action)
			assert.Empty(t, d.Reasons)
			assert.NotNil(t, d.Reasons)
		})
	}
}

func TestRoute_LowConfidenceForcesHumanReview(t *testing.T) {
	d := Default().Route(classification(model.CategoryAccessPermissions, 0.44), model.UrgencyLow)

	assert.True(t, d.RequiresHumanReview)
	assert.Equal(t, model.DestinationHumanReview, d.Destination)
	assert.Equal(t, []string{"Confidence 0.44 below threshold 0.70."}, d.Reasons)
}

func TestRoute_ThresholdIsExclusive(t *testing.T) {
	r := Default()

	at := r.Route(classification(model.CategoryPolicyEligibility, 0.70), model.UrgencyLow)
	assert.False(t, at.RequiresHumanReview)
	assert.Equal(t, model.DestinationHROps, at.Destination)

	below := r.Route(classification(model.CategoryPolicyEligibility, 0.69), model.UrgencyLow)
	assert.True(t, below.RequiresHumanReview)
}

func TestRoute_HighUrgency(t *testing.T) {
	d := Default().Route(classification(model.CategoryNominationGuidance, 0.98), model.UrgencyHigh)

	assert.Equal(t, model.DestinationHROps, d.Destination)
	assert.Equal(t, model.ActionNotifyPrimaryOnCall, d.Action)
	assert.Equal(t, []string{ReasonHighUrgency}, d.Reasons)
}

func TestRoute_AuthOverrideWithHighUrgency(t *testing.T) {
	d := Default().Route(
		classification(model.CategoryAwardFulfillmentIssue, 1.0, model.SignalPossibleAuthIssue),
		model.UrgencyHigh,
	)

	assert.Equal(t, model.DestinationITSupport, d.Destination)
	assert.False(t, d.RequiresHumanReview)
	assert.Equal(t, []string{ReasonHighUrgency, ReasonAuthSignal}, d.Reasons)
}

func TestRoute_AuthOverrideDoesNotUndoHumanReview(t *testing.T) {
	d := Default().Route(
		classification(model.CategoryPolicyEligibility, 0.44, model.SignalPossibleAuthIssue),
		model.UrgencyHigh,
	)

	assert.True(t, d.RequiresHumanReview)
	assert.Equal(t, model.DestinationHumanReview, d.Destination)
	assert.Equal(t, []string{"Confidence 0.44 below threshold 0.70.", ReasonHighUrgency}, d.Reasons)
}

func TestRoute_UnknownFallback(t *testing.T) {
	d := Default().Route(classification(model.CategoryUnknown, 0.35), model.UrgencyMedium)

	assert.True(t, d.RequiresHumanReview)
	assert.Equal(t, model.DestinationHumanReview, d.Destination)
	assert.Equal(t, []string{"Confidence 0.35 below threshold 0.70."}, d.Reasons)
}

func TestRoute_CustomOptions(t *testing.T) {
	r, err := New(Options{
		ConfidenceThreshold: 0.5,
		Queues: QueueTable{
			model.CategoryPolicyEligibility: model.DestinationFinanceOps,
		},
	})
	require.NoError(t, err)

	d := r.Route(classification(model.CategoryPolicyEligibility, 0.55), model.UrgencyLow)
	assert.Equal(t, model.DestinationFinanceOps, d.Destination)
	assert.False(t, d.RequiresHumanReview)

	d = r.Route(classification(model.CategoryNominationGuidance, 0.9), model.UrgencyLow)
	assert.Equal(t, model.DestinationHumanReview, d.Destination)
	assert.False(t, d.RequiresHumanReview)
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{ConfidenceThreshold: 0})
	require.Error(t, err)

	_, err = New(Options{ConfidenceThreshold: 1.5})
	require.Error(t, err)

	_, err = New(Options{
		ConfidenceThreshold: 0.7,
		Queues:              QueueTable{model.CategoryUnknown: model.Destination("Legal")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown destination")
}

func TestNew_NilQueuesUsesDefaults(t *testing.T) {
	r, err := New(Options{ConfidenceThreshold: 0.7})
	require.NoError(t, err)

	d := r.Route(classification(model.CategoryAccessPermissions, 0.9), model.UrgencyLow)
	assert.Equal(t, model.DestinationITSupport, d.Destination)
}

func TestRouter_RuleOrder(t *testing.T) {
	assert.Equal(t, []string{
		RuleConfidenceThreshold,
		RuleCategoryQueue,
		RuleHumanReviewOverride,
		RuleUrgencyAction,
		RuleAuthOverride,
	}, Default().Rules())
}

func TestRoute_DoesNotShareReasonsBetweenCalls(t *testing.T) {
	r := Default()
	cls := classification(model.CategoryUnknown, 0.35)

	first := r.Route(cls, model.UrgencyHigh)
	first.Reasons[0] = "mutated"

	second := r.Route(cls, model.UrgencyHigh)
	assert.Equal(t, "Confidence 0.35 below threshold 0.70.", second.Reasons[0])
}

func TestQueueTable_CloneIsolatesRule(t *testing.T) {
	queues := DefaultQueues()
	r := NewWithRules(DefaultRules(0.7, queues))

	queues[model.CategoryAccessPermissions] = model.DestinationFinanceOps

	d := r.Route(classification(model.CategoryAccessPermissions, 0.9), model.UrgencyLow)
	assert.Equal(t, model.DestinationITSupport, d.Destination)
}
