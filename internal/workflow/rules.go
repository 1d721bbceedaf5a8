package workflow

import (
	"fmt"

	"github.com/sells-group/triage-cli/internal/model"
)

// Rule names, in evaluation order.
const (
	RuleConfidenceThreshold = "confidence_threshold"
	RuleCategoryQueue       = "category_queue"
	RuleHumanReviewOverride = "human_review_override"
	RuleUrgencyAction       = "urgency_action"
	RuleAuthOverride        = "auth_override"
)

// Reason texts appended by the rules.
const (
	ReasonHighUrgency = "High urgency: prioritize SLA and notify on-call."
	ReasonAuthSignal  = "Auth-related signal detected; routing to IT Support."
)

// Input is what every rule sees.
type Input struct {
	Classification model.ClassificationResult
	Urgency        model.Urgency
}

// Draft is the routing decision under construction. Rules may set fields or
// append reasons; reasons are never removed.
type Draft struct {
	Destination         model.Destination
	Action              string
	RequiresHumanReview bool
	Reasons             []string
}

func (d *Draft) addReason(reason string) {
	d.Reasons = append(d.Reasons, reason)
}

// Rule is one named step of the routing workflow.
type Rule struct {
	Name  string
	Apply func(in Input, d *Draft)
}

// ConfidenceThreshold flags the request for human review when confidence is
// below threshold.
func ConfidenceThreshold(threshold float64) Rule {
	return Rule{
		Name: RuleConfidenceThreshold,
		Apply: func(in Input, d *Draft) {
			if in.Classification.Confidence < threshold {
				d.RequiresHumanReview = true
				d.addReason(fmt.Sprintf("Confidence %.2f below threshold %.2f.", in.Classification.Confidence, threshold))
			}
		},
	}
}

// CategoryQueue sets the destination from the category table.
func CategoryQueue(queues QueueTable) Rule {
	queues = queues.clone()
	return Rule{
		Name: RuleCategoryQueue,
		Apply: func(in Input, d *Draft) {
			d.Destination = queues.Lookup(in.Classification.Category)
		},
	}
}

// HumanReviewOverride forces Human Review whenever review is required,
// whatever the category table said.
func HumanReviewOverride() Rule {
	return Rule{
		Name: RuleHumanReviewOverride,
		Apply: func(_ Input, d *Draft) {
			if d.RequiresHumanReview {
				d.Destination = model.DestinationHumanReview
			}
		},
	}
}

// UrgencyAction picks the action; high urgency also pages on-call.
func UrgencyAction() Rule {
	return Rule{
		Name: RuleUrgencyAction,
		Apply: func(in Input, d *Draft) {
			if in.Urgency == model.UrgencyHigh {
				d.Action = model.ActionNotifyPrimaryOnCall
				d.addReason(ReasonHighUrgency)
				return
			}
			d.Action = model.ActionNotifyPrimary
		},
	}
}

// AuthOverride steers auth-flagged requests to IT Support, but only when
// human review is not already required.
func AuthOverride() Rule {
	return Rule{
		Name: RuleAuthOverride,
		Apply: func(in Input, d *Draft) {
			if in.Classification.HasSignal(model.SignalPossibleAuthIssue) && !d.RequiresHumanReview {
				d.Destination = model.DestinationITSupport
				d.addReason(ReasonAuthSignal)
			}
		},
	}
}

// DefaultRules returns the routing workflow in its fixed evaluation order.
// Later rules may override earlier ones.
func DefaultRules(threshold float64, queues QueueTable) []Rule {
	return []Rule{
		ConfidenceThreshold(threshold),
		CategoryQueue(queues),
		HumanReviewOverride(),
		UrgencyAction(),
		AuthOverride(),
	}
}
