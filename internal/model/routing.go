package model

import "slices"

// Recommended actions.
const (
	ActionNotifyPrimary       = "Create ticket + notify primary"
	ActionNotifyPrimaryOnCall = "Create ticket + notify primary + on-call"
)

// RoutingDecision is where a classified request goes and why.
type RoutingDecision struct {
	Destination         Destination `json:"destination"`
	Action              string      `json:"action"`
	RequiresHumanReview bool        `json:"requires_human_review"`
	Reasons             []string    `json:"reasons"`
}

func (d RoutingDecision) clone() RoutingDecision {
	d.Reasons = slices.Clone(d.Reasons)
	if d.Reasons == nil {
		d.Reasons = []string{}
	}
	return d
}
