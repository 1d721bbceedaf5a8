package model

// Category is a request category assigned by the classifier.
type Category string

const (
	CategoryRecognitionHelp       Category = "recognition_help"
	CategoryAwardFulfillmentIssue Category = "award_fulfillment_issue"
	CategoryNominationGuidance    Category = "nomination_guidance"
	CategoryPolicyEligibility     Category = "policy_eligibility"
	CategoryAccessPermissions     Category = "access_permissions"
	CategoryUnknown               Category = "unknown"
)

// ScoredCategories returns the categories the classifier scores, in
// tie-break order: when two categories reach the same score the one listed
// first wins.
func ScoredCategories() []Category {
	return []Category{
		CategoryRecognitionHelp,
		CategoryAwardFulfillmentIssue,
		CategoryNominationGuidance,
		CategoryPolicyEligibility,
		CategoryAccessPermissions,
	}
}

// AllCategories returns every category including unknown.
func AllCategories() []Category {
	return append(ScoredCategories(), CategoryUnknown)
}

// IsValid reports whether c is one of the six defined categories.
func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Destination is a routing queue.
type Destination string

const (
	DestinationRecognitionOps Destination = "Recognition Ops"
	DestinationHROps          Destination = "HR Ops"
	DestinationITSupport      Destination = "IT Support"
	DestinationFinanceOps     Destination = "Finance Ops"
	DestinationHumanReview    Destination = "Human Review"
)

// AllDestinations returns all defined destinations.
func AllDestinations() []Destination {
	return []Destination{
		DestinationRecognitionOps,
		DestinationHROps,
		DestinationITSupport,
		DestinationFinanceOps,
		DestinationHumanReview,
	}
}

// IsValid reports whether d is a defined destination.
func (d Destination) IsValid() bool {
	for _, known := range AllDestinations() {
		if d == known {
			return true
		}
	}
	return false
}

// Urgency is the caller-declared urgency of a request.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// IsValid reports whether u is low, medium or high.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}
