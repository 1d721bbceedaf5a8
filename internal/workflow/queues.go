package workflow

import (
	"maps"

	"github.com/rotisserie/eris"

	"github.com/sells-group/triage-cli/internal/model"
)

// QueueTable maps a category to its destination queue. Categories missing
// from the table route to Human Review.
type QueueTable map[model.Category]model.Destination

// DefaultQueues returns the built-in category to queue mapping.
func DefaultQueues() QueueTable {
	return QueueTable{
		model.CategoryRecognitionHelp:       model.DestinationRecognitionOps,
		model.CategoryAwardFulfillmentIssue: model.DestinationRecognitionOps,
		model.CategoryNominationGuidance:    model.DestinationHROps,
		model.CategoryPolicyEligibility:     model.DestinationHROps,
		model.CategoryAccessPermissions:     model.DestinationITSupport,
		model.CategoryUnknown:               model.DestinationHumanReview,
	}
}

// Lookup returns the destination for category.
func (q QueueTable) Lookup(category model.Category) model.Destination {
	if d, ok := q[category]; ok {
		return d
	}
	return model.DestinationHumanReview
}

// Validate checks that every destination in the table is defined.
func (q QueueTable) Validate() error {
	for cat, dest := range q {
		if !dest.IsValid() {
			return eris.Errorf("workflow: queue for %q: unknown destination %q", cat, dest)
		}
	}
	return nil
}

func (q QueueTable) clone() QueueTable {
	return maps.Clone(q)
}
