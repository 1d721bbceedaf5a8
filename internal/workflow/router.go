// Package workflow turns a classification into a routing decision by running
// an ordered list of rules. Order is significant: later rules override
// earlier ones and reasons accumulate in rule order.
package workflow

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/triage-cli/internal/model"
)

// DefaultConfidenceThreshold is the confidence below which a request always
// goes to human review.
const DefaultConfidenceThreshold = 0.70

// Options configures a Router.
type Options struct {
	ConfidenceThreshold float64
	Queues              QueueTable
}

// DefaultOptions returns the built-in threshold and queue table.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		Queues:              DefaultQueues(),
	}
}

// Router evaluates routing rules. It holds no mutable state and is safe for
// concurrent use.
type Router struct {
	rules []Rule
}

// New builds a Router running DefaultRules for opts.
func New(opts Options) (*Router, error) {
	if opts.ConfidenceThreshold <= 0 || opts.ConfidenceThreshold > 1 {
		return nil, eris.Errorf("workflow: confidence threshold %v must be in (0, 1]", opts.ConfidenceThreshold)
	}
	if opts.Queues == nil {
		opts.Queues = DefaultQueues()
	}
	if err := opts.Queues.Validate(); err != nil {
		return nil, err
	}
	return NewWithRules(DefaultRules(opts.ConfidenceThreshold, opts.Queues)), nil
}

// NewWithRules builds a Router over an explicit rule list.
func NewWithRules(rules []Rule) *Router {
	return &Router{rules: append([]Rule(nil), rules...)}
}

// Default returns a Router with DefaultOptions.
func Default() *Router {
	r, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return r
}

// Rules returns the rule names in evaluation order.
func (r *Router) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

// Route applies every rule in order and returns the resulting decision. It
// never fails.
func (r *Router) Route(cls model.ClassificationResult, urgency model.Urgency) model.RoutingDecision {
	in := Input{Classification: cls, Urgency: urgency}
	d := &Draft{
		Destination: model.DestinationHumanReview,
		Reasons:     []string{},
	}
	for _, rule := range r.rules {
		rule.Apply(in, d)
	}
	return model.RoutingDecision{
		Destination:         d.Destination,
		Action:              d.Action,
		RequiresHumanReview: d.RequiresHumanReview,
		Reasons:             d.Reasons,
	}
}
