// Package triage runs an intake request through classification and routing
// and assembles the resulting ticket with its audit trail.
package triage

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/triage-cli/internal/audit"
	"github.com/sells-group/triage-cli/internal/model"
)

// Classifier assigns a category and confidence to a message.
type Classifier interface {
	Classify(message string) model.ClassificationResult
}

// Router decides where a classified request goes.
type Router interface {
	Route(cls model.ClassificationResult, urgency model.Urgency) model.RoutingDecision
}

// Assembler sequences classification and routing for one request at a time.
// It keeps no per-request state, so one Assembler may serve concurrent
// requests as long as its Classifier and Router do.
type Assembler struct {
	classifier Classifier
	router     Router
	clock      audit.Clock
	newID      IDGenerator
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides the clock used for audit and ticket timestamps.
func WithClock(c audit.Clock) Option {
	return func(a *Assembler) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithIDGenerator overrides request id generation.
func WithIDGenerator(g IDGenerator) Option {
	return func(a *Assembler) {
		if g != nil {
			a.newID = g
		}
	}
}

// New creates an Assembler.
func New(classifier Classifier, router Router, opts ...Option) *Assembler {
	a := &Assembler{
		classifier: classifier,
		router:     router,
		clock:      audit.SystemClock,
		newID:      NewRequestID,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewIntake validates raw intake fields, generating a request id when
// requestID is blank.
func (a *Assembler) NewIntake(requestID, employeeName, department string, urgency model.Urgency, message string) (model.IntakeRequest, error) {
	if strings.TrimSpace(requestID) == "" {
		requestID = a.newID()
	}
	return model.NewIntakeRequest(requestID, employeeName, department, urgency, message)
}

// Triage classifies and routes req and returns the finished ticket. req is
// expected to come from model.NewIntakeRequest or NewIntake.
func (a *Assembler) Triage(req model.IntakeRequest) model.TicketRecord {
	trail := audit.Trail{}.Append(a.clock(), audit.EventIntakeReceived, audit.IntakeDetails(req))

	cls := a.classifier.Classify(req.Message)
	trail = trail.Append(a.clock(), audit.EventAIClassification, audit.ClassificationDetails(cls))

	decision := a.router.Route(cls, req.Urgency)
	trail = trail.Append(a.clock(), audit.EventWorkflowRouted, audit.RoutingDetails(decision))

	ticket := model.NewTicketRecord(req, cls, decision, a.clock(), trail.Events())

	zap.L().Debug("triage: ticket assembled",
		zap.String("request_id", req.RequestID),
		zap.String("category", string(cls.Category)),
		zap.Float64("confidence", cls.Confidence),
		zap.String("destination", string(decision.Destination)),
		zap.Bool("requires_human_review", decision.RequiresHumanReview),
	)

	return ticket
}
