package model

import (
	"fmt"
	"maps"
	"math"
)

// Extracted signal names set by the classifier.
const (
	SignalPossibleOrderIssue = "possible_order_issue"
	SignalPossibleAuthIssue  = "possible_auth_issue"
)

// ClassificationResult is the classifier's best guess for a message.
// Confidence is always within [0, 1].
type ClassificationResult struct {
	Category          Category       `json:"category"`
	Confidence        float64        `json:"confidence"`
	Rationale         string         `json:"rationale"`
	ExtractedEntities map[string]any `json:"extracted_entities"`
}

// NewClassificationResult validates a caller-supplied classification.
func NewClassificationResult(category Category, confidence float64, rationale string, entities map[string]any) (ClassificationResult, error) {
	if !category.IsValid() {
		return ClassificationResult{}, newValidationError("category", fmt.Sprintf("%q is not a known category", category))
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return ClassificationResult{}, newValidationError("confidence", fmt.Sprintf("%v is outside [0, 1]", confidence))
	}
	if entities == nil {
		entities = map[string]any{}
	}
	return ClassificationResult{
		Category:          category,
		Confidence:        confidence,
		Rationale:         rationale,
		ExtractedEntities: maps.Clone(entities),
	}, nil
}

// HasSignal reports whether the named signal was extracted as true.
func (c ClassificationResult) HasSignal(name string) bool {
	v, ok := c.ExtractedEntities[name].(bool)
	return ok && v
}

func (c ClassificationResult) clone() ClassificationResult {
	c.ExtractedEntities = maps.Clone(c.ExtractedEntities)
	if c.ExtractedEntities == nil {
		c.ExtractedEntities = map[string]any{}
	}
	return c
}
