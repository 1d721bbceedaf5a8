// Package classifier assigns a request category and confidence to free-text
// messages using weighted phrase and token matches.
package classifier

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/triage-cli/internal/model"
)

const (
	phraseWeight = 2
	tokenWeight  = 1

	baseConfidence      = 0.2
	scoreStep           = 0.08
	scoreCap            = 0.5
	marginStep          = 0.12
	marginCap           = 0.3
	lowSignalScore      = 1
	lowSignalConfidence = 0.35
)

// LowSignalRationale is the rationale returned when no category scores above
// the low-signal cutoff.
const LowSignalRationale = "Insufficient signal to classify confidently; routed to Human Review."

var tokenPattern = regexp.MustCompile(`[a-zA-Z']+`)

// CategoryScore is one category's total phrase and token score.
type CategoryScore struct {
	Category model.Category
	Score    int
}

type compiledCategory struct {
	category model.Category
	phrases  []string
	tokens   map[string]struct{}
}

// Classifier scores messages against a fixed keyword table. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	categories []compiledCategory
}

// New builds a Classifier from a validated keyword table. Keywords are
// normalized the same way messages are.
func New(table KeywordTable) (*Classifier, error) {
	if err := table.Validate(); err != nil {
		return nil, eris.Wrap(err, "classifier: new")
	}

	c := &Classifier{categories: make([]compiledCategory, 0, len(table.Categories))}
	for _, ck := range table.Categories {
		cc := compiledCategory{
			category: ck.Category,
			tokens:   make(map[string]struct{}, len(ck.Tokens)),
		}
		for _, p := range ck.Phrases {
			if p = Normalize(p); p != "" {
				cc.phrases = append(cc.phrases, p)
			}
		}
		for _, tok := range ck.Tokens {
			if tok = Normalize(tok); tok != "" {
				cc.tokens[tok] = struct{}{}
			}
		}
		c.categories = append(c.categories, cc)
	}
	return c, nil
}

// Default returns a Classifier over DefaultKeywords.
func Default() *Classifier {
	c, err := New(DefaultKeywords())
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize lowercases text and collapses runs of whitespace into single
// spaces, trimming both ends.
func Normalize(text string) string {
	lower := cases.Lower(language.Und).String(text)
	return strings.Join(strings.Fields(lower), " ")
}

// Tokens returns the set of word tokens in already-normalized text.
// Apostrophes are kept inside tokens ("can't").
func Tokens(text string) map[string]struct{} {
	matches := tokenPattern.FindAllString(text, -1)
	set := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		set[m] = struct{}{}
	}
	return set
}

// Score returns per-category scores for a message, in table order.
func (c *Classifier) Score(message string) []CategoryScore {
	return c.score(Normalize(message))
}

func (c *Classifier) score(text string) []CategoryScore {
	tokens := Tokens(text)
	scores := make([]CategoryScore, len(c.categories))
	for i, cc := range c.categories {
		total := 0
		for _, p := range cc.phrases {
			if strings.Contains(text, p) {
				total += phraseWeight
			}
		}
		for tok := range cc.tokens {
			if _, ok := tokens[tok]; ok {
				total += tokenWeight
			}
		}
		scores[i] = CategoryScore{Category: cc.category, Score: total}
	}
	return scores
}

// Classify assigns a category, confidence and rationale to message. It never
// fails: weak signal yields the unknown category.
func (c *Classifier) Classify(message string) model.ClassificationResult {
	text := Normalize(message)
	scores := c.score(text)

	best, second := pickBest(scores)
	if best.Score <= lowSignalScore {
		return model.ClassificationResult{
			Category:          model.CategoryUnknown,
			Confidence:        lowSignalConfidence,
			Rationale:         LowSignalRationale,
			ExtractedEntities: map[string]any{},
		}
	}

	margin := max(0, best.Score-second)

	return model.ClassificationResult{
		Category:          best.Category,
		Confidence:        confidence(best.Score, margin),
		Rationale:         fmt.Sprintf("Keyword+token scoring favored '%s' (score=%d, margin=%d).", best.Category, best.Score, margin),
		ExtractedEntities: extractSignals(text),
	}
}

// pickBest returns the first category reaching the maximum score and the
// second-highest score overall. A tie for first gives second == best.Score.
func pickBest(scores []CategoryScore) (CategoryScore, int) {
	var best CategoryScore
	bestIdx := -1
	for i, s := range scores {
		if bestIdx < 0 || s.Score > best.Score {
			best, bestIdx = s, i
		}
	}

	second := 0
	found := false
	for i, s := range scores {
		if i == bestIdx {
			continue
		}
		if !found || s.Score > second {
			second, found = s.Score, true
		}
	}
	return best, second
}

func confidence(best, margin int) float64 {
	conf := baseConfidence
	conf += math.Min(scoreCap, float64(best)*scoreStep)
	conf += math.Min(marginCap, float64(margin)*marginStep)
	conf = math.Min(1, math.Max(0, conf))
	return math.Round(conf*100) / 100
}

func extractSignals(text string) map[string]any {
	signals := map[string]any{}
	if strings.Contains(text, "order") || strings.Contains(text, "tracking") {
		signals[model.SignalPossibleOrderIssue] = true
	}
	if strings.Contains(text, "sso") || strings.Contains(text, "login") {
		signals[model.SignalPossibleAuthIssue] = true
	}
	return signals
}
