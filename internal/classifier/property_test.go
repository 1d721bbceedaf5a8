package classifier

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sells-group/triage-cli/internal/model"
)

// vocabulary mixes keyword phrases, tokens and filler so generated messages
// hit every scoring path.
var vocabulary = []string{
	"redeem", "order", "tracking", "gift", "award", "points", "ecard", "recognize",
	"nominate", "criteria", "policy", "eligible", "limit", "can i", "login", "sso",
	"error", "access denied", "role", "group", "hello", "please", "thanks", "my",
	"didn't receive", "Shipping", "NOMINATION", "  ", "\n", "can't access",
}

func genMessage() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(vocabulary)-1)).Map(func(idx []int) string {
		words := make([]string, len(idx))
		for i, n := range idx {
			words[i] = vocabulary[n]
		}
		return strings.Join(words, " ")
	})
}

func TestClassifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	c := Default()

	properties.Property("confidence is within [0, 1] and category is defined", prop.ForAll(
		func(msg string) bool {
			cls := c.Classify(msg)
			return cls.Confidence >= 0 && cls.Confidence <= 1 && cls.Category.IsValid()
		},
		genMessage(),
	))

	properties.Property("arbitrary text never escapes the bounds", prop.ForAll(
		func(msg string) bool {
			cls := c.Classify(msg)
			return cls.Confidence >= 0 && cls.Confidence <= 1 && cls.Category.IsValid()
		},
		gen.AnyString(),
	))

	properties.Property("best score of at most one yields unknown at 0.35", prop.ForAll(
		func(msg string) bool {
			cls := c.Classify(msg)
			if maxScore(c.Score(msg)) <= 1 {
				return cls.Category == model.CategoryUnknown && cls.Confidence == 0.35 && len(cls.ExtractedEntities) == 0
			}
			return cls.Category != model.CategoryUnknown
		},
		genMessage(),
	))

	properties.Property("confidence matches the score formula", prop.ForAll(
		func(msg string) bool {
			scores := c.Score(msg)
			best, second := pickBest(scores)
			if best.Score <= 1 {
				return true
			}
			margin := max(0, best.Score-second)
			want := 0.2 + math.Min(0.5, float64(best.Score)*0.08) + math.Min(0.3, float64(margin)*0.12)
			want = math.Round(math.Min(1, want)*100) / 100
			return c.Classify(msg).Confidence == want
		},
		genMessage(),
	))

	properties.Property("classify is idempotent", prop.ForAll(
		func(msg string) bool {
			return reflect.DeepEqual(c.Classify(msg), c.Classify(msg))
		},
		genMessage(),
	))

	properties.TestingRun(t)
}
