package classifier

import (
	"os"
	"slices"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/triage-cli/internal/model"
)

// CategoryKeywords holds the signals that score one category. Phrases are
// matched as substrings of the normalized message; tokens are matched against
// the message's set of word tokens.
type CategoryKeywords struct {
	Category model.Category `yaml:"name"`
	Phrases  []string       `yaml:"phrases"`
	Tokens   []string       `yaml:"tokens"`
}

// KeywordTable is the ordered set of per-category keywords. Order matters:
// it is the tie-break order when two categories score the same.
type KeywordTable struct {
	Categories []CategoryKeywords `yaml:"categories"`
}

// DefaultKeywords returns the built-in keyword table.
func DefaultKeywords() KeywordTable {
	return KeywordTable{Categories: []CategoryKeywords{
		{
			Category: model.CategoryRecognitionHelp,
			Phrases: []string{
				"how do i recognize", "send recognition", "ecard", "recognize", "shoutout",
				"post recognition", "points", "give points", "award someone",
			},
			Tokens: []string{"recognition", "recognize", "ecard", "points", "award"},
		},
		{
			Category: model.CategoryAwardFulfillmentIssue,
			Phrases: []string{
				"didn't receive", "not received", "shipping", "delivery", "redeem", "redemption",
				"order", "status", "tracking", "gift", "catalog", "award store",
			},
			Tokens: []string{"redeem", "redeemed", "tracking", "shipment", "deliver", "delivery", "order"},
		},
		{
			Category: model.CategoryNominationGuidance,
			Phrases: []string{
				"nominate", "nomination", "recommend", "submission", "criteria", "who can be nominated",
			},
			Tokens: []string{"nominate", "nomination", "criteria"},
		},
		{
			Category: model.CategoryPolicyEligibility,
			Phrases: []string{
				"policy", "eligible", "eligibility", "limit", "rules", "can i", "allowed", "restriction",
			},
			Tokens: []string{"policy", "eligible", "eligibility", "limit", "rules"},
		},
		{
			Category: model.CategoryAccessPermissions,
			Phrases: []string{
				"can't access", "permission", "login", "sso", "error", "access denied", "role", "group",
			},
			Tokens: []string{"login", "sso", "permission", "permissions", "access", "role", "group", "error"},
		},
	}}
}

// Validate checks that every entry names a distinct scored category.
func (t KeywordTable) Validate() error {
	if len(t.Categories) == 0 {
		return eris.New("classifier: keyword table has no categories")
	}
	seen := make(map[model.Category]bool, len(t.Categories))
	for i, ck := range t.Categories {
		if !slices.Contains(model.ScoredCategories(), ck.Category) {
			return eris.Errorf("classifier: entry %d: %q is not a scored category", i, ck.Category)
		}
		if seen[ck.Category] {
			return eris.Errorf("classifier: entry %d: duplicate category %q", i, ck.Category)
		}
		seen[ck.Category] = true
	}
	return nil
}

// LoadKeywords reads a keyword table from a YAML file.
func LoadKeywords(path string) (KeywordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordTable{}, eris.Wrap(err, "classifier: read keywords file")
	}
	return ParseKeywords(data)
}

// ParseKeywords decodes and validates a YAML keyword table.
func ParseKeywords(data []byte) (KeywordTable, error) {
	var t KeywordTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return KeywordTable{}, eris.Wrap(err, "classifier: parse keywords")
	}
	if err := t.Validate(); err != nil {
		return KeywordTable{}, err
	}
	return t, nil
}

// Encode renders the table as YAML in the format ParseKeywords reads.
func (t KeywordTable) Encode() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, eris.Wrap(err, "classifier: encode keywords")
	}
	return data, nil
}
