package classifier

import (
	"strings"

	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

type foldedRule struct {
	heading  string
	keywords []string
}

// KeywordStrategy tests the folded account name against an ordered rule
// table. The first rule with a contained keyword wins.
type KeywordStrategy struct {
	rules []foldedRule
}

// NewKeywordStrategy folds the keywords of rules once. Blank keywords and
// rules without a heading are skipped.
func NewKeywordStrategy(rules []models.HeadingRule) *KeywordStrategy {
	s := &KeywordStrategy{rules: make([]foldedRule, 0, len(rules))}
	for _, r := range rules {
		if strings.TrimSpace(r.Heading) == "" {
			continue
		}
		fr := foldedRule{heading: r.Heading}
		for _, kw := range r.Keywords {
			if f := textnorm.Fold(kw); f != "" {
				fr.keywords = append(fr.keywords, f)
			}
		}
		s.rules = append(s.rules, fr)
	}
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string { return StrategyKeyword }

// Classify returns the heading of the first rule whose keyword occurs in the
// account name.
func (s *KeywordStrategy) Classify(account, _ string) (string, string, bool) {
	name := textnorm.Fold(account)
	if name == "" {
		return "", "", false
	}
	for _, r := range s.rules {
		for _, kw := range r.keywords {
			if strings.Contains(name, kw) {
				return r.heading, kw, true
			}
		}
	}
	return "", "", false
}
