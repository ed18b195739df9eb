// Package classifier maps ledger account names to income-statement headings.
//
// Classification runs a fixed chain of strategies:
// 1. Manual heading entered by the user, returned verbatim
// 2. Direct account → heading mappings from the rules file
// 3. Keyword rules, first match wins
// 4. The default heading
//
// Every input yields exactly one heading; nothing in the chain can fail.
package classifier

import (
	"strings"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

// RuleSource supplies classification rules, typically from a YAML file.
type RuleSource interface {
	LoadRules() (*models.RulesConfig, error)
}

// Result explains one classification.
type Result struct {
	Account  string `json:"account"`
	Manual   string `json:"manual,omitempty"`
	Heading  string `json:"heading"`
	Strategy string `json:"strategy"`
	Keyword  string `json:"keyword,omitempty"`
}

// Classifier runs the strategy chain.
type Classifier struct {
	strategies     []Strategy
	defaultHeading string
	logger         logging.Logger
}

// Option customises a Classifier.
type Option func(*Classifier)

// WithDefaultHeading overrides the fallback heading.
func WithDefaultHeading(heading string) Option {
	return func(c *Classifier) {
		if strings.TrimSpace(heading) != "" {
			c.defaultHeading = heading
		}
	}
}

// WithAccountMappings inserts a direct-mapping step before the keyword rules.
func WithAccountMappings(mappings map[string]string) Option {
	return func(c *Classifier) {
		if len(mappings) == 0 {
			return
		}
		c.strategies = append(c.strategies, NewDirectMappingStrategy(mappings))
	}
}

// New builds a classifier over rules. Nil rules use DefaultRules.
func New(rules []models.HeadingRule, logger logging.Logger, opts ...Option) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	c := &Classifier{
		strategies:     []Strategy{ManualStrategy{}},
		defaultHeading: models.HeadingOperacion,
		logger:         logging.OrDefault(logger),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.strategies = append(c.strategies, NewKeywordStrategy(rules))
	return c
}

// NewFromSource loads rules, mappings and the default heading from source.
// A load failure is logged and the built-in rules are used instead. Settings
// from the source take precedence over opts.
func NewFromSource(source RuleSource, logger logging.Logger, opts ...Option) *Classifier {
	logger = logging.OrDefault(logger)
	if source == nil {
		return New(nil, logger, opts...)
	}

	cfg, err := source.LoadRules()
	if err != nil {
		logger.WithError(err).Warn("Failed to load classification rules, using built-in rules")
		return New(nil, logger, opts...)
	}
	if cfg == nil {
		return New(nil, logger, opts...)
	}

	var rules []models.HeadingRule
	if len(cfg.Rules) > 0 {
		rules = cfg.Rules
	}
	all := append([]Option{}, opts...)
	all = append(all, WithDefaultHeading(cfg.DefaultHeading), WithAccountMappings(cfg.Accounts))
	return New(rules, logger, all...)
}

// Classify returns the heading for account. A non-blank manual heading is
// returned unchanged.
func (c *Classifier) Classify(account, manual string) string {
	return c.Explain(account, manual).Heading
}

// Explain classifies account and reports which strategy decided.
func (c *Classifier) Explain(account, manual string) Result {
	res := Result{Account: account, Manual: manual}
	for _, s := range c.strategies {
		heading, keyword, ok := s.Classify(account, manual)
		if !ok {
			continue
		}
		res.Heading, res.Strategy, res.Keyword = heading, s.Name(), keyword
		c.logger.Debug("Account classified",
			logging.Field{Key: logging.FieldAccount, Value: account},
			logging.Field{Key: logging.FieldHeading, Value: heading},
			logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
			logging.Field{Key: logging.FieldKeyword, Value: keyword})
		return res
	}

	res.Heading, res.Strategy = c.defaultHeading, StrategyDefault
	c.logger.Debug("Account classified by default",
		logging.Field{Key: logging.FieldAccount, Value: account},
		logging.Field{Key: logging.FieldHeading, Value: c.defaultHeading})
	return res
}

// Learn maps account to heading for the rest of the run, adding a
// direct-mapping step after the manual one when the chain has none. It must
// not run concurrently with Classify.
func (c *Classifier) Learn(account, heading string) {
	for _, s := range c.strategies {
		if direct, ok := s.(*DirectMappingStrategy); ok {
			direct.Set(account, heading)
			return
		}
	}
	direct := NewDirectMappingStrategy(map[string]string{account: heading})
	chain := make([]Strategy, 0, len(c.strategies)+1)
	chain = append(chain, c.strategies[0], direct)
	c.strategies = append(chain, c.strategies[1:]...)
}

// DefaultHeading is the heading used when nothing matches.
func (c *Classifier) DefaultHeading() string { return c.defaultHeading }

// StrategyNames lists the chain in evaluation order, ending with the default.
func (c *Classifier) StrategyNames() []string {
	names := make([]string, 0, len(c.strategies)+1)
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return append(names, StrategyDefault)
}

// CanonicalHeading maps a case or accent variant of a fixed heading
// ("Gastos de Remuneración") to its constant. Unknown labels are returned
// unchanged with ok false.
func CanonicalHeading(name string) (string, bool) {
	key := textnorm.Fold(name)
	for _, h := range models.FixedHeadings {
		if textnorm.Fold(h) == key {
			return h, true
		}
	}
	return name, false
}

// IsFixedHeading reports whether name is one of the six fixed headings.
func IsFixedHeading(name string) bool {
	_, ok := CanonicalHeading(name)
	return ok
}
