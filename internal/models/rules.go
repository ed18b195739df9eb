package models

// HeadingRule binds a set of keywords to an income-statement heading. Rules
// are evaluated in order and the first one with a matching keyword wins.
type HeadingRule struct {
	Heading  string   `yaml:"heading" json:"heading"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// RulesConfig is the layout of the classification rules file.
type RulesConfig struct {
	DefaultHeading string            `yaml:"default_heading,omitempty"`
	Rules          []HeadingRule     `yaml:"rules"`
	Accounts       map[string]string `yaml:"accounts,omitempty"`
}
