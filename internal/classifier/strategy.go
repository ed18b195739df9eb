package classifier

// Strategy is one step of the classification chain.
type Strategy interface {
	// Classify returns the heading for the account and whether this strategy
	// decided it. keyword names the rule or mapping that matched, if any.
	Classify(account, manual string) (heading, keyword string, found bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// Strategy names reported by Explain.
const (
	StrategyManual  = "Manual"
	StrategyDirect  = "DirectMapping"
	StrategyKeyword = "Keyword"
	StrategyDefault = "Default"
)
