package classifier

import "strings"

// ManualStrategy honours an explicit heading entered by the user. The label is
// returned verbatim, even when it is not one of the fixed headings.
type ManualStrategy struct{}

// Name returns the name of this strategy for logging and debugging.
func (ManualStrategy) Name() string { return StrategyManual }

// Classify returns manual when it is not blank.
func (ManualStrategy) Classify(_, manual string) (string, string, bool) {
	if strings.TrimSpace(manual) == "" {
		return "", "", false
	}
	return manual, "", true
}
