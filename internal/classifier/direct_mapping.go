package classifier

import (
	"sync"

	"eerr/eerr-dashboard/internal/textnorm"
)

// DirectMappingStrategy maps whole account names to headings. Names are
// compared folded, so "Remuneración Gerencia" and "remuneracion gerencia" hit
// the same entry.
type DirectMappingStrategy struct {
	mu       sync.RWMutex
	mappings map[string]string
}

// NewDirectMappingStrategy creates a strategy from account → heading pairs.
func NewDirectMappingStrategy(mappings map[string]string) *DirectMappingStrategy {
	s := &DirectMappingStrategy{mappings: make(map[string]string, len(mappings))}
	for account, heading := range mappings {
		s.mappings[textnorm.Fold(account)] = heading
	}
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *DirectMappingStrategy) Name() string { return StrategyDirect }

// Classify looks the folded account name up.
func (s *DirectMappingStrategy) Classify(account, _ string) (string, string, bool) {
	key := textnorm.Fold(account)
	if key == "" {
		return "", "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	heading, ok := s.mappings[key]
	if !ok {
		return "", "", false
	}
	return heading, key, true
}

// Set adds or replaces one mapping.
func (s *DirectMappingStrategy) Set(account, heading string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[textnorm.Fold(account)] = heading
}
