// Package store loads and saves the classification rules file.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
)

// DefaultRulesFile is looked up when no explicit path is configured.
const DefaultRulesFile = "classification.yaml"

// RuleStore manages the YAML file holding keyword rules, account mappings and
// the default heading.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for rulesFile. An empty name searches for
// DefaultRulesFile.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	return &RuleStore{RulesFile: rulesFile, logger: logging.OrDefault(logger)}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".eerr", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".eerr", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

func (s *RuleStore) filename() string {
	if s.RulesFile == "" {
		return DefaultRulesFile
	}
	return s.RulesFile
}

// LoadRules reads the rules file. A missing file is not an error: it returns
// nil so callers fall back to the built-in rules.
func (s *RuleStore) LoadRules() (*models.RulesConfig, error) {
	filename := s.filename()

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.Debug("Classification rules file not found, using built-in rules",
			logging.Field{Key: logging.FieldFile, Value: filename})
		return nil, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var cfg models.RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && (len(cfg.Rules) > 0 || len(cfg.Accounts) > 0 || cfg.DefaultHeading != "") {
		s.logger.Debug("Loaded classification rules",
			logging.Field{Key: logging.FieldFile, Value: filePath},
			logging.Field{Key: logging.FieldCount, Value: len(cfg.Rules)})
		return &cfg, nil
	}

	// Fallback: a bare list of rules without the top-level key
	var rules []models.HeadingRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", filePath, err)
	}
	s.logger.Debug("Loaded classification rules from list",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return &models.RulesConfig{Rules: rules}, nil
}

// SaveRules writes cfg to the rules file, creating parent directories.
func (s *RuleStore) SaveRules(cfg *models.RulesConfig) error {
	if cfg == nil {
		return fmt.Errorf("nil rules config")
	}

	filePath, err := s.FindConfigFile(s.filename())
	if err != nil {
		filePath = s.filename()
	}

	if err := os.MkdirAll(filepath.Dir(filePath), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	if err := os.WriteFile(filePath, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing rules: %w", err)
	}

	s.logger.Debug("Saved classification rules",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(cfg.Rules)})
	return nil
}

// SaveAccountMapping adds account → heading to the rules file, keeping the
// rest of its content.
func (s *RuleStore) SaveAccountMapping(account, heading string) error {
	cfg, err := s.LoadRules()
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = &models.RulesConfig{}
	}
	if cfg.Accounts == nil {
		cfg.Accounts = make(map[string]string)
	}
	cfg.Accounts[account] = heading
	return s.SaveRules(cfg)
}
