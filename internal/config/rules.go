package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/casewell/docvault/internal/core/domain"
)

// LoadClassificationRules reads keyword rules from a YAML file. An empty path
// selects the built-in rule table.
func LoadClassificationRules(path string) ([]domain.ClassificationRule, error) {
	if path == "" {
		return domain.DefaultRules(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var doc struct {
		Rules []domain.ClassificationRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s contains no rules", path)
	}

	for i, rule := range doc.Rules {
		if _, ok := domain.ParseCategory(string(rule.Category)); !ok {
			return nil, fmt.Errorf("rule %d: unknown category %q", i, rule.Category)
		}
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i, rule.Category)
		}
	}
	return doc.Rules, nil
}
