package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/casewell/docvault/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("SUPPORTED_EXTENSIONS", "")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "")
	t.Setenv("MIN_TEXT_DENSITY", "")

	cfg := Load()
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected default provider gemini, got %q", cfg.LLMProvider)
	}
	if cfg.MaxUploadSizeMB != 50 {
		t.Fatalf("expected default upload cap 50, got %d", cfg.MaxUploadSizeMB)
	}
	if cfg.MinTextDensity != 50 {
		t.Fatalf("expected default text density 50, got %v", cfg.MinTextDensity)
	}

	exts := cfg.SupportedExtensionSet()
	for _, want := range []string{".pdf", ".png", ".jpg", ".jpeg", ".tiff", ".tif"} {
		if _, ok := exts[want]; !ok {
			t.Fatalf("expected %s in default extension set %v", want, exts)
		}
	}
}

func TestSupportedExtensionSetNormalizes(t *testing.T) {
	cfg := Config{SupportedExtensions: "PDF, .Png ,,jpg"}
	exts := cfg.SupportedExtensionSet()
	for _, want := range []string{".pdf", ".png", ".jpg"} {
		if _, ok := exts[want]; !ok {
			t.Fatalf("expected %s in %v", want, exts)
		}
	}
	if len(exts) != 3 {
		t.Fatalf("expected 3 extensions, got %v", exts)
	}
}

func TestActiveAPIKeyFollowsProvider(t *testing.T) {
	cfg := Config{
		LLMProvider:     "anthropic",
		OpenAIAPIKey:    "openai-key",
		AnthropicAPIKey: "anthropic-key",
		GoogleAPIKey:    "google-key",
	}
	if got := cfg.ActiveAPIKey(); got != "anthropic-key" {
		t.Fatalf("expected anthropic key, got %q", got)
	}
	cfg.LLMProvider = "unknown"
	if got := cfg.ActiveAPIKey(); got != "" {
		t.Fatalf("expected empty key for unknown provider, got %q", got)
	}
}

func TestLoadClassificationRulesEmptyPathUsesDefaults(t *testing.T) {
	rules, err := LoadClassificationRules("")
	if err != nil {
		t.Fatalf("LoadClassificationRules() error = %v", err)
	}
	if len(rules) != len(domain.DefaultRules()) {
		t.Fatalf("expected built-in rule table, got %d rules", len(rules))
	}
}

func TestLoadClassificationRulesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  - category: Invoice
    keywords: ["invoice", "amount due"]
    min_matches: 2
  - category: Contract
    keywords: ["agreement"]
    min_matches: 1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadClassificationRules(path)
	if err != nil {
		t.Fatalf("LoadClassificationRules() error = %v", err)
	}
	if len(rules) != 2 || rules[0].Category != domain.CategoryInvoice || rules[1].MinMatches != 1 {
		t.Fatalf("unexpected rules: %+v", rules)
	}
}

func TestLoadClassificationRulesRejectsUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  - category: Legal Brief
    keywords: ["brief"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	if _, err := LoadClassificationRules(path); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}
