package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casewell/docvault/internal/core/domain"
	"github.com/casewell/docvault/internal/core/ports"
)

const (
	classificationSnippetChars = 3000
	classificationMaxTokens    = 50
)

// ClassifyDocumentUseCase labels extracted text. It prefers the language
// model but degrades to the keyword rule table on any backend problem, so it
// never fails and never returns a label outside the category set.
type ClassifyDocumentUseCase struct {
	backend ports.CompletionBackend
	rules   []domain.ClassificationRule
	logger  *slog.Logger
}

func NewClassifyDocumentUseCase(
	backend ports.CompletionBackend,
	rules []domain.ClassificationRule,
	logger *slog.Logger,
) *ClassifyDocumentUseCase {
	if len(rules) == 0 {
		rules = domain.DefaultRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyDocumentUseCase{backend: backend, rules: rules, logger: logger}
}

func (uc *ClassifyDocumentUseCase) Classify(ctx context.Context, text string) domain.Category {
	if strings.TrimSpace(text) == "" {
		return domain.CategoryOther
	}

	if uc.backend == nil || !uc.backend.Configured() {
		uc.logger.Warn("no llm backend configured, using rule-based classification")
		return domain.ClassifyByRules(text, uc.rules)
	}

	response, err := uc.backend.Complete(ctx, buildClassificationPrompt(text), classificationMaxTokens)
	if err != nil {
		uc.logger.Error("llm classification failed, falling back to rules", "error", err)
		return domain.ClassifyByRules(text, uc.rules)
	}

	category, ok := domain.ParseCategory(strings.TrimSpace(response))
	if !ok {
		uc.logger.Warn("llm returned unknown category, coercing to Other",
			"returned", strings.TrimSpace(response))
		return domain.CategoryOther
	}
	return category
}

func buildClassificationPrompt(text string) string {
	var categories strings.Builder
	for _, c := range domain.Categories() {
		categories.WriteString("- ")
		categories.WriteString(string(c))
		categories.WriteByte('\n')
	}

	return fmt.Sprintf(`Classify this legal document into exactly one category.

Categories:
%s
Rules:
1. Return ONLY the category name, nothing else.
2. If uncertain, use "Other".
3. Base classification on document content, structure, and legal terminology.

Document text (first %d characters):
%s`, categories.String(), classificationSnippetChars, truncateRunes(text, classificationSnippetChars))
}

// truncateRunes cuts s to at most max runes without splitting a code point.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
