package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/casewell/docvault/internal/core/domain"
)

type backendFake struct {
	configured bool
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (f *backendFake) Configured() bool { return f.configured }

func (f *backendFake) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const contractText = "This agreement is made between the parties, who hereby agree to the terms and conditions herein."

func TestClassifyEmptyTextReturnsOtherWithoutBackendCall(t *testing.T) {
	backend := &backendFake{configured: true}
	uc := NewClassifyDocumentUseCase(backend, nil, nil)

	for _, text := range []string{"", "   \n\t  "} {
		if got := uc.Classify(context.Background(), text); got != domain.CategoryOther {
			t.Fatalf("Classify(%q) = %q, want Other", text, got)
		}
	}
	if backend.calls != 0 {
		t.Fatalf("backend must not be called for empty text, got %d calls", backend.calls)
	}
}

func TestClassifyUnconfiguredBackendFallsBackToRules(t *testing.T) {
	backend := &backendFake{configured: false}
	uc := NewClassifyDocumentUseCase(backend, nil, nil)

	if got := uc.Classify(context.Background(), contractText); got != domain.CategoryContract {
		t.Fatalf("Classify() = %q, want Contract", got)
	}
	if backend.calls != 0 {
		t.Fatalf("unconfigured backend must not be called")
	}
}

func TestClassifyBackendErrorFallsBackToRules(t *testing.T) {
	backend := &backendFake{configured: true, err: errors.New("connection refused")}
	uc := NewClassifyDocumentUseCase(backend, nil, nil)

	if got := uc.Classify(context.Background(), contractText); got != domain.CategoryContract {
		t.Fatalf("Classify() = %q, want Contract from rules fallback", got)
	}
	if backend.calls != 1 {
		t.Fatalf("expected one backend attempt, got %d", backend.calls)
	}
}

func TestClassifyAcceptsExactCategoryMatch(t *testing.T) {
	backend := &backendFake{configured: true, response: "  Court Filing\n"}
	uc := NewClassifyDocumentUseCase(backend, nil, nil)

	if got := uc.Classify(context.Background(), "some pleading"); got != domain.CategoryCourtFiling {
		t.Fatalf("Classify() = %q, want Court Filing", got)
	}
}

func TestClassifyCoercesUnknownModelAnswerToOther(t *testing.T) {
	for _, response := range []string{"contract", "Legal Brief", "Contract."} {
		backend := &backendFake{configured: true, response: response}
		uc := NewClassifyDocumentUseCase(backend, nil, nil)

		if got := uc.Classify(context.Background(), contractText); got != domain.CategoryOther {
			t.Fatalf("Classify() with response %q = %q, want Other", response, got)
		}
	}
}

func TestClassifyPromptEmbedsCategoriesAndSnippet(t *testing.T) {
	backend := &backendFake{configured: true, response: "Contract"}
	uc := NewClassifyDocumentUseCase(backend, nil, nil)

	long := strings.Repeat("x", 5000)
	uc.Classify(context.Background(), long)

	for _, c := range domain.Categories() {
		if !strings.Contains(backend.lastPrompt, string(c)) {
			t.Fatalf("prompt missing category %q", c)
		}
	}
	if strings.Count(backend.lastPrompt, "x") != classificationSnippetChars {
		t.Fatalf("expected snippet truncated to %d chars, got %d",
			classificationSnippetChars, strings.Count(backend.lastPrompt, "x"))
	}
}

func TestRuleClassificationIsDeterministic(t *testing.T) {
	rules := domain.DefaultRules()
	first := domain.ClassifyByRules(contractText, rules)
	second := domain.ClassifyByRules(contractText, rules)
	if first != second {
		t.Fatalf("rule classification not deterministic: %q vs %q", first, second)
	}
}
