package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/casewell/docvault/internal/core/domain"
	"github.com/casewell/docvault/internal/core/ports"
)

const (
	draftSourceChars = 2000
	draftMaxTokens   = 4096

	draftSourceSeparator = "\n\n---\n\n"
)

// ComposeDraftUseCase synthesizes a titled draft from a case's completed
// documents. Draft composition is synchronous: unknown kinds fail fast to
// the caller, but backend trouble never does — it degrades to a
// deterministic document listing.
type ComposeDraftUseCase struct {
	cases   ports.CaseRepository
	docs    ports.DocumentRepository
	drafts  ports.DraftRepository
	backend ports.CompletionBackend
	logger  *slog.Logger
}

func NewComposeDraftUseCase(
	cases ports.CaseRepository,
	docs ports.DocumentRepository,
	drafts ports.DraftRepository,
	backend ports.CompletionBackend,
	logger *slog.Logger,
) *ComposeDraftUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComposeDraftUseCase{
		cases:   cases,
		docs:    docs,
		drafts:  drafts,
		backend: backend,
		logger:  logger,
	}
}

func (uc *ComposeDraftUseCase) Compose(ctx context.Context, caseID string, kindRaw string, documentIDs []string) (*domain.Draft, error) {
	kind, ok := domain.ParseDraftKind(kindRaw)
	if !ok {
		return nil, domain.WrapError(domain.ErrUnknownDraftKind, "compose draft",
			fmt.Errorf("%q is not one of %v", kindRaw, domain.DraftKinds()))
	}

	c, err := uc.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("fetch case by id: %w", err)
	}

	completed, err := uc.docs.ListByCase(ctx, caseID, domain.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("list completed documents: %w", err)
	}
	completed = filterDocuments(completed, documentIDs)
	if len(completed) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compose draft",
			fmt.Errorf("no completed documents found for case %s", caseID))
	}

	sources := make([]domain.DraftSource, 0, len(completed))
	for _, doc := range completed {
		sources = append(sources, domain.DraftSource{
			Filename: doc.OriginalFilename,
			Category: doc.Category,
			Text:     doc.RawText,
		})
	}

	title, content := uc.Synthesize(ctx, kind, c.Name, sources)

	draft := &domain.Draft{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Kind:      kind,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.drafts.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("create draft record: %w", err)
	}
	return draft, nil
}

// Synthesize renders the kind-specific prompt and completes it against the
// backend. The title never depends on backend availability, and any backend
// failure resolves to the deterministic fallback body.
func (uc *ComposeDraftUseCase) Synthesize(ctx context.Context, kind domain.DraftKind, caseName string, sources []domain.DraftSource) (title, content string) {
	title = kind.Title(caseName)

	if uc.backend == nil || !uc.backend.Configured() {
		return title, fallbackContent(kind, sources)
	}

	content, err := uc.backend.Complete(ctx, buildDraftPrompt(kind, caseName, sources), draftMaxTokens)
	if err != nil {
		uc.logger.Error("draft generation failed, using fallback", "kind", kind, "error", err)
		return title, fallbackContent(kind, sources)
	}
	return title, content
}

func filterDocuments(docs []domain.Document, ids []string) []domain.Document {
	if len(ids) == 0 {
		return docs
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	filtered := docs[:0]
	for _, doc := range docs {
		if _, ok := wanted[doc.ID]; ok {
			filtered = append(filtered, doc)
		}
	}
	return filtered
}

func buildDraftPrompt(kind domain.DraftKind, caseName string, sources []domain.DraftSource) string {
	blocks := make([]string, 0, len(sources))
	for _, src := range sources {
		blocks = append(blocks, fmt.Sprintf("**%s** (%s)\n%s",
			src.Filename, src.Category, truncateRunes(src.Text, draftSourceChars)))
	}
	documents := strings.Join(blocks, draftSourceSeparator)

	switch kind {
	case domain.DraftSummary:
		return "You are a legal assistant. Summarize the following legal documents concisely.\n" +
			"Focus on: key parties, dates, claims, findings, and important details.\n" +
			"Use clear headings and bullet points.\n\n" +
			"Documents:\n" + documents
	case domain.DraftChecklist:
		return "You are a legal assistant. Based on the following case documents, generate a checklist of:\n" +
			"1. Documents received (with categories)\n" +
			"2. Documents still potentially needed\n" +
			"3. Key deadlines or dates mentioned\n" +
			"4. Action items\n\n" +
			"Format as a clean markdown checklist.\n\n" +
			"Case: " + caseName + "\n" +
			"Documents:\n" + documents
	case domain.DraftCoverLetter:
		return "You are a legal assistant. Draft a professional cover letter for transmitting the following documents.\n" +
			"Include: sender placeholder, recipient placeholder, date, list of enclosed documents, and professional closing.\n\n" +
			"Case: " + caseName + "\n" +
			"Documents being transmitted:\n" + documents
	default:
		return documents
	}
}

func fallbackContent(kind domain.DraftKind, sources []domain.DraftSource) string {
	lines := []string{
		"# " + kind.Display(),
		"",
		"**Documents:**",
		"",
	}
	for _, src := range sources {
		lines = append(lines, fmt.Sprintf("- %s (%s)", src.Filename, src.Category))
	}
	lines = append(lines, "", "*Configure an LLM API key for AI-generated content.*")
	return strings.Join(lines, "\n")
}
