package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/casewell/docvault/internal/core/domain"
	"github.com/casewell/docvault/internal/core/ports"
)

// ProcessDocumentUseCase runs the extract -> classify -> organize pipeline
// for one document and owns its status transitions. Each step's output is
// persisted as soon as it is available, so a failure mid-run leaves the
// earlier results on the record.
type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	extractor  ports.TextExtractor
	classifier ports.DocumentClassifier
	organizer  ports.FileOrganizer
	logger     *slog.Logger
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	organizer ports.FileOrganizer,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		repo:       repo,
		extractor:  extractor,
		classifier: classifier,
		organizer:  organizer,
		logger:     logger,
	}
}

func (uc *ProcessDocumentUseCase) Process(ctx context.Context, req domain.ProcessRequest) error {
	doc, err := uc.repo.GetByID(ctx, req.DocumentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}
	if doc.Status.Terminal() {
		uc.logger.Warn("document already in terminal state, skipping",
			"document_id", doc.ID, "status", doc.Status)
		return nil
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.runPipeline(ctx, doc, req); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, doc *domain.Document, req domain.ProcessRequest) error {
	extraction, err := uc.extractor.Extract(ctx, req.FilePath, doc.FileType)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if err := uc.repo.SaveExtraction(ctx, doc.ID, extraction.Text, extraction.PageCount); err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}

	category := uc.classifier.Classify(ctx, extraction.Text)
	if err := uc.repo.SaveCategory(ctx, doc.ID, category); err != nil {
		return fmt.Errorf("save category: %w", err)
	}

	// The move is the last side effect: a failure here leaves the source
	// file where it was, never a half-moved document.
	finalPath, err := uc.organizer.Organize(ctx, req.FilePath, req.CaseName, category, doc.OriginalFilename)
	if err != nil {
		return fmt.Errorf("organize document: %w", err)
	}
	if err := uc.repo.SaveStoredPath(ctx, doc.ID, finalPath); err != nil {
		return fmt.Errorf("save stored path: %w", err)
	}

	uc.logger.Info("document processed",
		"document_id", doc.ID,
		"category", category,
		"pages", extraction.PageCount,
		"stored_path", finalPath,
	)
	return nil
}
