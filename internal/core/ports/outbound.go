package ports

import (
	"context"
	"io"

	"github.com/casewell/docvault/internal/core/domain"
)

// DocumentRepository persists and reads document state. The pipeline writes
// each step's output as it completes so a later failure keeps earlier fields.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByCase(ctx context.Context, caseID string, status domain.DocumentStatus) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveExtraction(ctx context.Context, id string, text string, pageCount int) error
	SaveCategory(ctx context.Context, id string, category domain.Category) error
	SaveStoredPath(ctx context.Context, id string, path string) error
}

// CaseRepository persists case records.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	List(ctx context.Context) ([]domain.Case, error)
	Delete(ctx context.Context, id string) error
}

// DraftRepository persists synthesized drafts.
type DraftRepository interface {
	Create(ctx context.Context, d *domain.Draft) error
	ListByCase(ctx context.Context, caseID string) ([]domain.Draft, error)
}

// UploadStore holds freshly uploaded files until the organizer files them.
type UploadStore interface {
	Save(ctx context.Context, key string, data io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue hands process requests from the API to the worker.
type MessageQueue interface {
	PublishProcessRequest(ctx context.Context, req domain.ProcessRequest) error
	SubscribeProcessRequests(ctx context.Context, handler func(context.Context, domain.ProcessRequest) error) error
}

// TextExtractor turns a stored file into text plus a page count, running OCR
// when native extraction is insufficient.
type TextExtractor interface {
	Extract(ctx context.Context, path, ext string) (domain.ExtractionResult, error)
}

// DocumentClassifier labels extracted text. It always yields a valid
// category; backend failures are absorbed by a deterministic fallback.
type DocumentClassifier interface {
	Classify(ctx context.Context, text string) domain.Category
}

// FileOrganizer relocates a processed file into the per-case archive tree and
// returns the final path.
type FileOrganizer interface {
	Organize(ctx context.Context, sourcePath, caseName string, category domain.Category, originalFilename string) (string, error)
}

// CaseExporter renders a case's document register for download.
type CaseExporter interface {
	CaseRegisterXLSX(ctx context.Context, caseID string) ([]byte, error)
}

// CompletionBackend is the optionally-configured language-model service.
type CompletionBackend interface {
	Configured() bool
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}
