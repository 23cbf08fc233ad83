package ports

import (
	"context"
	"io"

	"github.com/casewell/docvault/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, caseID, filename string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for one asynchronous pipeline run.
type DocumentProcessor interface {
	Process(ctx context.Context, req domain.ProcessRequest) error
}

// DraftComposer is the inbound contract for synchronous draft synthesis.
type DraftComposer interface {
	Compose(ctx context.Context, caseID string, kind string, documentIDs []string) (*domain.Draft, error)
}
