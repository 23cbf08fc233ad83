package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/casewell/docvault/internal/core/domain"
	"github.com/casewell/docvault/internal/core/ports"
)

// IngestDocumentUseCase accepts an upload, persists a pending record, and
// enqueues the processing request. The caller gets the pending document back
// immediately; the pipeline runs out-of-band.
type IngestDocumentUseCase struct {
	cases          ports.CaseRepository
	docs           ports.DocumentRepository
	store          ports.UploadStore
	queue          ports.MessageQueue
	supportedExts  map[string]struct{}
	maxUploadBytes int64
}

func NewIngestDocumentUseCase(
	cases ports.CaseRepository,
	docs ports.DocumentRepository,
	store ports.UploadStore,
	queue ports.MessageQueue,
	supportedExtensions []string,
	maxUploadBytes int64,
) *IngestDocumentUseCase {
	exts := make(map[string]struct{}, len(supportedExtensions))
	for _, ext := range supportedExtensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &IngestDocumentUseCase{
		cases:          cases,
		docs:           docs,
		store:          store,
		queue:          queue,
		supportedExts:  exts,
		maxUploadBytes: maxUploadBytes,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	caseID, filename string,
	body io.Reader,
) (*domain.Document, error) {
	c, err := uc.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("fetch case by id: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := uc.supportedExts[ext]; !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("unsupported file type %q", ext))
	}

	content, err := io.ReadAll(io.LimitReader(body, uc.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if int64(len(content)) > uc.maxUploadBytes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("file exceeds %d byte limit", uc.maxUploadBytes))
	}

	id := uuid.NewString()
	storedPath, err := uc.store.Save(ctx, id+ext, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:               id,
		CaseID:           caseID,
		OriginalFilename: filename,
		StoredPath:       storedPath,
		FileType:         ext,
		Status:           domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := uc.queue.PublishProcessRequest(ctx, domain.ProcessRequest{
		DocumentID: doc.ID,
		CaseName:   c.Name,
		FilePath:   storedPath,
	}); err != nil {
		return nil, fmt.Errorf("publish process request: %w", err)
	}

	return doc, nil
}
