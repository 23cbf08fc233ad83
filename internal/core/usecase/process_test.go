package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/casewell/docvault/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type processRepoFake struct {
	doc         *domain.Document
	getErr      error
	statusCalls []statusCall

	savedText     string
	savedPages    int
	textSaved     bool
	savedCategory domain.Category
	categorySaved bool
	savedPath     string
	pathSaved     bool
}

func (f *processRepoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *processRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *processRepoFake) ListByCase(context.Context, string, domain.DocumentStatus) ([]domain.Document, error) {
	return nil, nil
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	return nil
}

func (f *processRepoFake) SaveExtraction(_ context.Context, _ string, text string, pageCount int) error {
	f.savedText = text
	f.savedPages = pageCount
	f.textSaved = true
	return nil
}

func (f *processRepoFake) SaveCategory(_ context.Context, _ string, category domain.Category) error {
	f.savedCategory = category
	f.categorySaved = true
	return nil
}

func (f *processRepoFake) SaveStoredPath(_ context.Context, _ string, path string) error {
	f.savedPath = path
	f.pathSaved = true
	return nil
}

type extractorFake struct {
	result domain.ExtractionResult
	err    error
}

func (f *extractorFake) Extract(context.Context, string, string) (domain.ExtractionResult, error) {
	if f.err != nil {
		return domain.ExtractionResult{}, f.err
	}
	return f.result, nil
}

type classifierFake struct {
	category domain.Category
}

func (f *classifierFake) Classify(context.Context, string) domain.Category {
	return f.category
}

type organizerFake struct {
	path string
	err  error
}

func (f *organizerFake) Organize(context.Context, string, string, domain.Category, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

func newProcessRequest() domain.ProcessRequest {
	return domain.ProcessRequest{
		DocumentID: "doc-1",
		CaseName:   "Smith v Jones",
		FilePath:   "/tmp/uploads/doc-1.pdf",
	}
}

func TestProcessSuccess(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1", Status: domain.StatusPending, FileType: ".pdf"}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{result: domain.ExtractionResult{Text: "agreement text", PageCount: 3}},
		&classifierFake{category: domain.CategoryContract},
		&organizerFake{path: "/storage/smith_v_jones/contracts/2026-01-01_brief.pdf"},
		nil,
	)

	if err := uc.Process(context.Background(), newProcessRequest()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.StatusProcessing || repo.statusCalls[1].status != domain.StatusCompleted {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.savedText != "agreement text" || repo.savedPages != 3 {
		t.Fatalf("extraction not persisted: %q pages=%d", repo.savedText, repo.savedPages)
	}
	if repo.savedCategory != domain.CategoryContract {
		t.Fatalf("category not persisted: %q", repo.savedCategory)
	}
	if repo.savedPath == "" {
		t.Fatalf("stored path not persisted")
	}
}

func TestProcessMarksFailedOnExtractError(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1", Status: domain.StatusPending}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{err: domain.WrapError(domain.ErrUnsupportedFormat, "extract", errors.New(`unsupported file type ".docx"`))},
		&classifierFake{},
		&organizerFake{},
		nil,
	)

	err := uc.Process(context.Background(), newProcessRequest())
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected processing + failed status updates, got %+v", repo.statusCalls)
	}
	if !strings.Contains(repo.statusCalls[1].errMsg, "unsupported file type") {
		t.Fatalf("expected verbatim error message, got %q", repo.statusCalls[1].errMsg)
	}
	if repo.pathSaved {
		t.Fatalf("stored path must not be written after a failed extraction")
	}
}

func TestProcessMoveFailureKeepsEarlierResults(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1", Status: domain.StatusPending}}
	moveErr := domain.WrapError(domain.ErrMoveFailed, "organize", errors.New("permission denied"))
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{result: domain.ExtractionResult{Text: "patient diagnosis notes", PageCount: 2}},
		&classifierFake{category: domain.CategoryMedicalRecord},
		&organizerFake{err: moveErr},
		nil,
	)

	err := uc.Process(context.Background(), newProcessRequest())
	if err == nil {
		t.Fatalf("expected error")
	}
	if repo.statusCalls[len(repo.statusCalls)-1].status != domain.StatusFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
	if !repo.textSaved || !repo.categorySaved {
		t.Fatalf("raw text and category must stay populated after a failed move")
	}
	if repo.pathSaved {
		t.Fatalf("stored path must not change when the move fails")
	}
	if !strings.Contains(repo.statusCalls[len(repo.statusCalls)-1].errMsg, "permission denied") {
		t.Fatalf("expected move error message persisted, got %q", repo.statusCalls[len(repo.statusCalls)-1].errMsg)
	}
}

func TestProcessSkipsTerminalDocument(t *testing.T) {
	for _, status := range []domain.DocumentStatus{domain.StatusCompleted, domain.StatusFailed} {
		repo := &processRepoFake{doc: &domain.Document{ID: "doc-1", Status: status}}
		uc := NewProcessDocumentUseCase(repo, &extractorFake{}, &classifierFake{}, &organizerFake{}, nil)

		if err := uc.Process(context.Background(), newProcessRequest()); err != nil {
			t.Fatalf("Process() on %s document error = %v", status, err)
		}
		if len(repo.statusCalls) != 0 {
			t.Fatalf("expected no status transitions out of %s, got %+v", status, repo.statusCalls)
		}
	}
}
