package excel

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/casewell/docvault/internal/core/domain"
)

type casesFake struct {
	c   *domain.Case
	err error
}

func (f *casesFake) Create(context.Context, *domain.Case) error { return nil }
func (f *casesFake) GetByID(context.Context, string) (*domain.Case, error) {
	return f.c, f.err
}
func (f *casesFake) List(context.Context) ([]domain.Case, error) { return nil, nil }
func (f *casesFake) Delete(context.Context, string) error        { return nil }

type docsFake struct {
	docs []domain.Document
}

func (f *docsFake) Create(context.Context, *domain.Document) error { return nil }
func (f *docsFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, nil
}
func (f *docsFake) ListByCase(_ context.Context, _ string, status domain.DocumentStatus) ([]domain.Document, error) {
	if status != "" {
		return nil, errors.New("register export must list all statuses")
	}
	return f.docs, nil
}
func (f *docsFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}
func (f *docsFake) SaveExtraction(context.Context, string, string, int) error { return nil }
func (f *docsFake) SaveCategory(context.Context, string, domain.Category) error {
	return nil
}
func (f *docsFake) SaveStoredPath(context.Context, string, string) error { return nil }

func TestCaseRegisterXLSXWritesDocumentRows(t *testing.T) {
	uploaded := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	svc := NewService(
		&casesFake{c: &domain.Case{ID: "case-1", Name: "Smith v Jones"}},
		&docsFake{docs: []domain.Document{{
			OriginalFilename: "lease.pdf",
			Category:         "Contract",
			Status:           domain.StatusCompleted,
			PageCount:        4,
			StoredPath:       "/archive/smith_v_jones/contracts/2026-04-01_lease.pdf",
			CreatedAt:        uploaded,
		}}},
		nil,
	)

	data, err := svc.CaseRegisterXLSX(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("CaseRegisterXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	header, _ := f.GetCellValue(sheet, "A1")
	if header != "Filename" {
		t.Fatalf("unexpected header %q", header)
	}
	name, _ := f.GetCellValue(sheet, "A2")
	category, _ := f.GetCellValue(sheet, "B2")
	status, _ := f.GetCellValue(sheet, "C2")
	if name != "lease.pdf" || category != "Contract" || status != "completed" {
		t.Fatalf("unexpected row: %q %q %q", name, category, status)
	}
}

func TestCaseRegisterXLSXPropagatesCaseNotFound(t *testing.T) {
	svc := NewService(
		&casesFake{err: domain.WrapError(domain.ErrCaseNotFound, "get case", errors.New("id=missing"))},
		&docsFake{},
		nil,
	)

	_, err := svc.CaseRegisterXLSX(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}
