package excel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/casewell/docvault/internal/core/ports"
)

const sheet = "Documents"

// Service renders a case's document register as an XLSX workbook.
type Service struct {
	cases  ports.CaseRepository
	docs   ports.DocumentRepository
	logger *slog.Logger
}

func NewService(cases ports.CaseRepository, docs ports.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cases: cases, docs: docs, logger: logger}
}

func (s *Service) CaseRegisterXLSX(ctx context.Context, caseID string) ([]byte, error) {
	start := time.Now()

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByCase(ctx, caseID, "")
	if err != nil {
		return nil, fmt.Errorf("list case documents: %w", err)
	}

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Filename",
		"Category",
		"Status",
		"Pages",
		"Stored Path",
		"Uploaded At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, doc := range docs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, doc.OriginalFilename)
		write(2, doc.Category)
		write(3, string(doc.Status))
		write(4, doc.PageCount)
		write(5, doc.StoredPath)
		write(6, doc.CreatedAt.UTC().Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "B", "C", 20)
	_ = f.SetColWidth(sheet, "D", "D", 8)
	_ = f.SetColWidth(sheet, "E", "E", 60)
	_ = f.SetColWidth(sheet, "F", "F", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("case register exported",
		"case_id", c.ID,
		"rows", len(docs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
