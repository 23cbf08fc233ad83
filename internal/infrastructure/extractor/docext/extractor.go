package docext

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/casewell/docvault/internal/core/domain"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	Lang string // OCR language, default "eng"
	DPI  int    // rasterization DPI for scanned PDFs, default 300

	// MinTextDensity is the average chars/page below which a PDF is treated
	// as scanned and re-read through OCR. Default 50.
	MinTextDensity float64

	MaxPages int // 0 = no limit on OCR'd pages
}

// Extractor turns uploaded files into text. Images go straight to OCR;
// PDFs are parsed natively first and only rasterized when the text density
// says the document is a scan.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	// readPDF is swapped out in tests.
	readPDF func(path string) ([]string, error)
}

func New(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextDensity <= 0 {
		cfg.MinTextDensity = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger, readPDF: readPDFPages}
}

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".tiff": {},
	".tif":  {},
}

func (e *Extractor) Extract(ctx context.Context, path, ext string) (domain.ExtractionResult, error) {
	ext = strings.ToLower(ext)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(path))
	}

	if _, ok := imageExtensions[ext]; ok {
		text, err := e.ocrImage(ctx, path)
		if err != nil {
			return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtractionFailed, "ocr image", err)
		}
		return domain.ExtractionResult{Text: text, PageCount: 1}, nil
	}

	if ext == ".pdf" {
		return e.extractPDF(ctx, path)
	}

	return domain.ExtractionResult{}, domain.WrapError(domain.ErrUnsupportedFormat, "extract text",
		fmt.Errorf("unsupported file type %q", ext))
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (domain.ExtractionResult, error) {
	pages, err := e.readPDF(path)
	if err != nil {
		return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtractionFailed, "read pdf", err)
	}

	pageCount := len(pages)
	if pageCount == 0 {
		return domain.ExtractionResult{}, nil
	}

	combined := strings.Join(pages, pageSeparator)
	avgChars := float64(len(combined)) / float64(pageCount)
	if avgChars >= e.cfg.MinTextDensity {
		return domain.ExtractionResult{Text: combined, PageCount: pageCount}, nil
	}

	e.logger.Info("low text density, treating pdf as scanned",
		"path", path, "chars_per_page", avgChars, "pages", pageCount)

	text, err := e.ocrPDF(ctx, path)
	if err != nil {
		return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtractionFailed, "ocr pdf", err)
	}
	return domain.ExtractionResult{Text: text, PageCount: pageCount}, nil
}
