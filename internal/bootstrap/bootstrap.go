package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/casewell/docvault/internal/config"
	"github.com/casewell/docvault/internal/core/ports"
	"github.com/casewell/docvault/internal/core/usecase"
	"github.com/casewell/docvault/internal/infrastructure/export/excel"
	"github.com/casewell/docvault/internal/infrastructure/extractor/docext"
	"github.com/casewell/docvault/internal/infrastructure/llm"
	"github.com/casewell/docvault/internal/infrastructure/queue/nats"
	"github.com/casewell/docvault/internal/infrastructure/repository/postgres"
	"github.com/casewell/docvault/internal/infrastructure/resilience"
	"github.com/casewell/docvault/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue  ports.MessageQueue
	Cases  ports.CaseRepository
	Docs   ports.DocumentRepository
	Drafts ports.DraftRepository

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	ComposeUC ports.DraftComposer
	Exporter  ports.CaseExporter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docs := postgres.NewDocumentRepository(db)
	if err := docs.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	cases := postgres.NewCaseRepository(db)
	drafts := postgres.NewDraftRepository(db)

	storage, err := localfs.New(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}
	organizer := localfs.NewOrganizer(cfg.StorageDir, logger)

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	backend := llm.New(llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.ActiveAPIKey(),
		Model:    cfg.LLMModel,
	}, executor)

	extractor := docext.New(docext.Config{
		Tesseract:      cfg.TesseractBin,
		Pdftoppm:       cfg.PdftoppmBin,
		Lang:           cfg.OCRLanguage,
		DPI:            cfg.OCRDPI,
		MinTextDensity: cfg.MinTextDensity,
		MaxPages:       cfg.OCRMaxPages,
	}, logger)

	rules, err := config.LoadClassificationRules(cfg.ClassifyRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load classification rules: %w", err)
	}
	classifier := usecase.NewClassifyDocumentUseCase(backend, rules, logger)

	var supportedExts []string
	for ext := range cfg.SupportedExtensionSet() {
		supportedExts = append(supportedExts, ext)
	}

	ingestUC := usecase.NewIngestDocumentUseCase(
		cases, docs, storage, queue,
		supportedExts,
		int64(cfg.MaxUploadSizeMB)<<20,
	)
	processUC := usecase.NewProcessDocumentUseCase(docs, extractor, classifier, organizer, logger)
	composeUC := usecase.NewComposeDraftUseCase(cases, docs, drafts, backend, logger)
	exporter := excel.NewService(cases, docs, logger)

	if !backend.Configured() {
		logger.Warn("no llm api key configured, classification and drafts fall back to deterministic output",
			"provider", strings.ToLower(cfg.LLMProvider))
	}

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:  queue,
		Cases:  cases,
		Docs:   docs,
		Drafts: drafts,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		ComposeUC: composeUC,
		Exporter:  exporter,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// ProcessTimeout is the per-document deadline the worker imposes.
func (a *App) ProcessTimeout() time.Duration {
	return time.Duration(a.Config.WorkerProcessTimeoutSec) * time.Second
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
