package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/casewell/docvault/internal/config"
	"github.com/casewell/docvault/internal/core/domain"
	"github.com/casewell/docvault/internal/core/ports"
	"github.com/casewell/docvault/internal/observability/metrics"
)

const serviceName = "docvault-api"

type Router struct {
	cfg      config.Config
	ingestor ports.DocumentIngestor
	composer ports.DraftComposer
	cases    ports.CaseRepository
	docs     ports.DocumentRepository
	drafts   ports.DraftRepository
	exporter ports.CaseExporter
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingestor ports.DocumentIngestor,
	composer ports.DraftComposer,
	cases ports.CaseRepository,
	docs ports.DocumentRepository,
	drafts ports.DraftRepository,
	exporter ports.CaseExporter,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		ingestor: ingestor,
		composer: composer,
		cases:    cases,
		docs:     docs,
		drafts:   drafts,
		exporter: exporter,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)

	mux.HandleFunc("POST /v1/cases", rt.createCase)
	mux.HandleFunc("GET /v1/cases", rt.listCases)
	mux.HandleFunc("GET /v1/cases/{case_id}", rt.getCase)
	mux.HandleFunc("DELETE /v1/cases/{case_id}", rt.deleteCase)

	mux.HandleFunc("POST /v1/cases/{case_id}/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/cases/{case_id}/documents", rt.listDocuments)
	mux.HandleFunc("GET /v1/documents/{document_id}", rt.getDocument)

	mux.HandleFunc("POST /v1/cases/{case_id}/drafts", rt.createDraft)
	mux.HandleFunc("GET /v1/cases/{case_id}/drafts", rt.listDrafts)
	mux.HandleFunc("GET /v1/cases/{case_id}/export", rt.exportCase)

	handler := http.Handler(mux)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	if rt.cfg.APIMaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, time.Duration(rt.cfg.APIQueueTimeoutMS)*time.Millisecond)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createCase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "case name is required"})
		return
	}

	now := time.Now().UTC()
	c := &domain.Case{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := rt.cases.Create(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (rt *Router) listCases(w http.ResponseWriter, r *http.Request) {
	cases, err := rt.cases.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cases": cases})
}

func (rt *Router) getCase(w http.ResponseWriter, r *http.Request) {
	c, err := rt.cases.GetByID(r.Context(), r.PathValue("case_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (rt *Router) deleteCase(w http.ResponseWriter, r *http.Request) {
	if err := rt.cases.Delete(r.Context(), r.PathValue("case_id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(r.Context(), r.PathValue("case_id"), fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordDocumentUpload(serviceName, doc.FileType)
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("case_id")
	if _, err := rt.cases.GetByID(r.Context(), caseID); err != nil {
		writeError(w, err)
		return
	}

	status := domain.DocumentStatus(r.URL.Query().Get("status"))
	docs, err := rt.docs.ListByCase(r.Context(), caseID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.docs.GetByID(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) createDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DraftType   string   `json:"draft_type"`
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	draft, err := rt.composer.Compose(r.Context(), r.PathValue("case_id"), req.DraftType, req.DocumentIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordDraftGenerated(serviceName, string(draft.Kind))
	}
	writeJSON(w, http.StatusCreated, draft)
}

func (rt *Router) listDrafts(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("case_id")
	if _, err := rt.cases.GetByID(r.Context(), caseID); err != nil {
		writeError(w, err)
		return
	}

	drafts, err := rt.drafts.ListByCase(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

func (rt *Router) exportCase(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("case_id")
	data, err := rt.exporter.CaseRegisterXLSX(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "case_register_"+caseID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
