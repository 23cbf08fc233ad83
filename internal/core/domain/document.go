package domain

import "time"

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Document struct {
	ID               string         `json:"id"`
	CaseID           string         `json:"case_id"`
	OriginalFilename string         `json:"original_filename"`
	StoredPath       string         `json:"stored_path"`
	FileType         string         `json:"file_type"`
	Category         string         `json:"category,omitempty"`
	RawText          string         `json:"raw_text,omitempty"`
	PageCount        int            `json:"page_count"`
	Status           DocumentStatus `json:"status"`
	Error            string         `json:"error,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ExtractionResult struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
}

type Case struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	DocumentCount int       `json:"document_count"`
	DraftCount    int       `json:"draft_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProcessRequest is the unit of background work handed from the API to the
// worker: everything the pipeline needs without re-reading the case record.
type ProcessRequest struct {
	DocumentID string `json:"document_id"`
	CaseName   string `json:"case_name"`
	FilePath   string `json:"file_path"`
}
