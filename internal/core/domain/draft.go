package domain

import (
	"strings"
	"time"
)

type DraftKind string

const (
	DraftSummary     DraftKind = "summary"
	DraftChecklist   DraftKind = "checklist"
	DraftCoverLetter DraftKind = "cover_letter"
)

func DraftKinds() []DraftKind {
	return []DraftKind{DraftSummary, DraftChecklist, DraftCoverLetter}
}

func ParseDraftKind(s string) (DraftKind, bool) {
	for _, k := range DraftKinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Display renders the kind as a title-cased heading ("cover_letter" ->
// "Cover Letter").
func (k DraftKind) Display() string {
	words := strings.Split(strings.ReplaceAll(string(k), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Title is the draft heading for a case, independent of backend availability.
func (k DraftKind) Title(caseName string) string {
	return k.Display() + " — " + caseName
}

type Draft struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"case_id"`
	Kind      DraftKind `json:"draft_type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DraftSource is one processed document feeding draft synthesis.
type DraftSource struct {
	Filename string
	Category string
	Text     string
}
