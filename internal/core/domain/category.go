package domain

import "strings"

// Category is one label from the fixed classification set. The zero-value
// fallback for anything unrecognised is CategoryOther.
type Category string

const (
	CategoryDeposition     Category = "Deposition Transcript"
	CategoryContract       Category = "Contract"
	CategoryCourtFiling    Category = "Court Filing"
	CategoryCorrespondence Category = "Correspondence"
	CategoryInvoice        Category = "Invoice"
	CategoryMedicalRecord  Category = "Medical Record"
	CategoryPoliceReport   Category = "Police Report"
	CategoryExpertReport   Category = "Expert Report"
	CategoryOther          Category = "Other"
)

// Categories returns the classification set in its fixed display order.
func Categories() []Category {
	return []Category{
		CategoryDeposition,
		CategoryContract,
		CategoryCourtFiling,
		CategoryCorrespondence,
		CategoryInvoice,
		CategoryMedicalRecord,
		CategoryPoliceReport,
		CategoryExpertReport,
		CategoryOther,
	}
}

// ParseCategory matches a string against the known set, case-sensitive.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryOther, false
}

// Folder maps a category to its archive directory name. Unknown categories
// land in "other".
func (c Category) Folder() string {
	folders := map[Category]string{
		CategoryDeposition:     "transcripts",
		CategoryContract:       "contracts",
		CategoryCourtFiling:    "court_filings",
		CategoryCorrespondence: "correspondence",
		CategoryInvoice:        "invoices",
		CategoryMedicalRecord:  "medical_records",
		CategoryPoliceReport:   "police_reports",
		CategoryExpertReport:   "expert_reports",
		CategoryOther:          "other",
	}
	if folder, ok := folders[c]; ok {
		return folder
	}
	return "other"
}

// ClassificationRule pairs a category with the keyword phrases that vote for
// it. A rule fires once MinMatches keywords occur as substrings.
type ClassificationRule struct {
	Category   Category `yaml:"category"`
	Keywords   []string `yaml:"keywords"`
	MinMatches int      `yaml:"min_matches"`
}

// DefaultRules returns the built-in keyword table. Rule order is behaviour:
// ClassifyByRules returns the first rule reaching its threshold, not the
// highest scorer.
func DefaultRules() []ClassificationRule {
	return []ClassificationRule{
		{Category: CategoryDeposition, Keywords: []string{"deposition of", "q.", "a.", "court reporter", "sworn testimony"}, MinMatches: 2},
		{Category: CategoryCourtFiling, Keywords: []string{"court of", "plaintiff", "defendant", "motion to", "order of the court"}, MinMatches: 2},
		{Category: CategoryContract, Keywords: []string{"agreement", "hereby agree", "terms and conditions", "party of the first"}, MinMatches: 2},
		{Category: CategoryInvoice, Keywords: []string{"invoice", "amount due", "bill to", "payment terms", "total due"}, MinMatches: 2},
		{Category: CategoryMedicalRecord, Keywords: []string{"patient", "diagnosis", "medical history", "treatment plan", "physician"}, MinMatches: 2},
		{Category: CategoryPoliceReport, Keywords: []string{"incident report", "officer", "suspect", "witness statement", "badge"}, MinMatches: 2},
		{Category: CategoryExpertReport, Keywords: []string{"expert opinion", "methodology", "findings", "conclusion", "analysis"}, MinMatches: 2},
		{Category: CategoryCorrespondence, Keywords: []string{"dear", "sincerely", "regards", "re:", "attention"}, MinMatches: 2},
	}
}

// ClassifyByRules is the deterministic fallback classifier. The input is
// lower-cased once; rules are evaluated in table order and the first rule
// reaching its threshold wins.
func ClassifyByRules(text string, rules []ClassificationRule) Category {
	lower := strings.ToLower(text)
	for _, rule := range rules {
		threshold := rule.MinMatches
		if threshold <= 0 {
			threshold = 2
		}
		matches := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches >= threshold {
			return rule.Category
		}
	}
	return CategoryOther
}
