package loan

import "loan-advisor/internal/models"

// Report is a recommendation together with the paperwork and lenders for
// each suggested loan type.
type Report struct {
	models.Recommendation
	Documents map[string][]string        `json:"documents"`
	Lenders   map[string][]models.Lender `json:"lenders"`
}

// BuildReport decorates rec. An empty recommendation yields empty maps.
func BuildReport(rec models.Recommendation, lenders LenderCatalog) Report {
	if len(lenders) == 0 {
		lenders = DefaultLenderCatalog()
	}

	report := Report{
		Recommendation: rec,
		Documents:      make(map[string][]string, len(rec.Suggestions)),
		Lenders:        make(map[string][]models.Lender, len(rec.Suggestions)),
	}
	for _, s := range rec.Suggestions {
		report.Documents[s.Type] = RequiredDocuments(s.Type)
		report.Lenders[s.Type] = lenders.Lookup(s.Type)
	}
	return report
}
