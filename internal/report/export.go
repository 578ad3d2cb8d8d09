package report

import "fmt"

// Document is the downloadable form of a report: a structured key-value
// record holding the window's aggregates.
type Document struct {
	Store         string  `json:"store"`
	ReportType    string  `json:"report_type"`
	ReferenceDate string  `json:"reference_date"`
	GeneratedAt   string  `json:"generated_at"`
	Summary       Summary `json:"summary"`
}

// BuildDocument wraps a summary for export.
func BuildDocument(store string, summary Summary, generatedAt string) Document {
	return Document{
		Store:         store,
		ReportType:    string(summary.Granularity),
		ReferenceDate: summary.ReferenceDate,
		GeneratedAt:   generatedAt,
		Summary:       summary,
	}
}

// Filename returns the suggested download name for the document.
func (d Document) Filename() string {
	return fmt.Sprintf("%s-%s-report-%s.json", d.Store, d.ReportType, d.ReferenceDate)
}
