package models

import "time"

// ExportFormat enumerates supported export renderings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatPDF
}

// ExportQualityRequest asks for a rendered season quality report.
type ExportQualityRequest struct {
	Format     ExportFormat `json:"format" binding:"required"`
	ExemptIDs  []int64      `json:"exempt_ids,omitempty"`
	WindowDays *int         `json:"window_days,omitempty" binding:"omitempty,min=0"`
}

// ExportFile describes one rendered file in an export result, with its own
// signed download token.
type ExportFile struct {
	Table        string `json:"table"`
	RelativePath string `json:"path"`
	Token        string `json:"token"`
	URL          string `json:"url"`
}

// ExportResult captures successful export metadata. CSV exports produce one
// file per report table; PDF exports produce a single document.
type ExportResult struct {
	ExportID  string       `json:"export_id"`
	Format    ExportFormat `json:"format"`
	Files     []ExportFile `json:"files"`
	ExpiresAt time.Time    `json:"expires_at"`
}
