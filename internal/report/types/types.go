// Package types defines the contract between the processing service and
// the report renderers. Renderers consume a finished assessment and BOM
// and may not mutate them; all business logic lives upstream.
package types

import (
	"time"

	api "github.com/vmassess/bomgen/api/v1alpha1"
)

// ReportFormat identifies an output format.
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatText ReportFormat = "text"
	ReportFormatJSON ReportFormat = "json"
)

// ReportData is everything a renderer needs for one report bundle.
type ReportData struct {
	Assessment *api.VMAssessment
	BOM        *api.BillOfMaterials
	Generated  time.Time
}

// ReportRenderer turns report data into formatted files. Implementations
// are stateless and safe for concurrent use.
type ReportRenderer interface {
	SupportedFormat() ReportFormat
	FileExtension() string
	RenderAssessment(data *ReportData) ([]byte, error)
	RenderBOM(data *ReportData) ([]byte, error)
}
