// Package service orchestrates one assessment run end to end: dataset
// extraction, the normalization pipeline, pricing, and report rendering.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	api "github.com/vmassess/bomgen/api/v1alpha1"
	"github.com/vmassess/bomgen/internal/dataset"
	"github.com/vmassess/bomgen/internal/pipeline"
	"github.com/vmassess/bomgen/internal/pricing"
	csvreport "github.com/vmassess/bomgen/internal/report/csv"
	jsonreport "github.com/vmassess/bomgen/internal/report/json"
	textreport "github.com/vmassess/bomgen/internal/report/text"
	"github.com/vmassess/bomgen/internal/report/types"
	xlsxreport "github.com/vmassess/bomgen/internal/report/xlsx"
)

// InputReader detects and extracts the datasets of one input format.
// Readers are tried in the order they appear in the service's table;
// there is no global registry.
type InputReader struct {
	Name   string
	Detect func(content []byte) bool
	Read   func(content []byte) (map[string]*dataset.Dataset, error)
}

// DefaultInputReaders covers the supported RVTools container formats.
// The workbook reader must run first: xlsx files are ZIPs too.
func DefaultInputReaders() []InputReader {
	return []InputReader{
		{Name: "rvtools-xlsx", Detect: dataset.IsWorkbook, Read: dataset.ReadWorkbook},
		{Name: "rvtools-zip", Detect: dataset.IsArchive, Read: dataset.ReadArchive},
	}
}

// DefaultRenderers is the explicit format table the service renders with.
func DefaultRenderers() map[types.ReportFormat]types.ReportRenderer {
	return map[types.ReportFormat]types.ReportRenderer{
		types.ReportFormatCSV:  csvreport.NewRenderer(),
		types.ReportFormatXLSX: xlsxreport.NewRenderer(),
		types.ReportFormatText: textreport.NewRenderer(),
		types.ReportFormatJSON: jsonreport.NewRenderer(),
	}
}

// Options configure one run.
type Options struct {
	AssessmentName    string
	IncludePoweredOff bool
	Formats           []types.ReportFormat
	Progress          pipeline.ProgressFunc
}

// Result is the object graph one run produces. Renderers and API
// consumers read it; nothing mutates it after the run.
type Result struct {
	Assessment *api.VMAssessment
	BOM        *api.BillOfMaterials
	Stats      pipeline.BuildStats
	Format     string
}

// ProcessingService runs assessments. It is stateless between runs and
// safe for concurrent use; the rate card is loaded once and shared.
type ProcessingService struct {
	readers   []InputReader
	processor *pipeline.Processor
	engine    *pricing.Engine
	renderers map[types.ReportFormat]types.ReportRenderer
}

// NewProcessingService builds a service around one rate card.
func NewProcessingService(card *api.RateCard) *ProcessingService {
	return &ProcessingService{
		readers:   DefaultInputReaders(),
		processor: pipeline.NewProcessor(),
		engine:    pricing.NewEngine(card),
		renderers: DefaultRenderers(),
	}
}

// Process runs the full pipeline over uploaded content and prices the
// outcome. Unsupported content and empty exports return errors; per-row
// and per-dataset problems degrade locally per the pipeline contract.
func (s *ProcessingService) Process(ctx context.Context, content []byte, opts Options) (*Result, error) {
	log := zap.S().Named("service")

	reader, err := s.detectReader(content)
	if err != nil {
		return nil, err
	}
	log.Infof("processing %s input (%d bytes)", reader.Name, len(content))

	datasets, err := reader.Read(content)
	if err != nil {
		return nil, err
	}

	assessment, stats, err := s.processor.Process(datasets, pipeline.Options{
		AssessmentName:    opts.AssessmentName,
		IncludePoweredOff: opts.IncludePoweredOff,
		Progress:          opts.Progress,
	})
	if err != nil {
		return nil, err
	}

	bom := s.engine.PriceAssessment(assessment)
	return &Result{Assessment: assessment, BOM: bom, Stats: stats, Format: reader.Name}, nil
}

// RenderReports renders the requested formats into a name -> content
// map. An empty format list renders every configured format.
func (s *ProcessingService) RenderReports(result *Result, formats []types.ReportFormat) (map[string][]byte, error) {
	if len(formats) == 0 {
		for format := range s.renderers {
			formats = append(formats, format)
		}
	}

	data := &types.ReportData{
		Assessment: result.Assessment,
		BOM:        result.BOM,
		Generated:  time.Now(),
	}

	files := make(map[string][]byte)
	for _, format := range formats {
		renderer, ok := s.renderers[format]
		if !ok {
			return nil, fmt.Errorf("unsupported report format %q", format)
		}

		assessmentOut, err := renderer.RenderAssessment(data)
		if err != nil {
			return nil, fmt.Errorf("rendering %s assessment report: %w", format, err)
		}
		files[fmt.Sprintf("assessment.%s", renderer.FileExtension())] = assessmentOut

		bomOut, err := renderer.RenderBOM(data)
		if err != nil {
			return nil, fmt.Errorf("rendering %s BOM report: %w", format, err)
		}
		files[fmt.Sprintf("bom.%s", renderer.FileExtension())] = bomOut
	}
	return files, nil
}

func (s *ProcessingService) detectReader(content []byte) (*InputReader, error) {
	for i := range s.readers {
		if s.readers[i].Detect(content) {
			return &s.readers[i], nil
		}
	}
	return nil, fmt.Errorf("unsupported input: no reader recognized the uploaded content")
}
