package pipeline

import (
	"go.uber.org/zap"

	api "github.com/vmassess/bomgen/api/v1alpha1"
	"github.com/vmassess/bomgen/internal/dataset"
)

// SourceFormatRVTools tags assessments built from RVTools exports.
const SourceFormatRVTools = "RVTools"

// ProgressFunc is called at every pipeline stage boundary. The web layer
// uses it to surface run progress; a nil callback is skipped.
type ProgressFunc func(stage string, percent int)

// Options configure one pipeline run.
type Options struct {
	// AssessmentName labels the produced assessment, typically after the
	// uploaded file.
	AssessmentName string
	// IncludePoweredOff keeps powered-off VMs in the assessment and marks
	// it so the BOM assembler prices them too.
	IncludePoweredOff bool
	// Progress, when set, receives stage boundary notifications.
	Progress ProgressFunc
}

// Processor runs the normalization pipeline: per-dataset aggregation and
// unit normalization, multi-source merge, column mapping, and record
// construction. A Processor holds no per-run state; one instance may be
// reused across runs.
type Processor struct {
	sourceFormat string
}

// NewProcessor returns a processor for RVTools-style exports.
func NewProcessor() *Processor {
	return &Processor{sourceFormat: SourceFormatRVTools}
}

// SourceFormat identifies the input format this processor handles.
func (p *Processor) SourceFormat() string {
	return p.sourceFormat
}

// Process turns a set of named datasets into a VM assessment. It returns
// ErrNoDatasets when there is nothing to merge; all other per-dataset and
// per-row problems degrade locally and are reported through BuildStats
// and logs.
func (p *Processor) Process(datasets map[string]*dataset.Dataset, opts Options) (*api.VMAssessment, BuildStats, error) {
	log := zap.S().Named("pipeline")
	report := func(stage string, percent int) {
		if opts.Progress != nil {
			opts.Progress(stage, percent)
		}
	}

	report("aggregating", 10)
	aggregated := make(map[string]*dataset.Dataset, len(datasets))
	for name, ds := range datasets {
		aggregated[name] = Aggregate(ds)
	}

	report("merging", 40)
	merged, err := Merge(aggregated)
	if err != nil {
		return nil, BuildStats{}, err
	}

	report("building", 60)
	fields := MapColumns(merged)
	log.Debugf("column mapping: %v", fields)
	records, stats := BuildRecords(merged, fields)

	report("assembling", 80)
	assessment := api.NewVMAssessment(opts.AssessmentName, p.sourceFormat)
	for _, vm := range records {
		assessment.AddVM(vm)
	}

	if opts.IncludePoweredOff {
		assessment.Metadata[api.MetadataIncludePoweredOff] = "true"
	} else {
		before := assessment.TotalVMs
		assessment.FilterPoweredOn()
		if dropped := before - assessment.TotalVMs; dropped > 0 {
			log.Infof("filtered %d powered-off VMs", dropped)
		}
	}

	report("done", 100)
	log.Infof("processed %d VMs from %s", assessment.TotalVMs, p.sourceFormat)
	return assessment, stats, nil
}
