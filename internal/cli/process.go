package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vmassess/bomgen/internal/pricing"
	"github.com/vmassess/bomgen/internal/report/types"
	"github.com/vmassess/bomgen/internal/service"
)

var legalFormats = []string{
	string(types.ReportFormatCSV),
	string(types.ReportFormatXLSX),
	string(types.ReportFormatText),
	string(types.ReportFormatJSON),
}

type ProcessOptions struct {
	RateCardPath      string
	OutputDir         string
	Formats           []string
	Name              string
	Currency          string
	IncludePoweredOff bool
}

func DefaultProcessOptions() *ProcessOptions {
	return &ProcessOptions{
		OutputDir: ".",
		Formats:   []string{string(types.ReportFormatCSV), string(types.ReportFormatText)},
	}
}

func NewCmdProcess() *cobra.Command {
	o := DefaultProcessOptions()
	cmd := &cobra.Command{
		Use:   "process FILE",
		Short: "Process an inventory export and write assessment and cost reports.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args[0])
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ProcessOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.RateCardPath, "rate-card", o.RateCardPath, "Path to a rate card file. Built-in prices are used when omitted.")
	fs.StringVarP(&o.OutputDir, "out", "o", o.OutputDir, "Directory the reports are written to.")
	fs.StringSliceVar(&o.Formats, "formats", o.Formats, fmt.Sprintf("Report formats to render. Any of: (%s).", strings.Join(legalFormats, ", ")))
	fs.StringVar(&o.Name, "name", o.Name, "Assessment name. Defaults to the input file name.")
	fs.StringVar(&o.Currency, "currency", o.Currency, "Override the rate card currency code for report labeling.")
	fs.BoolVar(&o.IncludePoweredOff, "include-powered-off", o.IncludePoweredOff, "Keep powered-off VMs in the assessment and price them at zero.")
}

func (o *ProcessOptions) Validate(args []string) error {
	for _, format := range o.Formats {
		valid := false
		for _, legal := range legalFormats {
			if format == legal {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("format must be one of %s", strings.Join(legalFormats, ", "))
		}
	}
	if info, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	} else if info.IsDir() {
		return fmt.Errorf("input %q is a directory", args[0])
	}
	return nil
}

func (o *ProcessOptions) Run(ctx context.Context, inputPath string) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	name := o.Name
	if name == "" {
		base := filepath.Base(inputPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	card := pricing.DefaultRateCard()
	if o.RateCardPath != "" {
		card = pricing.LoadRateCard(o.RateCardPath)
	}
	if o.Currency != "" {
		card.Currency = strings.ToUpper(o.Currency)
	}

	svc := service.NewProcessingService(card)
	result, err := svc.Process(ctx, content, service.Options{
		AssessmentName:    name,
		IncludePoweredOff: o.IncludePoweredOff,
	})
	if err != nil {
		return err
	}

	formats := make([]types.ReportFormat, 0, len(o.Formats))
	for _, format := range o.Formats {
		formats = append(formats, types.ReportFormat(format))
	}

	files, err := svc.RenderReports(result, formats)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(o.OutputDir, 0o755); err != nil {
		return err
	}
	written := make([]string, 0, len(files))
	for fileName, fileContent := range files {
		path := filepath.Join(o.OutputDir, fileName)
		if err := os.WriteFile(path, fileContent, 0o644); err != nil {
			return err
		}
		written = append(written, path)
	}

	summary := result.Assessment.Summary()
	fmt.Printf("Processed %d VMs (%d powered on, %d skipped rows)\n",
		summary.TotalVMs, summary.PoweredOnVMs, result.Stats.SkippedNoID+result.Stats.SkippedNoSignal)
	fmt.Printf("Estimated monthly cost: %.2f %s\n", result.BOM.TotalMonthlyCost(), result.BOM.Currency)
	for _, path := range written {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}
