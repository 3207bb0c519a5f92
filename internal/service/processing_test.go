package service_test

import (
	"archive/zip"
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	api "github.com/vmassess/bomgen/api/v1alpha1"
	"github.com/vmassess/bomgen/internal/pipeline"
	"github.com/vmassess/bomgen/internal/report/types"
	"github.com/vmassess/bomgen/internal/service"
)

// Helper functions for Excel fixture construction
func newSheet(f *excelize.File, sheet string) {
	_, err := f.NewSheet(sheet)
	Expect(err).To(Succeed())
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []string) {
	ref, err := excelize.CoordinatesToCellName(1, rowNum)
	Expect(err).To(Succeed())
	Expect(f.SetSheetRow(sheet, ref, &cells)).To(Succeed())
}

func writeWorkbook(sheets map[string][][]string) []byte {
	f := excelize.NewFile()
	defer f.Close()

	for sheet, rows := range sheets {
		newSheet(f, sheet)
		for i, row := range rows {
			setRow(f, sheet, i+1, row)
		}
	}
	Expect(f.DeleteSheet("Sheet1")).To(Succeed())

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	Expect(err).To(Succeed())
	return buf.Bytes()
}

func writeArchive(files map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		Expect(err).To(Succeed())
		_, err = w.Write([]byte(content))
		Expect(err).To(Succeed())
	}
	Expect(zw.Close()).To(Succeed())
	return buf.Bytes()
}

// createExportWorkbook builds a two-VM export: web-01 powered on with
// two disks, win-01 powered off.
func createExportWorkbook() []byte {
	return writeWorkbook(map[string][][]string{
		"vCPU": {
			{"VM UUID", "VM Name", "CPUs"},
			{"u1", "web-01", "4"},
			{"u2", "win-01", "2"},
		},
		"vMemory": {
			{"VM UUID", "Size MiB Memory"},
			{"u1", "16384"},
			{"u2", "8192"},
		},
		"vDisk": {
			{"VM UUID", "Capacity MiB"},
			{"u1", "51200"},
			{"u1", "20480"},
			{"u2", "102400"},
		},
		"vInfo": {
			{"VM UUID", "PowerState"},
			{"u1", "poweredOn"},
			{"u2", "poweredOff"},
		},
		"vTools": {
			{"VM UUID", "OS according to the VMware Tools"},
			{"u1", "Ubuntu Linux (64-bit)"},
			{"u2", "Microsoft Windows Server 2019 (64-bit)"},
		},
	})
}

var _ = Describe("Processing inventory exports", func() {
	var svc *service.ProcessingService

	BeforeEach(func() {
		svc = service.NewProcessingService(nil)
	})

	Context("with an xlsx workbook", func() {
		It("builds one record per VM, aggregating disks", func() {
			result, err := svc.Process(context.Background(), createExportWorkbook(), service.Options{
				AssessmentName: "dc export",
			})
			Expect(err).To(Succeed())

			Expect(result.Assessment.Name).To(Equal("dc export"))
			Expect(result.Assessment.TotalVMs).To(Equal(1), "powered-off VM is filtered by default")

			vm := result.Assessment.VMs[0]
			Expect(vm.Name).To(Equal("web-01"))
			Expect(vm.CPUCores).To(Equal(4))
			Expect(vm.MemoryGB).To(Equal(16.0))
			Expect(vm.TotalStorageGB()).To(Equal(70.0))
			Expect(vm.OSType).To(Equal(api.OSTypeLinux))
		})

		It("prices the assessment against the default rate card", func() {
			result, err := svc.Process(context.Background(), createExportWorkbook(), service.Options{})
			Expect(err).To(Succeed())

			Expect(result.BOM.Currency).To(Equal("EUR"))
			Expect(result.BOM.LineItems).NotTo(BeEmpty())

			byComponent := result.BOM.CostByComponent()
			// 2 OCPUs at 0.0279/h over 744 h
			Expect(byComponent[api.ComponentCompute]).To(BeNumerically("~", 41.5152, 1e-6))
			Expect(byComponent[api.ComponentStorage]).To(BeNumerically("~", 70*0.023715, 1e-6))
		})

		It("keeps powered-off VMs on request", func() {
			result, err := svc.Process(context.Background(), createExportWorkbook(), service.Options{
				IncludePoweredOff: true,
			})
			Expect(err).To(Succeed())

			Expect(result.Assessment.TotalVMs).To(Equal(2))
			Expect(result.Assessment.PoweredOnVMs).To(Equal(1))

			// the powered-off Windows VM still contributes no cost
			for _, item := range result.BOM.LineItems {
				Expect(item.VMID).To(Equal("u1"))
			}
		})

		It("reports progress through the callback", func() {
			var stages []string
			_, err := svc.Process(context.Background(), createExportWorkbook(), service.Options{
				Progress: func(stage string, percent int) { stages = append(stages, stage) },
			})
			Expect(err).To(Succeed())
			Expect(stages).To(ContainElement("merging"))
			Expect(stages[len(stages)-1]).To(Equal("done"))
		})

		It("drops VMs without any cpu or memory signal", func() {
			content := writeWorkbook(map[string][][]string{
				"vCPU": {
					{"VM UUID", "VM Name", "CPUs"},
					{"u1", "web-01", "4"},
					{"u2", "ghost-01", "0"},
				},
			})

			result, err := svc.Process(context.Background(), content, service.Options{})
			Expect(err).To(Succeed())
			Expect(result.Assessment.TotalVMs).To(Equal(1))
			Expect(result.Stats.SkippedNoSignal).To(Equal(1))
		})

		It("fails when the workbook holds no recognized data", func() {
			content := writeWorkbook(map[string][][]string{
				"vHost": {{"Host"}, {"esx-01"}},
			})

			_, err := svc.Process(context.Background(), content, service.Options{})
			Expect(err).To(MatchError(pipeline.ErrNoDatasets))
		})
	})

	Context("with a ZIP of CSV extracts", func() {
		It("processes semicolon-delimited files", func() {
			content := writeArchive(map[string]string{
				"RVTools_tabvcpu.csv":    "VM UUID;VM Name;CPUs\nu1;web-01;4\n",
				"RVTools_tabvmemory.csv": "VM UUID;Size MiB Memory\nu1;16384\n",
				"RVTools_tabvdisk.csv":   "VM UUID;Capacity MiB\nu1;51200\nu1;20480\n",
			})

			result, err := svc.Process(context.Background(), content, service.Options{})
			Expect(err).To(Succeed())
			Expect(result.Format).To(Equal("rvtools-zip"))

			vm := result.Assessment.VMs[0]
			Expect(vm.TotalStorageGB()).To(Equal(70.0))
			Expect(vm.MemoryGB).To(Equal(16.0))
		})
	})

	Context("with unsupported content", func() {
		It("rejects it before the pipeline runs", func() {
			_, err := svc.Process(context.Background(), []byte("hello"), service.Options{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported input"))
		})
	})

	Context("report rendering", func() {
		It("renders every requested format", func() {
			result, err := svc.Process(context.Background(), createExportWorkbook(), service.Options{})
			Expect(err).To(Succeed())

			files, err := svc.RenderReports(result, []types.ReportFormat{
				types.ReportFormatCSV, types.ReportFormatJSON,
			})
			Expect(err).To(Succeed())
			Expect(files).To(HaveKey("assessment.csv"))
			Expect(files).To(HaveKey("bom.csv"))
			Expect(files).To(HaveKey("assessment.json"))
			Expect(files).To(HaveKey("bom.json"))
		})

		It("renders all formats when none are requested", func() {
			result, err := svc.Process(context.Background(), createExportWorkbook(), service.Options{})
			Expect(err).To(Succeed())

			files, err := svc.RenderReports(result, nil)
			Expect(err).To(Succeed())
			Expect(files).To(HaveLen(8))
			Expect(files).To(HaveKey("bom.xlsx"))
			Expect(files).To(HaveKey("assessment.txt"))
		})

		It("rejects unknown formats", func() {
			result, err := svc.Process(context.Background(), createExportWorkbook(), service.Options{})
			Expect(err).To(Succeed())

			_, err = svc.RenderReports(result, []types.ReportFormat{"pdf"})
			Expect(err).To(HaveOccurred())
		})
	})
})
