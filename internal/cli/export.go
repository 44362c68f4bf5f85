package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/CIRA18-HUB/sales-dashboard/internal/analytics"
	"github.com/CIRA18-HUB/sales-dashboard/internal/config"
	"github.com/CIRA18-HUB/sales-dashboard/internal/dataset"
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
	"github.com/CIRA18-HUB/sales-dashboard/internal/observability"
	"github.com/CIRA18-HUB/sales-dashboard/internal/services"
)

var (
	outFile          string
	filterRegions    []string
	filterCustomers  []string
	filterProducts   []string
	filterApplicants []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate the analysis workbook from a data file",
	Long: `Export loads a sales data file, applies any filters, and writes the
four-sheet analysis workbook (filtered rows, new product rows, region
summary, product summary) as an .xlsx file.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "sales-report.xlsx", "output workbook path")
	exportCmd.Flags().StringSliceVar(&filterRegions, "region", nil, "restrict to these regions")
	exportCmd.Flags().StringSliceVar(&filterCustomers, "customer", nil, "restrict to these customers")
	exportCmd.Flags().StringSliceVar(&filterProducts, "product", nil, "restrict to these product codes")
	exportCmd.Flags().StringSliceVar(&filterApplicants, "applicant", nil, "restrict to these applicants")
}

func loadInsights(ctx context.Context) (*services.Insights, *models.Dataset, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if dataFile != "" {
		cfg.Data.File = dataFile
	}

	logger := observability.NewLogger(cfg.Logger)

	loader := dataset.NewLoader(cfg.Data, cfg.Analysis, logger)
	ds, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	thresholds := analytics.Thresholds{
		Balanced:   cfg.Analysis.BalancedThreshold,
		Innovative: cfg.Analysis.InnovativeThreshold,
	}
	insights := services.NewInsights(thresholds, logger)
	insights.SetDataset(ds)
	return insights, ds, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	insights, ds, err := loadInsights(cmd.Context())
	if err != nil {
		return err
	}
	if ds.Sample {
		log.Printf("No data file found, exporting the demo dataset")
	}

	criteria := models.FilterCriteria{
		Regions:    filterRegions,
		Customers:  filterCustomers,
		Products:   filterProducts,
		Applicants: filterApplicants,
	}

	workbook, err := insights.ExportReport(criteria)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if err := os.WriteFile(outFile, workbook, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}

	log.Printf("Wrote %d records (%d bytes) to %s", len(ds.Records), len(workbook), outFile)
	return nil
}
