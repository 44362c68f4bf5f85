package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a summary of a data file",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	insights, ds, err := loadInsights(cmd.Context())
	if err != nil {
		return err
	}
	if ds.Sample {
		log.Printf("No data file found, summarizing the demo dataset")
	}

	views, err := insights.Views(models.FilterCriteria{})
	if err != nil {
		return err
	}

	fmt.Printf("Source:            %s\n", sourceLabel(ds))
	fmt.Printf("Records:           %d\n", views.RecordCount)
	fmt.Printf("Customers:         %d\n", views.Overview.CustomerCount)
	fmt.Printf("Products:          %d\n", views.Overview.ProductCount)
	fmt.Printf("Total revenue:     %.2f\n", views.Overview.TotalRevenue)
	fmt.Printf("New product share: %.1f%%\n", views.Split.SharePercent)
	fmt.Printf("New product buyers: %d\n", views.Split.BuyerCount)

	fmt.Println("\nSegments:")
	for _, seg := range views.Segments {
		fmt.Printf("  %-12s %4d customers  avg new share %5.1f%%\n",
			seg.Segment, seg.CustomerCount, seg.AvgSharePercent)
	}

	if views.TrendAvailable {
		fmt.Println("\nMonthly new product penetration:")
		for _, m := range views.Trend {
			fmt.Printf("  %s  %5.1f%%  (%d/%d customers)\n",
				m.Month, m.RatePercent, m.NewCustomers, m.Customers)
		}
	} else {
		fmt.Println("\nMonthly trend unavailable: no parseable ship months")
	}

	return nil
}

func sourceLabel(ds *models.Dataset) string {
	if ds.Sample {
		return "built-in demo data"
	}
	return ds.SourcePath
}
