package analytics

import (
	"errors"
	"slices"
	"strings"

	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

// ErrNonTemporal is returned by MonthlyTrend when no record in the filtered
// set carries a parseable ship month. Callers degrade by omitting the trend
// view instead of aborting the analysis.
var ErrNonTemporal = errors.New("non-temporal data: no parseable ship months in filtered set")

// Dimension selects the grouping axis for penetration analysis.
type Dimension string

const (
	DimensionRegion    Dimension = "region"
	DimensionCustomer  Dimension = "customer"
	DimensionApplicant Dimension = "applicant"
)

func dimensionValue(r models.SalesRecord, dim Dimension) string {
	switch dim {
	case DimensionCustomer:
		return r.Customer
	case DimensionApplicant:
		return r.Applicant
	default:
		return r.Region
	}
}

// PenetrationRate computes, per dimension bucket, the percentage of its
// customers that bought at least one new product. newRecords must be the
// new-product subset of records. Rates are 0 when a bucket has no
// customers. Buckets are sorted by value ascending.
func PenetrationRate(records, newRecords []models.SalesRecord, dim Dimension) []models.PenetrationBucket {
	type acc struct {
		customers    map[string]bool
		newCustomers map[string]bool
		newRevenue   float64
	}

	groups := make(map[string]*acc)
	get := func(value string) *acc {
		g := groups[value]
		if g == nil {
			g = &acc{customers: make(map[string]bool), newCustomers: make(map[string]bool)}
			groups[value] = g
		}
		return g
	}

	for _, r := range records {
		get(dimensionValue(r, dim)).customers[r.Customer] = true
	}
	for _, r := range newRecords {
		g := get(dimensionValue(r, dim))
		g.newCustomers[r.Customer] = true
		g.newRevenue += r.Revenue
	}

	result := make([]models.PenetrationBucket, 0, len(groups))
	for value, g := range groups {
		result = append(result, models.PenetrationBucket{
			Value:        value,
			Customers:    len(g.customers),
			NewCustomers: len(g.newCustomers),
			RatePercent:  ratio(float64(len(g.newCustomers)), float64(len(g.customers))),
			NewRevenue:   g.newRevenue,
		})
	}
	slices.SortFunc(result, func(a, b models.PenetrationBucket) int {
		return strings.Compare(a.Value, b.Value)
	})
	return result
}

// OverallPenetration is the single-bucket form: the share of all customers
// in the filtered set that bought a new product.
func OverallPenetration(records, newRecords []models.SalesRecord) models.PenetrationBucket {
	customers := make(map[string]bool)
	newCustomers := make(map[string]bool)
	var newRevenue float64

	for _, r := range records {
		customers[r.Customer] = true
	}
	for _, r := range newRecords {
		newCustomers[r.Customer] = true
		newRevenue += r.Revenue
	}

	return models.PenetrationBucket{
		Value:        "all",
		Customers:    len(customers),
		NewCustomers: len(newCustomers),
		RatePercent:  ratio(float64(len(newCustomers)), float64(len(customers))),
		NewRevenue:   newRevenue,
	}
}

// MonthlyTrend computes the penetration rate per calendar month, ordered
// chronologically. Records without a parsed ship month are skipped; if none
// remain the operation fails with ErrNonTemporal.
func MonthlyTrend(records, newRecords []models.SalesRecord) ([]models.MonthlyPenetration, error) {
	customers := make(map[string]map[string]bool)
	for _, r := range records {
		if !r.ShipMonthValid {
			continue
		}
		month := r.Month()
		if customers[month] == nil {
			customers[month] = make(map[string]bool)
		}
		customers[month][r.Customer] = true
	}

	if len(customers) == 0 {
		return nil, ErrNonTemporal
	}

	newCustomers := make(map[string]map[string]bool)
	for _, r := range newRecords {
		if !r.ShipMonthValid {
			continue
		}
		month := r.Month()
		if newCustomers[month] == nil {
			newCustomers[month] = make(map[string]bool)
		}
		newCustomers[month][r.Customer] = true
	}

	months := make([]string, 0, len(customers))
	for month := range customers {
		months = append(months, month)
	}
	slices.Sort(months)

	result := make([]models.MonthlyPenetration, 0, len(months))
	for _, month := range months {
		total := len(customers[month])
		bought := len(newCustomers[month])
		result = append(result, models.MonthlyPenetration{
			Month:        month,
			Customers:    total,
			NewCustomers: bought,
			RatePercent:  ratio(float64(bought), float64(total)),
		})
	}
	return result, nil
}

// RegionNewProductShare computes, per region, each new product's percentage
// of that region's total new-product revenue (the heatmap cells).
// newRecords must already be the new-product subset.
func RegionNewProductShare(newRecords []models.SalesRecord) []models.RegionProductShare {
	type key struct{ region, code string }

	regionTotals := make(map[string]float64)
	cells := make(map[key]*models.RegionProductShare)

	for _, r := range newRecords {
		regionTotals[r.Region] += r.Revenue
		k := key{r.Region, r.ProductCode}
		c := cells[k]
		if c == nil {
			c = &models.RegionProductShare{
				Region:      r.Region,
				ProductCode: r.ProductCode,
				DisplayName: r.DisplayName,
			}
			cells[k] = c
		}
		c.Revenue += r.Revenue
	}

	result := make([]models.RegionProductShare, 0, len(cells))
	for _, c := range cells {
		c.SharePercent = ratio(c.Revenue, regionTotals[c.Region])
		result = append(result, *c)
	}
	slices.SortFunc(result, func(a, b models.RegionProductShare) int {
		if c := strings.Compare(a.Region, b.Region); c != 0 {
			return c
		}
		return strings.Compare(a.ProductCode, b.ProductCode)
	})
	return result
}
