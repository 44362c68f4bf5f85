// Package analytics computes the derived aggregates behind the dashboard
// views. Every function is pure: deterministic output for identical input,
// no shared state, safe to call from concurrent requests. Caching belongs
// to the caller.
package analytics

import (
	"slices"
	"strings"

	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

// Thresholds are the segmentation bucket boundaries, in percent of
// new-product revenue share. [0,Balanced) is conservative,
// [Balanced,Innovative) balanced, [Innovative,100] innovative.
type Thresholds struct {
	Balanced   float64
	Innovative float64
}

var DefaultThresholds = Thresholds{Balanced: 10, Innovative: 30}

// ratio returns num/den as a percentage, defined as 0 when den is 0 so no
// NaN or Inf ever reaches a caller.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// Overview computes the headline KPIs of the filtered set.
func Overview(records []models.SalesRecord) models.Overview {
	customers := make(map[string]bool)
	products := make(map[string]bool)
	var revenue, priceSum float64

	for _, r := range records {
		customers[r.Customer] = true
		products[r.ProductCode] = true
		revenue += r.Revenue
		priceSum += r.UnitPrice
	}

	var avgPrice float64
	if len(records) > 0 {
		avgPrice = priceSum / float64(len(records))
	}

	return models.Overview{
		TotalRevenue:  revenue,
		CustomerCount: len(customers),
		ProductCount:  len(products),
		AvgUnitPrice:  avgPrice,
	}
}

// RegionalRollup aggregates revenue, customer/product cardinality, average
// unit price and quantity per region, sorted by revenue descending.
func RegionalRollup(records []models.SalesRecord) []models.RegionRollup {
	type acc struct {
		revenue   float64
		priceSum  float64
		rows      int
		quantity  int
		customers map[string]bool
		products  map[string]bool
	}

	groups := make(map[string]*acc)
	for _, r := range records {
		g := groups[r.Region]
		if g == nil {
			g = &acc{customers: make(map[string]bool), products: make(map[string]bool)}
			groups[r.Region] = g
		}
		g.revenue += r.Revenue
		g.priceSum += r.UnitPrice
		g.rows++
		g.quantity += r.Quantity
		g.customers[r.Customer] = true
		g.products[r.ProductCode] = true
	}

	result := make([]models.RegionRollup, 0, len(groups))
	for region, g := range groups {
		result = append(result, models.RegionRollup{
			Region:        region,
			Revenue:       g.revenue,
			CustomerCount: len(g.customers),
			ProductCount:  len(g.products),
			AvgUnitPrice:  g.priceSum / float64(g.rows),
			Quantity:      g.quantity,
		})
	}
	sortByRevenue(result,
		func(r models.RegionRollup) float64 { return r.Revenue },
		func(r models.RegionRollup) string { return r.Region })
	return result
}

// ProductRollup aggregates per product, sorted by revenue descending.
func ProductRollup(records []models.SalesRecord) []models.ProductRollup {
	type acc struct {
		name     string
		revenue  float64
		quantity int
		buyers   map[string]bool
	}

	groups := make(map[string]*acc)
	for _, r := range records {
		g := groups[r.ProductCode]
		if g == nil {
			g = &acc{name: r.DisplayName, buyers: make(map[string]bool)}
			groups[r.ProductCode] = g
		}
		g.revenue += r.Revenue
		g.quantity += r.Quantity
		g.buyers[r.Customer] = true
	}

	result := make([]models.ProductRollup, 0, len(groups))
	for code, g := range groups {
		result = append(result, models.ProductRollup{
			ProductCode: code,
			DisplayName: g.name,
			Revenue:     g.revenue,
			BuyerCount:  len(g.buyers),
			Quantity:    g.quantity,
		})
	}
	sortByRevenue(result,
		func(p models.ProductRollup) float64 { return p.Revenue },
		func(p models.ProductRollup) string { return p.ProductCode })
	return result
}

// ApplicantRollup ranks applicants by revenue.
func ApplicantRollup(records []models.SalesRecord) []models.ApplicantRollup {
	groups := make(map[string]float64)
	for _, r := range records {
		groups[r.Applicant] += r.Revenue
	}

	result := make([]models.ApplicantRollup, 0, len(groups))
	for applicant, revenue := range groups {
		result = append(result, models.ApplicantRollup{Applicant: applicant, Revenue: revenue})
	}
	sortByRevenue(result,
		func(a models.ApplicantRollup) float64 { return a.Revenue },
		func(a models.ApplicantRollup) string { return a.Applicant })
	return result
}

// PackagingRollup aggregates revenue by inferred packaging type.
func PackagingRollup(records []models.SalesRecord) []models.PackagingRollup {
	groups := make(map[models.PackagingType]float64)
	for _, r := range records {
		groups[r.Packaging] += r.Revenue
	}

	result := make([]models.PackagingRollup, 0, len(groups))
	for packaging, revenue := range groups {
		result = append(result, models.PackagingRollup{Packaging: packaging, Revenue: revenue})
	}
	sortByRevenue(result,
		func(p models.PackagingRollup) float64 { return p.Revenue },
		func(p models.PackagingRollup) string { return string(p.Packaging) })
	return result
}

// NewProductSplit computes the new-vs-total revenue breakdown.
func NewProductSplit(records []models.SalesRecord, newSet map[string]bool) models.NewProductSplit {
	var total, newRevenue float64
	buyers := make(map[string]bool)
	newProducts := make(map[string]bool)

	for _, r := range records {
		total += r.Revenue
		if newSet[r.ProductCode] {
			newRevenue += r.Revenue
			buyers[r.Customer] = true
			newProducts[r.ProductCode] = true
		}
	}

	return models.NewProductSplit{
		NewRevenue:    newRevenue,
		TotalRevenue:  total,
		SharePercent:  ratio(newRevenue, total),
		BuyerCount:    len(buyers),
		ProductCounts: len(newProducts),
	}
}

// SegmentFor buckets a new-product share percentage. Inclusive-left,
// exclusive-right, with the last bucket closed at 100.
func SegmentFor(sharePercent float64, th Thresholds) models.Segment {
	switch {
	case sharePercent < th.Balanced:
		return models.SegmentConservative
	case sharePercent < th.Innovative:
		return models.SegmentBalanced
	default:
		return models.SegmentInnovative
	}
}

// CustomerFeatures derives one feature row per distinct customer, sorted by
// total revenue descending.
func CustomerFeatures(records []models.SalesRecord, newSet map[string]bool, th Thresholds) []models.CustomerFeature {
	type acc struct {
		revenue    float64
		newRevenue float64
		priceSum   float64
		rows       int
		quantity   int
		products   map[string]bool
	}

	groups := make(map[string]*acc)
	for _, r := range records {
		g := groups[r.Customer]
		if g == nil {
			g = &acc{products: make(map[string]bool)}
			groups[r.Customer] = g
		}
		g.revenue += r.Revenue
		g.priceSum += r.UnitPrice
		g.rows++
		g.quantity += r.Quantity
		g.products[r.ProductCode] = true
		if newSet[r.ProductCode] {
			g.newRevenue += r.Revenue
		}
	}

	result := make([]models.CustomerFeature, 0, len(groups))
	for customer, g := range groups {
		share := ratio(g.newRevenue, g.revenue)
		result = append(result, models.CustomerFeature{
			Customer:         customer,
			TotalRevenue:     g.revenue,
			DistinctProducts: len(g.products),
			TotalQuantity:    g.quantity,
			AvgUnitPrice:     g.priceSum / float64(g.rows),
			NewRevenue:       g.newRevenue,
			NewSharePercent:  share,
			Segment:          SegmentFor(share, th),
		})
	}
	sortByRevenue(result,
		func(f models.CustomerFeature) float64 { return f.TotalRevenue },
		func(f models.CustomerFeature) string { return f.Customer })
	return result
}

// segmentOrder fixes the display order of segment summaries.
var segmentOrder = []models.Segment{
	models.SegmentConservative,
	models.SegmentBalanced,
	models.SegmentInnovative,
}

// SegmentSummaries averages revenue and new-product share per segment.
// Every segment appears in the output even when it holds no customers.
func SegmentSummaries(features []models.CustomerFeature) []models.SegmentSummary {
	type acc struct {
		count    int
		revenue  float64
		shareSum float64
	}

	groups := make(map[models.Segment]*acc)
	for _, f := range features {
		g := groups[f.Segment]
		if g == nil {
			g = &acc{}
			groups[f.Segment] = g
		}
		g.count++
		g.revenue += f.TotalRevenue
		g.shareSum += f.NewSharePercent
	}

	result := make([]models.SegmentSummary, 0, len(segmentOrder))
	for _, segment := range segmentOrder {
		summary := models.SegmentSummary{Segment: segment}
		if g := groups[segment]; g != nil {
			summary.CustomerCount = g.count
			summary.AvgRevenue = g.revenue / float64(g.count)
			summary.AvgSharePercent = g.shareSum / float64(g.count)
		}
		result = append(result, summary)
	}
	return result
}

// TopAcceptance returns the k customers with the highest new-product share.
func TopAcceptance(features []models.CustomerFeature, k int) []models.CustomerFeature {
	ranked := slices.Clone(features)
	slices.SortFunc(ranked, func(a, b models.CustomerFeature) int {
		switch {
		case a.NewSharePercent > b.NewSharePercent:
			return -1
		case a.NewSharePercent < b.NewSharePercent:
			return 1
		default:
			return strings.Compare(a.Customer, b.Customer)
		}
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// sortByRevenue sorts descending by the extracted measure, breaking ties on
// the label so repeated runs over map-built slices produce identical output.
func sortByRevenue[T any](items []T, measure func(T) float64, label func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		ma, mb := measure(a), measure(b)
		switch {
		case ma > mb:
			return -1
		case ma < mb:
			return 1
		default:
			return strings.Compare(label(a), label(b))
		}
	})
}
