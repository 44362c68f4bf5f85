package dataset

import (
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

// Filter returns the records matching all criteria dimensions. Dimensions
// are AND-combined; values within a dimension are OR-combined. An empty
// dimension imposes no restriction, so empty criteria returns the input
// unchanged. Pure and idempotent.
func Filter(records []models.SalesRecord, criteria models.FilterCriteria) []models.SalesRecord {
	if criteria.IsEmpty() {
		return records
	}

	regions := toSet(criteria.Regions)
	customers := toSet(criteria.Customers)
	products := toSet(criteria.Products)
	applicants := toSet(criteria.Applicants)

	out := make([]models.SalesRecord, 0, len(records))
	for _, r := range records {
		if regions != nil && !regions[r.Region] {
			continue
		}
		if customers != nil && !customers[r.Customer] {
			continue
		}
		if products != nil && !products[r.ProductCode] {
			continue
		}
		if applicants != nil && !applicants[r.Applicant] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// toSet returns nil for an empty slice so absence of a selection is
// "no restriction", never "match nothing".
func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
