package analytics

import (
	"slices"
	"strings"

	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

// CoOccurrence builds the product affinity matrix: cell (i,j) counts the
// distinct customers who bought both products at least once. Amounts are
// irrelevant beyond revenue > 0. Symmetric by construction; the diagonal is
// never written.
//
// The pairwise pass is O(customers × products²), fine for catalogs in the
// tens of products. A sparse pair-counting pass would be needed if the
// catalog ever grows into the thousands.
func CoOccurrence(records []models.SalesRecord) *models.CoOccurrenceMatrix {
	baskets := make(map[string]map[string]bool)
	products := make(map[string]bool)

	for _, r := range records {
		if r.Revenue <= 0 {
			continue
		}
		b := baskets[r.Customer]
		if b == nil {
			b = make(map[string]bool)
			baskets[r.Customer] = b
		}
		b[r.ProductCode] = true
		products[r.ProductCode] = true
	}

	codes := make([]string, 0, len(products))
	for code := range products {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	counts := make(map[string]map[string]int, len(codes))
	for _, code := range codes {
		counts[code] = make(map[string]int)
	}

	for _, basket := range baskets {
		bought := make([]string, 0, len(basket))
		for code := range basket {
			bought = append(bought, code)
		}
		slices.Sort(bought)

		for i := 0; i < len(bought); i++ {
			for j := i + 1; j < len(bought); j++ {
				counts[bought[i]][bought[j]]++
				counts[bought[j]][bought[i]]++
			}
		}
	}

	return &models.CoOccurrenceMatrix{Products: codes, Counts: counts}
}

// TopCoOccurring returns the k strongest basket partners of a product.
// displayNames maps product codes to chart labels; missing entries fall
// back to the code itself.
func TopCoOccurring(m *models.CoOccurrenceMatrix, code string, k int, displayNames map[string]string) []models.CoOccurrencePair {
	row, ok := m.Counts[code]
	if !ok {
		return nil
	}

	pairs := make([]models.CoOccurrencePair, 0, len(row))
	for other, count := range row {
		name := displayNames[other]
		if name == "" {
			name = other
		}
		pairs = append(pairs, models.CoOccurrencePair{
			ProductCode: other,
			DisplayName: name,
			Count:       count,
		})
	}

	slices.SortFunc(pairs, func(a, b models.CoOccurrencePair) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.ProductCode, b.ProductCode)
	})

	if k > 0 && len(pairs) > k {
		pairs = pairs[:k]
	}
	return pairs
}

// BasketStats summarizes purchase breadth: average distinct products per
// customer, the products-per-customer histogram and the share of customers
// holding at least one new product.
func BasketStats(records []models.SalesRecord, newSet map[string]bool) models.BasketStats {
	baskets := make(map[string]map[string]bool)
	for _, r := range records {
		if r.Revenue <= 0 {
			continue
		}
		b := baskets[r.Customer]
		if b == nil {
			b = make(map[string]bool)
			baskets[r.Customer] = b
		}
		b[r.ProductCode] = true
	}

	histogram := make(map[int]int)
	var productSum, newBuyers int
	for _, basket := range baskets {
		histogram[len(basket)]++
		productSum += len(basket)
		for code := range basket {
			if newSet[code] {
				newBuyers++
				break
			}
		}
	}

	stats := models.BasketStats{ProductCountHistogram: histogram}
	if len(baskets) > 0 {
		stats.AvgProductsPerCustomer = float64(productSum) / float64(len(baskets))
		stats.NewBuyerPercent = ratio(float64(newBuyers), float64(len(baskets)))
	}
	return stats
}
