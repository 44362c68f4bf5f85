package models

// Overview is the KPI row of the main dashboard tab.
type Overview struct {
	TotalRevenue  float64 `json:"total_revenue"`
	CustomerCount int     `json:"customer_count"`
	ProductCount  int     `json:"product_count"`
	AvgUnitPrice  float64 `json:"avg_unit_price"`
}

type RegionRollup struct {
	Region        string  `json:"region"`
	Revenue       float64 `json:"revenue"`
	CustomerCount int     `json:"customer_count"`
	ProductCount  int     `json:"product_count"`
	AvgUnitPrice  float64 `json:"avg_unit_price"`
	Quantity      int     `json:"quantity"`
}

type ProductRollup struct {
	ProductCode string  `json:"product_code"`
	DisplayName string  `json:"display_name"`
	Revenue     float64 `json:"revenue"`
	BuyerCount  int     `json:"buyer_count"`
	Quantity    int     `json:"quantity"`
}

type ApplicantRollup struct {
	Applicant string  `json:"applicant"`
	Revenue   float64 `json:"revenue"`
}

type PackagingRollup struct {
	Packaging PackagingType `json:"packaging"`
	Revenue   float64       `json:"revenue"`
}

// NewProductSplit is the new-vs-total revenue breakdown. Share is a
// percentage and defined as 0 when TotalRevenue is 0.
type NewProductSplit struct {
	NewRevenue    float64 `json:"new_revenue"`
	TotalRevenue  float64 `json:"total_revenue"`
	SharePercent  float64 `json:"share_percent"`
	BuyerCount    int     `json:"buyer_count"`
	ProductCounts int     `json:"product_count"`
}

type CustomerFeature struct {
	Customer         string  `json:"customer"`
	TotalRevenue     float64 `json:"total_revenue"`
	DistinctProducts int     `json:"distinct_products"`
	TotalQuantity    int     `json:"total_quantity"`
	AvgUnitPrice     float64 `json:"avg_unit_price"`
	NewRevenue       float64 `json:"new_revenue"`
	NewSharePercent  float64 `json:"new_share_percent"`
	Segment          Segment `json:"segment"`
}

type SegmentSummary struct {
	Segment         Segment `json:"segment"`
	CustomerCount   int     `json:"customer_count"`
	AvgRevenue      float64 `json:"avg_revenue"`
	AvgSharePercent float64 `json:"avg_share_percent"`
}

// CoOccurrenceMatrix counts, for each unordered product pair, the distinct
// customers that bought both. Symmetric by construction; the diagonal is
// never written or read.
type CoOccurrenceMatrix struct {
	Products []string         `json:"products"`
	Counts   map[string]map[string]int `json:"counts"`
}

// At returns the co-occurrence count for a product pair.
func (m *CoOccurrenceMatrix) At(a, b string) int {
	if row, ok := m.Counts[a]; ok {
		return row[b]
	}
	return 0
}

type CoOccurrencePair struct {
	ProductCode string `json:"product_code"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

type PenetrationBucket struct {
	Value        string  `json:"value"`
	Customers    int     `json:"customers"`
	NewCustomers int     `json:"new_customers"`
	RatePercent  float64 `json:"rate_percent"`
	NewRevenue   float64 `json:"new_revenue"`
}

type MonthlyPenetration struct {
	Month        string  `json:"month"`
	Customers    int     `json:"customers"`
	NewCustomers int     `json:"new_customers"`
	RatePercent  float64 `json:"rate_percent"`
}

// RegionProductShare is one heatmap cell: a new product's percentage of its
// region's new-product revenue.
type RegionProductShare struct {
	Region       string  `json:"region"`
	ProductCode  string  `json:"product_code"`
	DisplayName  string  `json:"display_name"`
	Revenue      float64 `json:"revenue"`
	SharePercent float64 `json:"share_percent"`
}

// BasketStats summarizes purchase breadth across customers.
type BasketStats struct {
	AvgProductsPerCustomer float64        `json:"avg_products_per_customer"`
	NewBuyerPercent        float64        `json:"new_buyer_percent"`
	ProductCountHistogram  map[int]int    `json:"product_count_histogram"`
}
